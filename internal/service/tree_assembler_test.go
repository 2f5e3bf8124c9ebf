package service

import (
	"context"
	"debate_backend/internal/model"
	"debate_backend/internal/testutil"
	"debate_backend/internal/util"
	"errors"
	"testing"
)

func TestAssembleTopicScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	topic, err := f.topic.Create(ctx, TopicRequest{Title: "Cats vs Dogs", LeftLabel: "Cats", RightLabel: "Dogs"})
	if err != nil {
		t.Fatalf("create topic: %v", err)
	}
	q, err := f.question.Create(ctx, QuestionRequest{DebateTopicID: topic.ID, Text: "Are cats smarter?", Side: "left"}, nil)
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	r1, err := f.reply.Create(ctx, ReplyRequest{QuestionID: q.ID, Text: "No", Side: "right"}, nil)
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}
	r2, err := f.reply.Create(ctx, ReplyRequest{ParentReplyID: r1.ID, Text: "Yes they are", Side: "left"}, nil)
	if err != nil {
		t.Fatalf("create nested reply: %v", err)
	}
	if r1.Depth != 0 || r2.Depth != 1 {
		t.Fatalf("expected depths 0 and 1, got %d and %d", r1.Depth, r2.Depth)
	}

	views, err := f.assembler.AssembleTopic(ctx, topic.ID)
	if err != nil {
		t.Fatalf("AssembleTopic: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 question, got %d", len(views))
	}

	qv := views[0]
	if qv.Author != model.DefaultAuthor {
		t.Errorf("expected author %q, got %q", model.DefaultAuthor, qv.Author)
	}
	if len(qv.Replies) != 1 || qv.Replies[0].ID != r1.ID {
		t.Fatalf("expected R1 as the only direct reply, got %+v", qv.Replies)
	}
	nested := qv.Replies[0].Replies
	if len(nested) != 1 || nested[0].ID != r2.ID {
		t.Fatalf("expected R2 nested under R1, got %+v", nested)
	}
	leaf := nested[0]
	if leaf.Replies == nil || len(leaf.Replies) != 0 {
		t.Errorf("leaf reply must have an empty, non-nil replies list")
	}
	if leaf.Attachments == nil || leaf.EvidenceURLs == nil {
		t.Errorf("leaf reply must have non-nil attachment and evidence lists")
	}
	if leaf.Side != model.SideLeft || qv.Replies[0].Side != model.SideRight {
		t.Errorf("sides not preserved: r1=%s r2=%s", qv.Replies[0].Side, leaf.Side)
	}
}

func TestAssembleAttachesOwnedItemsInDisplayOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	topic := testutil.CreateTopic(t, f.db, "Ordering")
	q := testutil.CreateQuestion(t, f.db, topic.ID, model.SideLeft)
	r := testutil.CreateReply(t, f.db, model.ParentRef{Kind: model.ParentQuestion, ID: q.ID}, 0, model.SideRight)

	onReply := model.ParentRef{Kind: model.ParentReply, ID: r.ID}
	second := testutil.CreateAttachment(t, f.db, onReply, 2)
	first := testutil.CreateAttachment(t, f.db, onReply, 1)
	testutil.CreateEvidence(t, f.db, model.ParentRef{Kind: model.ParentQuestion, ID: q.ID}, 0)

	view, err := f.assembler.AssembleQuestion(ctx, q.ID)
	if err != nil {
		t.Fatalf("AssembleQuestion: %v", err)
	}
	if len(view.EvidenceURLs) != 1 {
		t.Errorf("expected 1 evidence url on question, got %d", len(view.EvidenceURLs))
	}
	if len(view.Attachments) != 0 {
		t.Errorf("reply attachments must not leak onto the question")
	}
	got := view.Replies[0].Attachments
	if len(got) != 2 || got[0].ID != first.ID || got[1].ID != second.ID {
		t.Errorf("expected attachments ordered by displayOrder, got %+v", got)
	}
	if got[0].FormattedSize != "4 B" {
		t.Errorf("expected formatted size 4 B, got %q", got[0].FormattedSize)
	}
}

func TestAssembleDeepTree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	topic := testutil.CreateTopic(t, f.db, "Deep")
	q := testutil.CreateQuestion(t, f.db, topic.ID, model.SideLeft)

	parent := model.ParentRef{Kind: model.ParentQuestion, ID: q.ID}
	const depth = 8
	for d := 0; d < depth; d++ {
		r := testutil.CreateReply(t, f.db, parent, d, model.SideRight)
		parent = model.ParentRef{Kind: model.ParentReply, ID: r.ID}
	}

	view, err := f.assembler.AssembleQuestion(ctx, q.ID)
	if err != nil {
		t.Fatalf("AssembleQuestion: %v", err)
	}
	levels := 0
	for replies := view.Replies; len(replies) > 0; replies = replies[0].Replies {
		if replies[0].Depth != levels {
			t.Errorf("level %d has depth %d", levels, replies[0].Depth)
		}
		levels++
	}
	if levels != depth {
		t.Errorf("expected %d levels, got %d", depth, levels)
	}
}

func TestAssembleIntegrityErrors(t *testing.T) {
	tests := []struct {
		name string
		// corrupt 写入一条矛盾的数据
		corrupt func(t *testing.T, f *fixture, q *model.Question, r1 *model.Reply)
	}{
		{
			name: "both parents set",
			corrupt: func(t *testing.T, f *fixture, q *model.Question, r1 *model.Reply) {
				bad := &model.Reply{QuestionID: &q.ID, ParentReplyID: &r1.ID, Text: "x", Side: model.SideLeft, Author: "a"}
				if err := f.db.Create(bad).Error; err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "depth mismatch",
			corrupt: func(t *testing.T, f *fixture, q *model.Question, r1 *model.Reply) {
				bad := &model.Reply{ParentReplyID: &r1.ID, Text: "x", Side: model.SideLeft, Author: "a", Depth: 5}
				if err := f.db.Create(bad).Error; err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "direct reply with nonzero depth",
			corrupt: func(t *testing.T, f *fixture, q *model.Question, r1 *model.Reply) {
				if err := f.db.Model(r1).UpdateColumn("depth", 3).Error; err != nil {
					t.Fatal(err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			topic := testutil.CreateTopic(t, f.db, "Integrity")
			q := testutil.CreateQuestion(t, f.db, topic.ID, model.SideLeft)
			r1 := testutil.CreateReply(t, f.db, model.ParentRef{Kind: model.ParentQuestion, ID: q.ID}, 0, model.SideRight)
			tt.corrupt(t, f, q, r1)

			_, err := f.assembler.AssembleQuestion(context.Background(), q.ID)
			if !errors.Is(err, util.ErrIntegrity) {
				t.Errorf("expected ErrIntegrity, got %v", err)
			}
		})
	}
}

func TestAssembleCycle(t *testing.T) {
	f := newFixture(t)
	topic := testutil.CreateTopic(t, f.db, "Cycle")
	q := testutil.CreateQuestion(t, f.db, topic.ID, model.SideLeft)
	a := testutil.CreateReply(t, f.db, model.ParentRef{Kind: model.ParentQuestion, ID: q.ID}, 0, model.SideRight)
	b := testutil.CreateReply(t, f.db, model.ParentRef{Kind: model.ParentReply, ID: a.ID}, 1, model.SideLeft)
	c := testutil.CreateReply(t, f.db, model.ParentRef{Kind: model.ParentReply, ID: b.ID}, 2, model.SideLeft)

	// 把 a 改挂到 c 下面，形成 a -> b -> c -> a
	if err := f.db.Model(a).Updates(map[string]interface{}{"question_id": nil, "parent_reply_id": c.ID, "depth": 3}).Error; err != nil {
		t.Fatal(err)
	}

	_, err := f.assembler.AssembleReply(context.Background(), b.ID)
	if !errors.Is(err, util.ErrIntegrity) {
		t.Errorf("expected ErrIntegrity for a cycle, got %v", err)
	}
}

func TestAssembleNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.assembler.AssembleQuestion(ctx, "missing"); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("question: expected ErrNotFound, got %v", err)
	}
	if _, err := f.assembler.AssembleTopic(ctx, "missing"); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("topic: expected ErrNotFound, got %v", err)
	}
	if _, err := f.assembler.AssembleReply(ctx, "missing"); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("reply: expected ErrNotFound, got %v", err)
	}
}

func TestAssembleEmptyTopic(t *testing.T) {
	f := newFixture(t)
	topic := testutil.CreateTopic(t, f.db, "Empty")

	views, err := f.assembler.AssembleTopic(context.Background(), topic.ID)
	if err != nil {
		t.Fatalf("AssembleTopic: %v", err)
	}
	if views == nil || len(views) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", views)
	}
}
