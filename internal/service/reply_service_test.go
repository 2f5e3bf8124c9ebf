package service

import (
	"context"
	"debate_backend/internal/model"
	"debate_backend/internal/testutil"
	"debate_backend/internal/util"
	"errors"
	"testing"
)

func TestResolveParent(t *testing.T) {
	tests := []struct {
		name       string
		questionID string
		replyID    string
		want       model.ParentRef
		wantErr    bool
	}{
		{"question", "q1", "", model.ParentRef{Kind: model.ParentQuestion, ID: "q1"}, false},
		{"reply", "", "r1", model.ParentRef{Kind: model.ParentReply, ID: "r1"}, false},
		{"blank treated as missing", "  ", "r1", model.ParentRef{Kind: model.ParentReply, ID: "r1"}, false},
		{"both", "q1", "r1", model.ParentRef{}, true},
		{"neither", "", "", model.ParentRef{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveParent(tt.questionID, tt.replyID)
			if tt.wantErr {
				if !errors.Is(err, util.ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("got %+v, %v; want %+v", got, err, tt.want)
			}
		})
	}
}

func TestCreateReplyValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	topic := testutil.CreateTopic(t, f.db, "Replies")
	q := testutil.CreateQuestion(t, f.db, topic.ID, model.SideLeft)
	r := testutil.CreateReply(t, f.db, model.ParentRef{Kind: model.ParentQuestion, ID: q.ID}, 0, model.SideRight)

	tests := []struct {
		name string
		req  ReplyRequest
		want error
	}{
		{"both parents", ReplyRequest{QuestionID: q.ID, ParentReplyID: r.ID, Text: "x", Side: "left"}, util.ErrValidation},
		{"no parent", ReplyRequest{Text: "x", Side: "left"}, util.ErrValidation},
		{"bad side", ReplyRequest{QuestionID: q.ID, Text: "x", Side: "middle"}, util.ErrValidation},
		{"blank text", ReplyRequest{QuestionID: q.ID, Text: "   ", Side: "left"}, util.ErrValidation},
		{"missing question", ReplyRequest{QuestionID: "missing", Text: "x", Side: "left"}, util.ErrNotFound},
		{"missing parent reply", ReplyRequest{ParentReplyID: "missing", Text: "x", Side: "left"}, util.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.reply.Create(ctx, tt.req, nil); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	var n int64
	f.db.Model(&model.Reply{}).Count(&n)
	if n != 1 {
		t.Errorf("rejected requests must not create rows, got %d replies", n)
	}
}

func TestCreateReplyAuthorAndUniqueID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	topic := testutil.CreateTopic(t, f.db, "Authors")
	q := testutil.CreateQuestion(t, f.db, topic.ID, model.SideLeft)

	principal := &util.Claims{Kind: model.PrincipalUser}
	principal.Subject = "jo@example.com"
	r, err := f.reply.Create(ctx, ReplyRequest{QuestionID: q.ID, Text: "x", Side: "LEFT", UniqueID: "client-1"}, principal)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.Author != "jo@example.com" {
		t.Errorf("expected author from token subject, got %q", r.Author)
	}
	if r.Side != model.SideLeft {
		t.Errorf("expected side normalized to left, got %q", r.Side)
	}

	_, err = f.reply.Create(ctx, ReplyRequest{QuestionID: q.ID, Text: "y", Side: "right", UniqueID: "client-1"}, nil)
	if !errors.Is(err, util.ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate uniqueId, got %v", err)
	}
}

func TestDeleteQuestionRemovesNestedReplies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	topic := testutil.CreateTopic(t, f.db, "Delete")
	q := testutil.CreateQuestion(t, f.db, topic.ID, model.SideLeft)
	r1, _ := f.reply.Create(ctx, ReplyRequest{QuestionID: q.ID, Text: "a", Side: "right"}, nil)
	r2, _ := f.reply.Create(ctx, ReplyRequest{ParentReplyID: r1.ID, Text: "b", Side: "left"}, nil)
	testutil.CreateEvidence(t, f.db, model.ParentRef{Kind: model.ParentReply, ID: r2.ID}, 0)

	if err := f.question.Delete(ctx, q.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.reply.Get(ctx, r2.ID); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("nested reply should be gone, got %v", err)
	}
	var n int64
	f.db.Model(&model.EvidenceURL{}).Count(&n)
	if n != 0 {
		t.Errorf("expected evidence removed, got %d", n)
	}
}
