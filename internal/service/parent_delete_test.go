package service

import (
	"context"
	"debate_backend/internal/model"
	"debate_backend/internal/testutil"
	"debate_backend/internal/util"
	"errors"
	"testing"

	"gorm.io/gorm"
)

// deleteAfterLookup 在 table 上的下一次查询结束后执行一次 remove，
// 模拟父记录在存在性检查和插入之间被并发删除
func deleteAfterLookup(t *testing.T, db *gorm.DB, table string, remove func() error) {
	t.Helper()
	armed := true
	err := db.Callback().Query().After("gorm:query").Register("test:delete_after_lookup", func(tx *gorm.DB) {
		if !armed || tx.Statement.Table != table {
			return
		}
		armed = false
		if err := remove(); err != nil {
			t.Errorf("concurrent delete failed: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
}

func TestCreateWhileParentDeleted(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		// run 布置好数据和回调后执行创建，返回创建结果
		run func(t *testing.T, f *fixture, topic *model.Topic, q *model.Question, r *model.Reply) error
	}{
		{
			name: "nested reply",
			run: func(t *testing.T, f *fixture, topic *model.Topic, q *model.Question, r *model.Reply) error {
				deleteAfterLookup(t, f.db, "replies", func() error { return f.question.Delete(ctx, q.ID) })
				_, err := f.reply.Create(ctx, ReplyRequest{ParentReplyID: r.ID, Text: "late", Side: "left"}, nil)
				return err
			},
		},
		{
			name: "direct reply",
			run: func(t *testing.T, f *fixture, topic *model.Topic, q *model.Question, r *model.Reply) error {
				deleteAfterLookup(t, f.db, "questions", func() error { return f.question.Delete(ctx, q.ID) })
				_, err := f.reply.Create(ctx, ReplyRequest{QuestionID: q.ID, Text: "late", Side: "left"}, nil)
				return err
			},
		},
		{
			name: "question",
			run: func(t *testing.T, f *fixture, topic *model.Topic, q *model.Question, r *model.Reply) error {
				deleteAfterLookup(t, f.db, "debate_topics", func() error { return f.topic.Delete(ctx, topic.ID) })
				_, err := f.question.Create(ctx, QuestionRequest{DebateTopicID: topic.ID, Text: "late", Side: "right"}, nil)
				return err
			},
		},
		{
			name: "evidence",
			run: func(t *testing.T, f *fixture, topic *model.Topic, q *model.Question, r *model.Reply) error {
				deleteAfterLookup(t, f.db, "replies", func() error { return f.reply.Delete(ctx, r.ID) })
				_, err := f.attachment.AddEvidence(ctx, EvidenceRequest{URL: "https://example.com/a", ReplyID: r.ID})
				return err
			},
		},
		{
			name: "attachment",
			run: func(t *testing.T, f *fixture, topic *model.Topic, q *model.Question, r *model.Reply) error {
				deleteAfterLookup(t, f.db, "replies", func() error { return f.reply.Delete(ctx, r.ID) })
				_, err := f.attachment.Upload(ctx, UploadRequest{ReplyID: r.ID}, fileHeader(t, "late.txt", "text/plain", []byte("late")))
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			topic := testutil.CreateTopic(t, f.db, "Race")
			q := testutil.CreateQuestion(t, f.db, topic.ID, model.SideLeft)
			r := testutil.CreateReply(t, f.db, model.ParentRef{Kind: model.ParentQuestion, ID: q.ID}, 0, model.SideRight)

			if err := tt.run(t, f, topic, q, r); !errors.Is(err, util.ErrNotFound) {
				t.Errorf("expected ErrNotFound after parent deletion, got %v", err)
			}

			for name, m := range map[string]interface{}{
				"replies":     &model.Reply{},
				"attachments": &model.Attachment{},
				"evidence":    &model.EvidenceURL{},
			} {
				var n int64
				if err := f.db.Model(m).Count(&n).Error; err != nil {
					t.Fatalf("count %s: %v", name, err)
				}
				if n != 0 {
					t.Errorf("expected no orphaned %s, got %d", name, n)
				}
			}
		})
	}
}
