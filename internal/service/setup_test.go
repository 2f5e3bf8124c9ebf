package service

import (
	"debate_backend/internal/config"
	"debate_backend/internal/repository"
	"debate_backend/internal/testutil"
	"testing"

	"gorm.io/gorm"
)

// fixture 基于临时 sqlite 的完整服务集合
type fixture struct {
	db         *gorm.DB
	cfg        *config.Config
	storage    *StorageService
	assembler  *TreeAssembler
	topic      *TopicService
	question   *QuestionService
	reply      *ReplyService
	vote       *VoteService
	attachment *AttachmentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.TestConfig(t)

	topicRepo := repository.NewTopicRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	replyRepo := repository.NewReplyRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	evidenceRepo := repository.NewEvidenceRepository(db)

	f := &fixture{db: db, cfg: cfg}
	f.storage = NewStorageService(cfg)
	f.assembler = NewTreeAssembler(db, topicRepo, questionRepo, replyRepo, attachmentRepo, evidenceRepo)
	f.topic = NewTopicService(topicRepo, f.storage, NewCacheService(nil, 0))
	f.question = NewQuestionService(questionRepo, topicRepo, f.assembler, f.storage)
	f.reply = NewReplyService(replyRepo, questionRepo, f.assembler, f.storage)
	f.vote = NewVoteService(questionRepo, replyRepo, nil)
	f.attachment = NewAttachmentService(attachmentRepo, evidenceRepo, questionRepo, replyRepo, f.storage, cfg.Storage.MaxFileSize)
	return f
}
