package service

import (
	"context"
	"debate_backend/internal/model"
	"debate_backend/internal/repository"
	"debate_backend/internal/util"
	"debate_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

// ReplyRequest questionId 和 parentReplyId 必须且只能提供一个
type ReplyRequest struct {
	QuestionID    string `json:"questionId"`
	ParentReplyID string `json:"parentReplyId"`
	Text          string `json:"text" binding:"required"`
	Side          string `json:"side" binding:"required"`
	Author        string `json:"author" binding:"max=100"`
	UniqueID      string `json:"uniqueId" binding:"max=100"`
}

type ReplyUpdateRequest struct {
	Text   *string `json:"text"`
	Side   *string `json:"side"`
	Author *string `json:"author" binding:"omitempty,max=100"`
}

type ReplyService struct {
	ReplyRepo    *repository.ReplyRepository
	QuestionRepo *repository.QuestionRepository
	Assembler    *TreeAssembler
	Storage      *StorageService
}

func NewReplyService(replyRepo *repository.ReplyRepository, questionRepo *repository.QuestionRepository, assembler *TreeAssembler, storage *StorageService) *ReplyService {
	return &ReplyService{
		ReplyRepo:    replyRepo,
		QuestionRepo: questionRepo,
		Assembler:    assembler,
		Storage:      storage,
	}
}

// ResolveParent 把请求里的两个可选 id 转成带标签的引用
func ResolveParent(questionID, replyID string) (model.ParentRef, error) {
	ref, ok := model.ParentFromColumns(util.StringPtr(questionID), util.StringPtr(replyID))
	if !ok {
		if strings.TrimSpace(questionID) != "" {
			return model.ParentRef{}, util.Validationf("cannot reference both a question and a reply")
		}
		return model.ParentRef{}, util.Validationf("either questionId or a reply id must be provided")
	}
	return ref, nil
}

// Create depth 由服务端计算：挂在问题下为 0，挂在回复下为父回复 depth+1
func (s *ReplyService) Create(ctx context.Context, req ReplyRequest, principal *util.Claims) (*model.ReplyView, error) {
	parent, err := ResolveParent(req.QuestionID, req.ParentReplyID)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, util.Validationf("text is required")
	}
	side, err := parseSide(req.Side)
	if err != nil {
		return nil, err
	}

	reply := &model.Reply{
		Text: text,
		Side: side,
	}

	switch parent.Kind {
	case model.ParentQuestion:
		exists, err := s.QuestionRepo.Exists(ctx, parent.ID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, util.NotFoundf("question %s", parent.ID)
		}
		reply.Depth = 0
	case model.ParentReply:
		p, err := s.ReplyRepo.FindByID(ctx, parent.ID)
		if err != nil {
			return nil, notFound(err, "reply", parent.ID)
		}
		reply.Depth = p.Depth + 1
	}
	reply.QuestionID, reply.ParentReplyID = parent.Columns()

	if uniqueID := util.StringPtr(req.UniqueID); uniqueID != nil {
		taken, err := s.ReplyRepo.ExistsByUniqueID(ctx, *uniqueID, "")
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, util.Conflictf("reply uniqueId %q already exists", *uniqueID)
		}
		reply.UniqueID = uniqueID
	}

	author := req.Author
	if strings.TrimSpace(author) == "" && principal != nil {
		author = principal.Subject
	}
	reply.Author = authorOrDefault(author)

	if err := s.ReplyRepo.Create(ctx, reply); err != nil {
		return nil, parentGone(conflictOnDuplicate(err, "reply uniqueId already exists"), string(parent.Kind), parent.ID)
	}

	logger.Log.Info("Reply created",
		zap.String("replyId", reply.ID),
		zap.String("parentKind", string(parent.Kind)),
		zap.String("parentId", parent.ID),
		zap.Int("depth", reply.Depth))
	return newReplyView(reply), nil
}

func (s *ReplyService) Get(ctx context.Context, id string) (*model.ReplyView, error) {
	return s.Assembler.AssembleReply(ctx, id)
}

func (s *ReplyService) ListByQuestion(ctx context.Context, questionID string) ([]*model.ReplyView, error) {
	return s.Assembler.AssembleDirectReplies(ctx, questionID)
}

func (s *ReplyService) Update(ctx context.Context, id string, req ReplyUpdateRequest) (*model.ReplyView, error) {
	reply, err := s.ReplyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "reply", id)
	}

	if req.Text != nil {
		text := strings.TrimSpace(*req.Text)
		if text == "" {
			return nil, util.Validationf("text must not be empty")
		}
		reply.Text = text
	}
	if req.Side != nil {
		side, err := parseSide(*req.Side)
		if err != nil {
			return nil, err
		}
		reply.Side = side
	}
	if req.Author != nil {
		reply.Author = authorOrDefault(*req.Author)
	}

	if err := s.ReplyRepo.Update(ctx, reply); err != nil {
		return nil, err
	}
	return s.Assembler.AssembleReply(ctx, id)
}

func (s *ReplyService) Delete(ctx context.Context, id string) error {
	keys, err := s.ReplyRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.Storage.DeleteQuietly(ctx, keys)

	logger.Log.Info("Reply deleted", zap.String("replyId", id), zap.Int("objectsRemoved", len(keys)))
	return nil
}
