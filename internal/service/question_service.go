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

type QuestionRequest struct {
	DebateTopicID string `json:"debateTopicId" binding:"required"`
	Text          string `json:"text" binding:"required"`
	Tag           string `json:"tag" binding:"max=100"`
	Side          string `json:"side" binding:"required"`
	Author        string `json:"author" binding:"max=100"`
	UniqueID      string `json:"uniqueId" binding:"max=100"`
}

type QuestionUpdateRequest struct {
	Text   *string `json:"text"`
	Tag    *string `json:"tag" binding:"omitempty,max=100"`
	Side   *string `json:"side"`
	Author *string `json:"author" binding:"omitempty,max=100"`
}

type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
	TopicRepo    *repository.TopicRepository
	Assembler    *TreeAssembler
	Storage      *StorageService
}

func NewQuestionService(questionRepo *repository.QuestionRepository, topicRepo *repository.TopicRepository, assembler *TreeAssembler, storage *StorageService) *QuestionService {
	return &QuestionService{
		QuestionRepo: questionRepo,
		TopicRepo:    topicRepo,
		Assembler:    assembler,
		Storage:      storage,
	}
}

func parseSide(side string) (model.Side, error) {
	s := model.Side(strings.ToLower(strings.TrimSpace(side)))
	if !s.Valid() {
		return "", util.Validationf("side must be %q or %q", model.SideLeft, model.SideRight)
	}
	return s, nil
}

// Create author 为空时使用登录用户名，再否则为 Anonymous
func (s *QuestionService) Create(ctx context.Context, req QuestionRequest, principal *util.Claims) (*model.QuestionView, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, util.Validationf("text is required")
	}
	side, err := parseSide(req.Side)
	if err != nil {
		return nil, err
	}

	exists, err := s.TopicRepo.Exists(ctx, req.DebateTopicID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, util.NotFoundf("topic %s", req.DebateTopicID)
	}

	uniqueID := util.StringPtr(req.UniqueID)
	if uniqueID != nil {
		taken, err := s.QuestionRepo.ExistsByUniqueID(ctx, *uniqueID, "")
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, util.Conflictf("question uniqueId %q already exists", *uniqueID)
		}
	}

	author := req.Author
	if strings.TrimSpace(author) == "" && principal != nil {
		author = principal.Subject
	}

	q := &model.Question{
		DebateTopicID: req.DebateTopicID,
		Text:          text,
		Tag:           strings.TrimSpace(req.Tag),
		Side:          side,
		Author:        authorOrDefault(author),
		UniqueID:      uniqueID,
	}
	if err := s.QuestionRepo.Create(ctx, q); err != nil {
		return nil, parentGone(conflictOnDuplicate(err, "question uniqueId already exists"), "topic", req.DebateTopicID)
	}

	logger.Log.Info("Question created",
		zap.String("questionId", q.ID),
		zap.String("topicId", q.DebateTopicID),
		zap.String("side", string(q.Side)))
	return newQuestionView(q), nil
}

func (s *QuestionService) Get(ctx context.Context, id string) (*model.QuestionView, error) {
	return s.Assembler.AssembleQuestion(ctx, id)
}

func (s *QuestionService) ListByTopic(ctx context.Context, topicID string) ([]*model.QuestionView, error) {
	return s.Assembler.AssembleTopic(ctx, topicID)
}

func (s *QuestionService) Update(ctx context.Context, id string, req QuestionUpdateRequest) (*model.QuestionView, error) {
	q, err := s.QuestionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "question", id)
	}

	if req.Text != nil {
		text := strings.TrimSpace(*req.Text)
		if text == "" {
			return nil, util.Validationf("text must not be empty")
		}
		q.Text = text
	}
	if req.Tag != nil {
		q.Tag = strings.TrimSpace(*req.Tag)
	}
	if req.Side != nil {
		side, err := parseSide(*req.Side)
		if err != nil {
			return nil, err
		}
		q.Side = side
	}
	if req.Author != nil {
		q.Author = authorOrDefault(*req.Author)
	}

	if err := s.QuestionRepo.Update(ctx, q); err != nil {
		return nil, err
	}
	return s.Assembler.AssembleQuestion(ctx, id)
}

func (s *QuestionService) Delete(ctx context.Context, id string) error {
	keys, err := s.QuestionRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.Storage.DeleteQuietly(ctx, keys)

	logger.Log.Info("Question deleted", zap.String("questionId", id), zap.Int("objectsRemoved", len(keys)))
	return nil
}
