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

type TopicRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	LeftLabel   string `json:"leftLabel" binding:"required,max=100"`
	RightLabel  string `json:"rightLabel" binding:"required,max=100"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

// TopicUpdateRequest 只更新非空字段
type TopicUpdateRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	LeftLabel   *string `json:"leftLabel" binding:"omitempty,max=100"`
	RightLabel  *string `json:"rightLabel" binding:"omitempty,max=100"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

type TopicService struct {
	TopicRepo *repository.TopicRepository
	Storage   *StorageService
	Cache     *CacheService
}

func NewTopicService(topicRepo *repository.TopicRepository, storage *StorageService, cache *CacheService) *TopicService {
	return &TopicService{
		TopicRepo: topicRepo,
		Storage:   storage,
		Cache:     cache,
	}
}

func (s *TopicService) List(ctx context.Context, active *bool) ([]model.Topic, error) {
	key := topicsCacheKey(active)
	var cached []model.Topic
	if s.Cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	topics, err := s.TopicRepo.FindAll(ctx, active)
	if err != nil {
		return nil, err
	}
	s.Cache.SetJSON(ctx, key, topics)
	return topics, nil
}

func (s *TopicService) Get(ctx context.Context, id string) (*model.Topic, error) {
	topic, err := s.TopicRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "topic", id)
	}
	return topic, nil
}

func (s *TopicService) Create(ctx context.Context, req TopicRequest) (*model.Topic, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, util.Validationf("title is required")
	}
	if strings.TrimSpace(req.LeftLabel) == "" || strings.TrimSpace(req.RightLabel) == "" {
		return nil, util.Validationf("leftLabel and rightLabel are required")
	}

	exists, err := s.TopicRepo.ExistsByTitle(ctx, title, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.Conflictf("topic with title %q already exists", title)
	}

	topic := &model.Topic{
		Title:       title,
		LeftLabel:   strings.TrimSpace(req.LeftLabel),
		RightLabel:  strings.TrimSpace(req.RightLabel),
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		topic.IsActive = *req.IsActive
	}

	if err := s.TopicRepo.Create(ctx, topic); err != nil {
		return nil, conflictOnDuplicate(err, "topic with title %q already exists", title)
	}
	s.Cache.InvalidateTopics(ctx)

	logger.Log.Info("Topic created", zap.String("topicId", topic.ID), zap.String("title", topic.Title))
	return topic, nil
}

func (s *TopicService) Update(ctx context.Context, id string, req TopicUpdateRequest) (*model.Topic, error) {
	topic, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, util.Validationf("title must not be empty")
		}
		if title != topic.Title {
			exists, err := s.TopicRepo.ExistsByTitle(ctx, title, id)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, util.Conflictf("topic with title %q already exists", title)
			}
		}
		topic.Title = title
	}
	if req.LeftLabel != nil {
		topic.LeftLabel = strings.TrimSpace(*req.LeftLabel)
	}
	if req.RightLabel != nil {
		topic.RightLabel = strings.TrimSpace(*req.RightLabel)
	}
	if topic.LeftLabel == "" || topic.RightLabel == "" {
		return nil, util.Validationf("leftLabel and rightLabel must not be empty")
	}
	if req.Description != nil {
		topic.Description = *req.Description
	}
	if req.IsActive != nil {
		topic.IsActive = *req.IsActive
	}

	if err := s.TopicRepo.Update(ctx, topic); err != nil {
		return nil, conflictOnDuplicate(err, "topic with title %q already exists", topic.Title)
	}
	s.Cache.InvalidateTopics(ctx)
	return topic, nil
}

// Delete 级联删除，事务提交后再清理存储文件
func (s *TopicService) Delete(ctx context.Context, id string) error {
	keys, err := s.TopicRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.Cache.InvalidateTopics(ctx)
	s.Storage.DeleteQuietly(ctx, keys)

	logger.Log.Info("Topic deleted", zap.String("topicId", id), zap.Int("objectsRemoved", len(keys)))
	return nil
}
