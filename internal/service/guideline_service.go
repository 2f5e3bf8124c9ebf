package service

import (
	"context"
	"debate_backend/internal/model"
	"debate_backend/internal/repository"
	"debate_backend/internal/util"
	"debate_backend/pkg/logger"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultGuidelines 表为空时写入的社区准则
var DefaultGuidelines = []string{
	"Be respectful and constructive in your arguments.",
	"No hate speech, personal attacks, or discrimination.",
	"Support your points with evidence where possible.",
	"Stay on topic and avoid spamming.",
	"Report inappropriate content to moderators.",
}

type GuidelineRequest struct {
	Text string `json:"text" binding:"required"`
}

type GuidelineUpdateRequest struct {
	Text         *string `json:"text"`
	IsActive     *bool   `json:"isActive"`
	DisplayOrder *int    `json:"displayOrder"`
}

type GuidelineService struct {
	GuidelineRepo *repository.GuidelineRepository
	Cache         *CacheService
}

func NewGuidelineService(guidelineRepo *repository.GuidelineRepository, cache *CacheService) *GuidelineService {
	return &GuidelineService{GuidelineRepo: guidelineRepo, Cache: cache}
}

// SeedDefaults 仅在表为空时写入默认准则，可重复调用
func (s *GuidelineService) SeedDefaults(ctx context.Context) error {
	count, err := s.GuidelineRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for i, text := range DefaultGuidelines {
		g := &model.Guideline{Text: text, DisplayOrder: i + 1, IsActive: true}
		if err := s.GuidelineRepo.Create(ctx, g); err != nil {
			return err
		}
	}
	s.Cache.InvalidateGuidelines(ctx)
	logger.Log.Info("Default guidelines initialized", zap.Int("count", len(DefaultGuidelines)))
	return nil
}

// ActiveTexts 公开接口只返回启用准则的文本
func (s *GuidelineService) ActiveTexts(ctx context.Context) ([]string, error) {
	var texts []string
	if s.Cache.GetJSON(ctx, cacheKeyActiveGuidelines, &texts) {
		return texts, nil
	}

	guidelines, err := s.GuidelineRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	texts = make([]string, 0, len(guidelines))
	for _, g := range guidelines {
		texts = append(texts, g.Text)
	}
	s.Cache.SetJSON(ctx, cacheKeyActiveGuidelines, texts)
	return texts, nil
}

func (s *GuidelineService) ListAll(ctx context.Context) ([]model.Guideline, error) {
	return s.GuidelineRepo.FindAll(ctx)
}

// Create 新准则排在最后：max(displayOrder) + 1
func (s *GuidelineService) Create(ctx context.Context, req GuidelineRequest) (*model.Guideline, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, util.Validationf("text is required")
	}
	max, err := s.GuidelineRepo.MaxDisplayOrder(ctx)
	if err != nil {
		return nil, err
	}

	g := &model.Guideline{Text: text, DisplayOrder: max + 1, IsActive: true}
	if err := s.GuidelineRepo.Create(ctx, g); err != nil {
		return nil, err
	}
	s.Cache.InvalidateGuidelines(ctx)
	return g, nil
}

func (s *GuidelineService) Update(ctx context.Context, id uint, req GuidelineUpdateRequest) (*model.Guideline, error) {
	g, err := s.GuidelineRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundf("guideline %d", id)
		}
		return nil, err
	}

	if req.Text != nil {
		text := strings.TrimSpace(*req.Text)
		if text == "" {
			return nil, util.Validationf("text must not be empty")
		}
		g.Text = text
	}
	if req.IsActive != nil {
		g.IsActive = *req.IsActive
	}
	if req.DisplayOrder != nil {
		g.DisplayOrder = *req.DisplayOrder
	}

	if err := s.GuidelineRepo.Update(ctx, g); err != nil {
		return nil, err
	}
	s.Cache.InvalidateGuidelines(ctx)
	return g, nil
}

func (s *GuidelineService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.GuidelineRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return util.NotFoundf("guideline %d", id)
	}
	s.Cache.InvalidateGuidelines(ctx)
	return nil
}
