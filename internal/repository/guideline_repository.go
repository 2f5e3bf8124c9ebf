package repository

import (
	"context"
	"debate_backend/internal/model"

	"gorm.io/gorm"
)

type GuidelineRepository struct {
	DB *gorm.DB
}

func NewGuidelineRepository(db *gorm.DB) *GuidelineRepository {
	return &GuidelineRepository{DB: db}
}

func (r *GuidelineRepository) Create(ctx context.Context, g *model.Guideline) error {
	return r.DB.WithContext(ctx).Create(g).Error
}

func (r *GuidelineRepository) FindByID(ctx context.Context, id uint) (*model.Guideline, error) {
	var g model.Guideline
	err := r.DB.WithContext(ctx).First(&g, id).Error
	return &g, err
}

func (r *GuidelineRepository) FindAll(ctx context.Context) ([]model.Guideline, error) {
	guidelines := []model.Guideline{}
	err := r.DB.WithContext(ctx).Order("display_order ASC, id ASC").Find(&guidelines).Error
	return guidelines, err
}

func (r *GuidelineRepository) FindActive(ctx context.Context) ([]model.Guideline, error) {
	guidelines := []model.Guideline{}
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, id ASC").
		Find(&guidelines).Error
	return guidelines, err
}

// MaxDisplayOrder 空表返回 0
func (r *GuidelineRepository) MaxDisplayOrder(ctx context.Context) (int, error) {
	var max int64
	err := r.DB.WithContext(ctx).Model(&model.Guideline{}).
		Select("COALESCE(MAX(display_order), 0)").
		Row().Scan(&max)
	return int(max), err
}

func (r *GuidelineRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Guideline{}).Count(&count).Error
	return count, err
}

func (r *GuidelineRepository) Update(ctx context.Context, g *model.Guideline) error {
	return r.DB.WithContext(ctx).Save(g).Error
}

func (r *GuidelineRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.DB.WithContext(ctx).Delete(&model.Guideline{}, id)
	return result.RowsAffected > 0, result.Error
}
