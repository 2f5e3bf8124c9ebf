package repository

import (
	"context"
	"debate_backend/internal/model"

	"gorm.io/gorm"
)

type ContactRepository struct {
	DB *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

func (r *ContactRepository) Create(ctx context.Context, m *model.ContactMessage) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	var m model.ContactMessage
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&m).Error
	return &m, err
}

// FindAll 最新的在前；unreadOnly 只返回未读
func (r *ContactRepository) FindAll(ctx context.Context, unreadOnly bool) ([]model.ContactMessage, error) {
	messages := []model.ContactMessage{}
	query := r.DB.WithContext(ctx).Model(&model.ContactMessage{})
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	err := query.Order("created_at DESC").Find(&messages).Error
	return messages, err
}

func (r *ContactRepository) SetRead(ctx context.Context, id string, read bool) error {
	return r.DB.WithContext(ctx).Model(&model.ContactMessage{}).
		Where("id = ?", id).
		Update("is_read", read).Error
}

func (r *ContactRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.ContactMessage{})
	return result.RowsAffected > 0, result.Error
}
