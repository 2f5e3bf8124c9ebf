package repository

import (
	"context"
	"debate_backend/internal/model"
	"debate_backend/internal/util"

	"gorm.io/gorm"
)

type TopicRepository struct {
	DB *gorm.DB
}

func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{DB: db}
}

func (r *TopicRepository) WithTx(tx *gorm.DB) *TopicRepository {
	return &TopicRepository{DB: tx}
}

func (r *TopicRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Topic{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *TopicRepository) Create(ctx context.Context, topic *model.Topic) error {
	return r.DB.WithContext(ctx).Create(topic).Error
}

func (r *TopicRepository) FindByID(ctx context.Context, id string) (*model.Topic, error) {
	var topic model.Topic
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&topic).Error
	return &topic, err
}

// FindAll active 为 nil 时不过滤
func (r *TopicRepository) FindAll(ctx context.Context, active *bool) ([]model.Topic, error) {
	topics := []model.Topic{}
	query := r.DB.WithContext(ctx).Model(&model.Topic{})
	if active != nil {
		query = query.Where("is_active = ?", *active)
	}
	err := query.Order("created_at DESC").Find(&topics).Error
	return topics, err
}

// ExistsByTitle excludeID 非空时排除自身（用于更新）
func (r *TopicRepository) ExistsByTitle(ctx context.Context, title, excludeID string) (bool, error) {
	var count int64
	query := r.DB.WithContext(ctx).Model(&model.Topic{}).Where("title = ?", title)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *TopicRepository) Update(ctx context.Context, topic *model.Topic) error {
	return r.DB.WithContext(ctx).Save(topic).Error
}

// Delete 级联删除话题下的问题、回复树、附件和证据，返回需要清理的存储 key
func (r *TopicRepository) Delete(ctx context.Context, id string) ([]string, error) {
	var keys []string
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Topic{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return util.NotFoundf("topic %s", id)
		}

		var questionIDs []string
		if err := tx.Model(&model.Question{}).Where("debate_topic_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		k, err := purgeQuestions(tx, questionIDs)
		if err != nil {
			return err
		}
		keys = k

		return tx.Where("id = ?", id).Delete(&model.Topic{}).Error
	})
	return keys, err
}
