package repository

import (
	"context"
	"debate_backend/internal/model"
	"debate_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// WithTx 返回绑定到事务的副本
func (r *QuestionRepository) WithTx(tx *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: tx}
}

func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&q).Error
	return &q, err
}

func (r *QuestionRepository) FindByTopicID(ctx context.Context, topicID string) ([]model.Question, error) {
	questions := []model.Question{}
	err := r.DB.WithContext(ctx).
		Where("debate_topic_id = ?", topicID).
		Order("created_at ASC, id ASC").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) ExistsByUniqueID(ctx context.Context, uniqueID, excludeID string) (bool, error) {
	var count int64
	query := r.DB.WithContext(ctx).Model(&model.Question{}).Where("unique_id = ?", uniqueID)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *QuestionRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Save(q).Error
}

// IncrementVote 单条 UPDATE 原子自增，不存在时返回 ErrNotFound
func (r *QuestionRepository) IncrementVote(ctx context.Context, id, direction string) (*model.Question, error) {
	column, ok := voteColumn(direction)
	if !ok {
		return nil, util.InvalidArgumentf("vote type %q", direction)
	}

	var q model.Question
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Question{}).
			Where("id = ?", id).
			UpdateColumn(column, gorm.Expr(column+" + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return util.NotFoundf("question %s", id)
		}
		return tx.Select("id", "votes_up", "votes_down").Where("id = ?", id).First(&q).Error
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Delete 级联删除回复树、附件和证据，返回需要清理的存储 key
func (r *QuestionRepository) Delete(ctx context.Context, id string) ([]string, error) {
	var keys []string
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Question{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return util.NotFoundf("question %s", id)
		}
		k, err := purgeQuestions(tx, []string{id})
		keys = k
		return err
	})
	return keys, err
}
