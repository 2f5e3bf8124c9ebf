package repository

import (
	"context"
	"debate_backend/internal/model"
	"debate_backend/internal/util"

	"gorm.io/gorm"
)

type ReplyRepository struct {
	DB *gorm.DB
}

func NewReplyRepository(db *gorm.DB) *ReplyRepository {
	return &ReplyRepository{DB: db}
}

func (r *ReplyRepository) WithTx(tx *gorm.DB) *ReplyRepository {
	return &ReplyRepository{DB: tx}
}

func (r *ReplyRepository) Create(ctx context.Context, reply *model.Reply) error {
	return r.DB.WithContext(ctx).Create(reply).Error
}

func (r *ReplyRepository) FindByID(ctx context.Context, id string) (*model.Reply, error) {
	var reply model.Reply
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&reply).Error
	return &reply, err
}

// FindByQuestionIDs 问题的直接回复（depth 0），按创建时间排序
func (r *ReplyRepository) FindByQuestionIDs(ctx context.Context, questionIDs []string) ([]model.Reply, error) {
	return r.findIn(ctx, "question_id", questionIDs)
}

// FindByParentIDs 一批回复的直接子回复
func (r *ReplyRepository) FindByParentIDs(ctx context.Context, parentIDs []string) ([]model.Reply, error) {
	return r.findIn(ctx, "parent_reply_id", parentIDs)
}

func (r *ReplyRepository) findIn(ctx context.Context, column string, ids []string) ([]model.Reply, error) {
	replies := []model.Reply{}
	for _, batch := range chunkIDs(ids) {
		var part []model.Reply
		err := r.DB.WithContext(ctx).
			Where(column+" IN ?", batch).
			Order("created_at ASC, id ASC").
			Find(&part).Error
		if err != nil {
			return nil, err
		}
		replies = append(replies, part...)
	}
	return replies, nil
}

func (r *ReplyRepository) ExistsByUniqueID(ctx context.Context, uniqueID, excludeID string) (bool, error) {
	var count int64
	query := r.DB.WithContext(ctx).Model(&model.Reply{}).Where("unique_id = ?", uniqueID)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *ReplyRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Reply{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *ReplyRepository) Update(ctx context.Context, reply *model.Reply) error {
	return r.DB.WithContext(ctx).Save(reply).Error
}

func (r *ReplyRepository) IncrementVote(ctx context.Context, id, direction string) (*model.Reply, error) {
	column, ok := voteColumn(direction)
	if !ok {
		return nil, util.InvalidArgumentf("vote type %q", direction)
	}

	var reply model.Reply
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Reply{}).
			Where("id = ?", id).
			UpdateColumn(column, gorm.Expr(column+" + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return util.NotFoundf("reply %s", id)
		}
		return tx.Select("id", "votes_up", "votes_down").Where("id = ?", id).First(&reply).Error
	})
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// Delete 删除回复及全部后代，返回需要清理的存储 key
func (r *ReplyRepository) Delete(ctx context.Context, id string) ([]string, error) {
	var keys []string
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Reply{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return util.NotFoundf("reply %s", id)
		}
		k, err := purgeReplies(tx, []string{id})
		keys = k
		return err
	})
	return keys, err
}
