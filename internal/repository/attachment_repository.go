package repository

import (
	"context"
	"debate_backend/internal/model"

	"gorm.io/gorm"
)

// 附件和证据链接共用的排序：显式顺序优先，创建时间次之
const displayOrdering = "display_order ASC, created_at ASC, id ASC"

func ownerColumn(owner model.ParentRef) string {
	if owner.IsQuestion() {
		return "question_id"
	}
	return "reply_id"
}

type AttachmentRepository struct {
	DB *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{DB: db}
}

func (r *AttachmentRepository) WithTx(tx *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{DB: tx}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *model.Attachment) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *AttachmentRepository) FindByID(ctx context.Context, id string) (*model.Attachment, error) {
	var a model.Attachment
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&a).Error
	return &a, err
}

func (r *AttachmentRepository) FindByOwner(ctx context.Context, owner model.ParentRef) ([]model.Attachment, error) {
	return r.FindByOwnerIDs(ctx, owner.Kind, []string{owner.ID})
}

// FindByOwnerIDs 按归属批量查询，供回复树逐层组装使用
func (r *AttachmentRepository) FindByOwnerIDs(ctx context.Context, kind model.ParentKind, ids []string) ([]model.Attachment, error) {
	column := ownerColumn(model.ParentRef{Kind: kind})
	attachments := []model.Attachment{}
	for _, batch := range chunkIDs(ids) {
		var part []model.Attachment
		if err := r.DB.WithContext(ctx).Where(column+" IN ?", batch).Order(displayOrdering).Find(&part).Error; err != nil {
			return nil, err
		}
		attachments = append(attachments, part...)
	}
	return attachments, nil
}

func (r *AttachmentRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Attachment{}).Error
}

type EvidenceRepository struct {
	DB *gorm.DB
}

func NewEvidenceRepository(db *gorm.DB) *EvidenceRepository {
	return &EvidenceRepository{DB: db}
}

func (r *EvidenceRepository) WithTx(tx *gorm.DB) *EvidenceRepository {
	return &EvidenceRepository{DB: tx}
}

func (r *EvidenceRepository) Create(ctx context.Context, e *model.EvidenceURL) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *EvidenceRepository) FindByID(ctx context.Context, id string) (*model.EvidenceURL, error) {
	var e model.EvidenceURL
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&e).Error
	return &e, err
}

func (r *EvidenceRepository) FindByOwner(ctx context.Context, owner model.ParentRef) ([]model.EvidenceURL, error) {
	return r.FindByOwnerIDs(ctx, owner.Kind, []string{owner.ID})
}

func (r *EvidenceRepository) FindByOwnerIDs(ctx context.Context, kind model.ParentKind, ids []string) ([]model.EvidenceURL, error) {
	column := ownerColumn(model.ParentRef{Kind: kind})
	evidence := []model.EvidenceURL{}
	for _, batch := range chunkIDs(ids) {
		var part []model.EvidenceURL
		if err := r.DB.WithContext(ctx).Where(column+" IN ?", batch).Order(displayOrdering).Find(&part).Error; err != nil {
			return nil, err
		}
		evidence = append(evidence, part...)
	}
	return evidence, nil
}

func (r *EvidenceRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.EvidenceURL{}).Error
}
