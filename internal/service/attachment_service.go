package service

import (
	"context"
	"debate_backend/internal/model"
	"debate_backend/internal/repository"
	"debate_backend/internal/util"
	"debate_backend/pkg/logger"
	"debate_backend/pkg/monitoring"
	"io"
	"mime/multipart"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// UploadRequest multipart 表单里除文件外的字段
type UploadRequest struct {
	QuestionID   string `form:"questionId"`
	ReplyID      string `form:"replyId"`
	UploadedBy   string `form:"uploadedBy"`
	DisplayOrder int    `form:"displayOrder"`
}

type EvidenceRequest struct {
	URL          string `json:"url" form:"url" binding:"required"`
	Title        string `json:"title" form:"title" binding:"max=255"`
	QuestionID   string `json:"questionId" form:"questionId"`
	ReplyID      string `json:"replyId" form:"replyId"`
	DisplayOrder int    `json:"displayOrder" form:"displayOrder"`
}

type AttachmentService struct {
	AttachmentRepo *repository.AttachmentRepository
	EvidenceRepo   *repository.EvidenceRepository
	QuestionRepo   *repository.QuestionRepository
	ReplyRepo      *repository.ReplyRepository
	Storage        *StorageService
	MaxFileSize    int64
}

func NewAttachmentService(
	attachmentRepo *repository.AttachmentRepository,
	evidenceRepo *repository.EvidenceRepository,
	questionRepo *repository.QuestionRepository,
	replyRepo *repository.ReplyRepository,
	storage *StorageService,
	maxFileSize int64,
) *AttachmentService {
	return &AttachmentService{
		AttachmentRepo: attachmentRepo,
		EvidenceRepo:   evidenceRepo,
		QuestionRepo:   questionRepo,
		ReplyRepo:      replyRepo,
		Storage:        storage,
		MaxFileSize:    maxFileSize,
	}
}

// resolveOwner 校验二选一并确认目标存在
func (s *AttachmentService) resolveOwner(ctx context.Context, questionID, replyID string) (model.ParentRef, error) {
	owner, err := ResolveParent(questionID, replyID)
	if err != nil {
		return owner, err
	}

	var exists bool
	if owner.IsQuestion() {
		exists, err = s.QuestionRepo.Exists(ctx, owner.ID)
	} else {
		exists, err = s.ReplyRepo.Exists(ctx, owner.ID)
	}
	if err != nil {
		return owner, err
	}
	if !exists {
		return owner, util.NotFoundf("%s %s", owner.Kind, owner.ID)
	}
	return owner, nil
}

// Upload 先校验归属和大小，再写存储，最后落库；落库失败时删除已上传的对象
func (s *AttachmentService) Upload(ctx context.Context, req UploadRequest, file *multipart.FileHeader) (*model.AttachmentView, error) {
	if file == nil || file.Size == 0 {
		return nil, util.Validationf("file is empty")
	}
	if file.Size > s.MaxFileSize {
		return nil, util.Validationf("file size exceeds maximum allowed: %d bytes", s.MaxFileSize)
	}

	owner, err := s.resolveOwner(ctx, req.QuestionID, req.ReplyID)
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" || contentType == util.MimeOctetStream {
		if detected, err := util.DetectMimeType(src); err == nil {
			contentType = detected
		}
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
	}

	filename := util.SanitizeFilename(file.Filename)
	key := util.StorageKey(filename)
	storageURL, err := s.Storage.Upload(ctx, key, src, file.Size, contentType)
	if err != nil {
		return nil, err
	}

	attachment := &model.Attachment{
		FileName:        filename,
		FileSize:        file.Size,
		FileType:        contentType,
		StorageURL:      storageURL,
		StorageProvider: s.Storage.ProviderName(),
		StorageKey:      key,
		UploadedBy:      authorOrDefault(req.UploadedBy),
		DisplayOrder:    req.DisplayOrder,
	}
	attachment.QuestionID, attachment.ReplyID = owner.Columns()

	if err := s.AttachmentRepo.Create(ctx, attachment); err != nil {
		s.Storage.DeleteQuietly(ctx, []string{key})
		return nil, parentGone(err, string(owner.Kind), owner.ID)
	}

	monitoring.UploadCounter.WithLabelValues(s.Storage.ProviderName()).Inc()
	monitoring.UploadBytes.Add(float64(file.Size))
	logger.Log.Info("File uploaded",
		zap.String("attachmentId", attachment.ID),
		zap.String("fileName", filename),
		zap.Int64("size", file.Size),
		zap.String("ownerKind", string(owner.Kind)),
		zap.String("ownerId", owner.ID))

	view := newAttachmentView(attachment)
	return &view, nil
}

func (s *AttachmentService) ListAttachments(ctx context.Context, questionID, replyID string) ([]model.AttachmentView, error) {
	owner, err := s.resolveOwner(ctx, questionID, replyID)
	if err != nil {
		return nil, err
	}
	attachments, err := s.AttachmentRepo.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	views := make([]model.AttachmentView, 0, len(attachments))
	for i := range attachments {
		views = append(views, newAttachmentView(&attachments[i]))
	}
	return views, nil
}

// DeleteAttachment 先删记录再删存储对象，对象删除失败只记录日志
func (s *AttachmentService) DeleteAttachment(ctx context.Context, id string) error {
	attachment, err := s.AttachmentRepo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "attachment", id)
	}
	if err := s.AttachmentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Storage.DeleteQuietly(ctx, []string{attachment.StorageKey})

	logger.Log.Info("Attachment deleted", zap.String("attachmentId", id))
	return nil
}

func validateEvidenceURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", util.Validationf("url must be an absolute http(s) URL")
	}
	return raw, nil
}

func (s *AttachmentService) AddEvidence(ctx context.Context, req EvidenceRequest) (*model.EvidenceView, error) {
	link, err := validateEvidenceURL(req.URL)
	if err != nil {
		return nil, err
	}
	owner, err := s.resolveOwner(ctx, req.QuestionID, req.ReplyID)
	if err != nil {
		return nil, err
	}

	evidence := &model.EvidenceURL{
		URL:          link,
		Title:        strings.TrimSpace(req.Title),
		DisplayOrder: req.DisplayOrder,
	}
	evidence.QuestionID, evidence.ReplyID = owner.Columns()

	if err := s.EvidenceRepo.Create(ctx, evidence); err != nil {
		return nil, parentGone(err, string(owner.Kind), owner.ID)
	}

	logger.Log.Info("Evidence URL added",
		zap.String("evidenceId", evidence.ID),
		zap.String("ownerKind", string(owner.Kind)),
		zap.String("ownerId", owner.ID))

	view := newEvidenceView(evidence)
	return &view, nil
}

func (s *AttachmentService) ListEvidence(ctx context.Context, questionID, replyID string) ([]model.EvidenceView, error) {
	owner, err := s.resolveOwner(ctx, questionID, replyID)
	if err != nil {
		return nil, err
	}
	evidence, err := s.EvidenceRepo.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	views := make([]model.EvidenceView, 0, len(evidence))
	for i := range evidence {
		views = append(views, newEvidenceView(&evidence[i]))
	}
	return views, nil
}

func (s *AttachmentService) DeleteEvidence(ctx context.Context, id string) error {
	if _, err := s.EvidenceRepo.FindByID(ctx, id); err != nil {
		return notFound(err, "evidence url", id)
	}
	return s.EvidenceRepo.Delete(ctx, id)
}
