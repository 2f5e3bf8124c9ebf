package service

import (
	"context"
	"debate_backend/internal/model"
	"debate_backend/internal/repository"
	"debate_backend/internal/util"
	"debate_backend/pkg/logger"
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,max=255"`
	Subject string `json:"subject" binding:"required,max=255"`
	Message string `json:"message" binding:"required"`
}

type ContactService struct {
	ContactRepo *repository.ContactRepository
}

func NewContactService(contactRepo *repository.ContactRepository) *ContactService {
	return &ContactService{ContactRepo: contactRepo}
}

func (s *ContactService) Submit(ctx context.Context, req ContactRequest) (*model.ContactMessage, error) {
	email := strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, util.Validationf("invalid email address")
	}
	msg := &model.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   email,
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	if msg.Name == "" || msg.Subject == "" || msg.Message == "" {
		return nil, util.Validationf("name, subject and message are required")
	}

	if err := s.ContactRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	logger.Log.Info("Contact message received", zap.String("messageId", msg.ID))
	return msg, nil
}

func (s *ContactService) List(ctx context.Context, unreadOnly bool) ([]model.ContactMessage, error) {
	return s.ContactRepo.FindAll(ctx, unreadOnly)
}

func (s *ContactService) SetRead(ctx context.Context, id string, read bool) (*model.ContactMessage, error) {
	msg, err := s.ContactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "contact message", id)
	}
	if err := s.ContactRepo.SetRead(ctx, id, read); err != nil {
		return nil, err
	}
	msg.IsRead = read
	return msg, nil
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	deleted, err := s.ContactRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return util.NotFoundf("contact message %s", id)
	}
	return nil
}
