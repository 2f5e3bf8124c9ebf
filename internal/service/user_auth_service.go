package service

import (
	"context"
	"debate_backend/internal/config"
	"debate_backend/internal/model"
	"debate_backend/internal/repository"
	"debate_backend/internal/util"
	"debate_backend/pkg/logger"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GoogleLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// UserAuthService 终端用户通过 Google ID token 登录
type UserAuthService struct {
	UserRepo *repository.UserRepository
	Verifier IdentityVerifier
	Cfg      *config.Config
}

func NewUserAuthService(userRepo *repository.UserRepository, verifier IdentityVerifier, cfg *config.Config) *UserAuthService {
	return &UserAuthService{UserRepo: userRepo, Verifier: verifier, Cfg: cfg}
}

func (s *UserAuthService) AuthenticateWithGoogle(ctx context.Context, idToken string) (*model.UserLoginResponse, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, util.Validationf("token is required")
	}

	ident, err := s.Verifier.Verify(ctx, idToken)
	if err != nil {
		logger.Log.Warn("Invalid Google token", zap.Error(err))
		return nil, fmt.Errorf("%w: invalid Google token", util.ErrUnauthorized)
	}

	user, err := s.findOrCreate(ctx, ident)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account disabled", util.ErrUnauthorized)
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	token, err := util.GenerateJWT(util.Principal{
		Subject: user.Email,
		UserID:  user.ID,
		Kind:    model.PrincipalUser,
		Email:   user.Email,
	}, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("User logged in with Google", zap.String("userId", user.ID))
	return &model.UserLoginResponse{
		Success: true,
		Token:   token,
		User:    model.NewUserInfo(user),
	}, nil
}

// findOrCreate 按 googleId 查找；已存在时同步变化的邮箱、姓名、头像
func (s *UserAuthService) findOrCreate(ctx context.Context, ident *ExternalIdentity) (*model.User, error) {
	user, err := s.UserRepo.FindByGoogleID(ctx, ident.Subject)
	if err == nil {
		if ident.Email != user.Email {
			user.Email = ident.Email
		}
		if ident.Name != user.Name {
			user.Name = ident.Name
		}
		if ident.Picture != "" && ident.Picture != user.ProfilePicture {
			user.ProfilePicture = ident.Picture
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = &model.User{
		GoogleID:       ident.Subject,
		Email:          ident.Email,
		Name:           ident.Name,
		ProfilePicture: ident.Picture,
		IsActive:       true,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, conflictOnDuplicate(err, "email %s is already linked to another account", ident.Email)
	}
	logger.Log.Info("New user registered", zap.String("userId", user.ID))
	return user, nil
}

// CurrentUser 只接受终端用户令牌
func (s *UserAuthService) CurrentUser(ctx context.Context, claims *util.Claims) (*model.User, error) {
	if claims == nil || claims.Kind != model.PrincipalUser {
		return nil, util.ErrInvalidToken
	}
	user, err := s.UserRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, util.ErrInvalidToken
	}
	return user, nil
}

func (s *UserAuthService) ValidateToken(ctx context.Context, token string) (*model.User, error) {
	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}
	return s.CurrentUser(ctx, claims)
}
