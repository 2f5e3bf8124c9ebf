package service

import (
	"context"
	"debate_backend/internal/config"
	"debate_backend/internal/model"
	"debate_backend/internal/repository"
	"debate_backend/internal/util"
	"debate_backend/pkg/logger"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultBcryptCost 管理员密码哈希强度
const DefaultBcryptCost = 12

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthService 管理员用户名密码登录
type AuthService struct {
	AdminRepo  *repository.AdminUserRepository
	Cfg        *config.Config
	BcryptCost int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(adminRepo *repository.AdminUserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		AdminRepo:  adminRepo,
		Cfg:        cfg,
		BcryptCost: DefaultBcryptCost,
	}
}

// EnsureAdmin 启动时按配置创建管理员，已存在同名或同邮箱账号时跳过
func (s *AuthService) EnsureAdmin(ctx context.Context) error {
	admin := s.Cfg.Admin
	if admin.Username == "" || admin.Password == "" {
		logger.Log.Warn("Admin bootstrap skipped: username or password not configured")
		return nil
	}

	exists, err := s.AdminRepo.ExistsByUsernameOrEmail(ctx, admin.Username, admin.Email)
	if err != nil {
		return err
	}
	if exists {
		logger.Log.Debug("Admin user already exists", zap.String("username", admin.Username))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), s.BcryptCost)
	if err != nil {
		return err
	}

	user := &model.AdminUser{
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: string(hash),
		FullName:     admin.FullName,
		IsActive:     true,
	}
	if err := s.AdminRepo.Create(ctx, user); err != nil {
		// 多实例同时启动时另一个实例可能已创建
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	logger.Log.Info("Admin user created", zap.String("username", user.Username))
	if s.Cfg.Server.Mode == "release" && admin.Password == "Admin@2026" {
		logger.Log.Warn("Admin user created with the default password, change it immediately")
	}
	return nil
}

// compareDummy 用户不存在时也做一次 bcrypt 比较，使两种失败耗时接近
func (s *AuthService) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("debate-arena-dummy-password"), s.BcryptCost)
	})
	bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
}

// Authenticate 用户不存在、已停用、密码错误都返回同一个 ErrInvalidCredentials
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	admin, err := s.AdminRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		s.compareDummy(password)
		return nil, util.ErrInvalidCredentials
	}
	if !admin.IsActive {
		s.compareDummy(password)
		return nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		logger.Log.Info("Admin login failed", zap.String("username", admin.Username))
		return nil, util.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.AdminRepo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		return nil, err
	}
	admin.LastLogin = &now

	token, err := util.GenerateJWT(util.Principal{
		Subject: admin.Username,
		UserID:  admin.ID,
		Kind:    model.PrincipalAdmin,
		Email:   admin.Email,
	}, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Admin logged in", zap.String("username", admin.Username))
	return &model.LoginResponse{
		Success: true,
		Token:   token,
		User:    model.NewAdminInfo(admin),
	}, nil
}

// Verify 校验令牌签名和有效期
func (s *AuthService) Verify(token string) (*util.Claims, error) {
	return util.ParseJWT(token, s.Cfg.JWT.Secret)
}

// VerifyAdmin 令牌必须是管理员类型且账号仍然有效
func (s *AuthService) VerifyAdmin(ctx context.Context, token string) (*model.AdminUser, error) {
	claims, err := s.Verify(token)
	if err != nil {
		return nil, err
	}
	if !claims.IsAdmin() {
		return nil, util.ErrInvalidToken
	}
	admin, err := s.AdminRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidToken
		}
		return nil, err
	}
	if !admin.IsActive {
		return nil, util.ErrInvalidToken
	}
	return admin, nil
}

// ResetPassword 运维脚本使用，按用户名重置管理员密码
func (s *AuthService) ResetPassword(ctx context.Context, username, newPassword string) error {
	if len(newPassword) < 8 {
		return util.Validationf("password must be at least 8 characters")
	}
	admin, err := s.AdminRepo.FindByUsername(ctx, username)
	if err != nil {
		return notFound(err, "admin user", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.BcryptCost)
	if err != nil {
		return err
	}
	if err := s.AdminRepo.UpdatePassword(ctx, admin.ID, string(hash)); err != nil {
		return err
	}

	logger.Log.Info("Admin password reset", zap.String("username", admin.Username))
	return nil
}
