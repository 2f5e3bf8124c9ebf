package repository

import (
	"context"
	"debate_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("google_id = ?", googleID).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Save(user).Error
}

type AdminUserRepository struct {
	DB *gorm.DB
}

func NewAdminUserRepository(db *gorm.DB) *AdminUserRepository {
	return &AdminUserRepository{DB: db}
}

func (r *AdminUserRepository) FindByID(ctx context.Context, id string) (*model.AdminUser, error) {
	var admin model.AdminUser
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&admin).Error
	return &admin, err
}

func (r *AdminUserRepository) FindByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	var admin model.AdminUser
	err := r.DB.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	return &admin, err
}

// ExistsByUsernameOrEmail 引导管理员时判断是否已存在
func (r *AdminUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.AdminUser{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (r *AdminUserRepository) Create(ctx context.Context, admin *model.AdminUser) error {
	return r.DB.WithContext(ctx).Create(admin).Error
}

func (r *AdminUserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.DB.WithContext(ctx).Model(&model.AdminUser{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

func (r *AdminUserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&model.AdminUser{}).
		Where("id = ?", id).
		UpdateColumn("last_login", at).Error
}
