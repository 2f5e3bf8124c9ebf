package model

import "time"

// PrincipalKind 令牌中的主体类型
type PrincipalKind string

const (
	PrincipalAdmin PrincipalKind = "admin"
	PrincipalUser  PrincipalKind = "user"
)

// swagger:model
type AdminUser struct {
	UUIDBase
	Username     string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string     `gorm:"type:varchar(100)" json:"fullName"`
	IsActive     bool       `gorm:"not null" json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}

// User Google 账号登录的终端用户
// swagger:model
type User struct {
	UUIDBase
	Email          string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name           string     `gorm:"type:varchar(255)" json:"name"`
	GoogleID       string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	ProfilePicture string     `gorm:"type:varchar(1000)" json:"profilePicture"`
	IsActive       bool       `gorm:"not null" json:"isActive"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
}

func (User) TableName() string {
	return "users"
}
