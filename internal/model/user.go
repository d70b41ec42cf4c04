package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 用户角色
const (
	RoleFarmer = "farmer"
	RoleAdmin  = "admin"
)

// 用户状态
const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey"                        json:"user_id"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email" json:"email"`
	Fullname     string `gorm:"type:varchar(100)"                           json:"fullname"`
	PasswordHash string `gorm:"type:varchar(255);not null"                  json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'farmer'"  json:"role"`
	Status       string `gorm:"type:varchar(20);not null;default:'active'"  json:"status"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// BeforeCreate 生成主键
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	return nil
}

// IsBlocked 是否已被管理员封禁
func (u *User) IsBlocked() bool { return u.Status == UserStatusBlocked }

// AllModels 参与 SQLite AutoMigrate 的模型
func AllModels() []interface{} {
	return []interface{}{
		&User{}, &Crop{}, &SuitabilityRule{}, &Journey{}, &FarmingHistory{},
	}
}
