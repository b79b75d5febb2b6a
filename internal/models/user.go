package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`              // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"` // 邮箱
	PasswordHash string         `gorm:"not null" json:"-"`                 // 密码哈希（不返回给前端）
	FirstName    string         `gorm:"default:''" json:"first_name"`      // 名
	LastName     string         `gorm:"default:''" json:"last_name"`       // 姓
	Address      string         `gorm:"default:''" json:"address"`         // 地址
	PhoneNumber  string         `gorm:"default:''" json:"phone_number"`    // 电话
	IsStaff      bool           `gorm:"default:false" json:"is_staff"`     // 是否后台管理员
	IsActive     bool           `json:"is_active"`                         // 是否启用（无 default 标签，带 default 的 bool 零值不会写库，创建时显式赋值）
	LastLoginAt  *time.Time     `json:"last_login_at"`                     // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`           // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`           // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                    // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// FullName 返回拼接后的姓名
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
