// internal/model/user.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleMentor  UserRole = "mentor"
	RoleStudent UserRole = "student"
)

// User はメンター・生徒の基本情報です。
// Identity は外部ID（Telegram ID等）で、初回ログイン時に upsert されます。
// Role はレコード作成後は変更しません（ロール変更APIは存在しない）。
type User struct {
	UserID      uuid.UUID      `gorm:"type:uuid;primaryKey" json:"user_id"`
	Identity    string         `gorm:"uniqueIndex;not null" json:"identity"`
	Role        UserRole       `gorm:"not null;default:student" json:"role"`
	DisplayName *string        `json:"display_name,omitempty"`
	Timezone    string         `gorm:"not null" json:"timezone"` // IANAタイムゾーン名
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

type ContextKey string

const (
	UserIDKey   ContextKey = "userID"
	UserRoleKey ContextKey = "userRole"
)

// ログインAPIのリクエストDTO（外部IDによる upsert ログイン）
type LoginRequest struct {
	Identity    string  `json:"identity" validate:"required,min=1,max=128"`
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=100"`
}

// ログイン成功時のレスポンス
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// UserResponse はクライアントに返すユーザー情報の構造体
type UserResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Identity    string    `json:"identity"`
	Role        UserRole  `json:"role"`
	DisplayName *string   `json:"display_name,omitempty"`
	Timezone    string    `json:"timezone"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		UserID:      u.UserID,
		Identity:    u.Identity,
		Role:        u.Role,
		DisplayName: u.DisplayName,
		Timezone:    u.Timezone,
		CreatedAt:   u.CreatedAt,
	}
}
