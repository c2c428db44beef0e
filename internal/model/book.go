// internal/model/book.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book は課題図書を表します。メンターが登録します。
type Book struct {
	BookID      uuid.UUID      `gorm:"type:uuid;primaryKey" json:"book_id"`
	Title       string         `gorm:"not null" json:"title"`
	Author      string         `gorm:"not null" json:"author"`
	Category    string         `gorm:"not null" json:"category"`
	Difficulty  int            `gorm:"not null" json:"difficulty"` // 1〜5
	Description *string        `json:"description,omitempty"`
	CoverURL    *string        `json:"cover_url,omitempty"`
	SourceURL   *string        `json:"source_url,omitempty"`
	CreatedBy   *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"` // 登録したメンター
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Book) TableName() string {
	return "books"
}

// 図書作成リクエストDTO
type PostBookRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Author      string  `json:"author" validate:"required,min=1,max=200"`
	Category    string  `json:"category" validate:"required,min=1,max=100"`
	Difficulty  int     `json:"difficulty" validate:"required,min=1,max=5"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	CoverURL    *string `json:"cover_url,omitempty" validate:"omitempty,url"`
	SourceURL   *string `json:"source_url,omitempty" validate:"omitempty,url"`
}

// 図書更新（全体）リクエストDTO
type PutBookRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Author      string  `json:"author" validate:"required,min=1,max=200"`
	Category    string  `json:"category" validate:"required,min=1,max=100"`
	Difficulty  int     `json:"difficulty" validate:"required,min=1,max=5"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	CoverURL    *string `json:"cover_url,omitempty" validate:"omitempty,url"`
	SourceURL   *string `json:"source_url,omitempty" validate:"omitempty,url"`
}
