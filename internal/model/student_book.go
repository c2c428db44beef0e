// internal/model/student_book.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type StudentBookStatus string

const (
	StudentBookActive   StudentBookStatus = "active"
	StudentBookFinished StudentBookStatus = "finished"
	StudentBookPaused   StudentBookStatus = "paused"
)

type ProgressMode string

const (
	ProgressPercent ProgressMode = "percent"
	ProgressPage    ProgressMode = "page"
)

// StudentBook は「生徒への図書の割り当て」を表します。
// 1人の生徒に active なものは同時に1件まで（アプリケーションロジックで担保。
// 新規割り当て時に既存の active は finished に倒します）。
type StudentBook struct {
	StudentBookID uuid.UUID         `gorm:"type:uuid;primaryKey" json:"student_book_id"`
	StudentID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"student_id"`
	BookID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"book_id"`
	Status        StudentBookStatus `gorm:"not null;default:active" json:"status"`
	StartDate     string            `gorm:"not null" json:"start_date"` // YYYY-MM-DD
	EndDate       *string           `json:"end_date,omitempty"`         // YYYY-MM-DD
	ProgressMode  ProgressMode      `gorm:"not null" json:"progress_mode"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	// 関連 (Preload用)
	Book *Book `gorm:"foreignKey:BookID;references:BookID" json:"book,omitempty"`
}

func (StudentBook) TableName() string {
	return "student_books"
}

// 図書割り当てリクエストDTO
type AssignBookRequest struct {
	StudentID    uuid.UUID    `json:"student_id" validate:"required"`
	BookID       uuid.UUID    `json:"book_id" validate:"required"`
	ProgressMode ProgressMode `json:"progress_mode" validate:"required,oneof=percent page"`
	StartDate    string       `json:"start_date" validate:"required,datetime=2006-01-02"`
}
