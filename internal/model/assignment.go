// internal/model/assignment.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentSubmitted AssignmentStatus = "submitted"
	AssignmentMissed    AssignmentStatus = "missed"
	AssignmentGraded    AssignmentStatus = "graded"
)

// TargetKind は課題の目標の種別です。
// 「どのフィールドがnon-nullかで判別する」のではなく、種別カラムで明示します。
type TargetKind string

const (
	TargetPercent TargetKind = "percent"
	TargetPage    TargetKind = "page"
	TargetChapter TargetKind = "chapter"
)

// Assignment は1日分の読書課題を表します。
// Date は生徒のタイムゾーンで解釈される暦日 (YYYY-MM-DD) で、
// (student_book_id, date) は一意です。
// missed は読み取り時にも導出されます（バックグラウンドジョブでの遷移はしない）。
type Assignment struct {
	AssignmentID  uuid.UUID        `gorm:"type:uuid;primaryKey" json:"assignment_id"`
	StudentBookID uuid.UUID        `gorm:"type:uuid;not null;index:idx_sbook_date,unique" json:"student_book_id"`
	Date          string           `gorm:"not null;index:idx_sbook_date,unique" json:"date"`  // YYYY-MM-DD
	DeadlineTime  string           `gorm:"not null" json:"deadline_time"`                     // HH:mm
	TargetKind    TargetKind       `gorm:"not null" json:"target_kind"`
	TargetValue   int              `gorm:"not null;default:0" json:"target_value"`            // percent/page のときの数値目標
	TargetChapter *string          `json:"target_chapter,omitempty"`                          // chapter のときの章ラベル
	LastParagraph *string          `json:"last_paragraph,omitempty"`                          // chapter のときの最終段落
	Status        AssignmentStatus `gorm:"not null;default:pending" json:"status"`
	SubmittedAt   *time.Time       `json:"submitted_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	// 関連 (Preload用)
	Recap *Recap `gorm:"foreignKey:AssignmentID;references:AssignmentID" json:"recap,omitempty"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// 単発の課題作成リクエストDTO
type PostAssignmentRequest struct {
	Date          string     `json:"date" validate:"required,datetime=2006-01-02"`
	DeadlineTime  string     `json:"deadline_time" validate:"required,datetime=15:04"`
	TargetKind    TargetKind `json:"target_kind" validate:"required,oneof=percent page chapter"`
	TargetValue   int        `json:"target_value" validate:"omitempty,min=1"`
	TargetChapter *string    `json:"target_chapter,omitempty" validate:"omitempty,max=200"`
	LastParagraph *string    `json:"last_paragraph,omitempty" validate:"omitempty,max=500"`
}

// 課題編集リクエストDTO（pending/submitted の間だけ可）
type PatchAssignmentRequest struct {
	DeadlineTime  *string `json:"deadline_time,omitempty" validate:"omitempty,datetime=15:04"`
	TargetValue   *int    `json:"target_value,omitempty" validate:"omitempty,min=1"`
	TargetChapter *string `json:"target_chapter,omitempty" validate:"omitempty,max=200"`
	LastParagraph *string `json:"last_paragraph,omitempty" validate:"omitempty,max=500"`
}

// 評価リクエストDTO
type GradeAssignmentRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// プラン一括生成リクエストDTO
type GeneratePlanRequest struct {
	Mode         ProgressMode `json:"mode" validate:"required,oneof=percent page"`
	DailyTarget  int          `json:"daily_target" validate:"required,min=1"`
	DeadlineTime string       `json:"deadline_time" validate:"required,datetime=15:04"`
	StartDate    string       `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string       `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// PlanResult はプラン生成の結果集計です
type PlanResult struct {
	Created         int `json:"created"`
	SkippedExisting int `json:"skipped_existing"`
}

// AssignmentResponse は表示用ステータスを解決した課題のレスポンスDTOです
type AssignmentResponse struct {
	Assignment
	VisualStatus AssignmentStatus `json:"visual_status"`
}
