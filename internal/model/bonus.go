// internal/model/bonus.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type BonusSource string

const (
	BonusSourceGrade  BonusSource = "grade"
	BonusSourceManual BonusSource = "manual"
	BonusSourceReset  BonusSource = "reset"
)

// BonusTransaction はボーナス台帳の1エントリです。
// 残高 = 生徒のdeltaの合計。台帳は追記専用ですが、
// grade 由来のものだけは課題単位で upsert します（再評価の冪等性のため、
// AssignmentID は設定時一意）。
type BonusTransaction struct {
	TransactionID uuid.UUID   `gorm:"type:uuid;primaryKey" json:"transaction_id"`
	StudentID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"student_id"`
	AssignmentID  *uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"assignment_id,omitempty"`
	Delta         int         `gorm:"not null" json:"delta"`
	Source        BonusSource `gorm:"not null" json:"source"`
	Reason        string      `json:"reason"`
	CreatedAt     time.Time   `json:"created_at"`
}

func (BonusTransaction) TableName() string {
	return "bonus_transactions"
}

// 手動加減算リクエストDTO（メンター用）
type ManualBonusRequest struct {
	Delta        int        `json:"delta" validate:"required"`
	Reason       string     `json:"reason" validate:"required,min=1,max=500"`
	AssignmentID *uuid.UUID `json:"assignment_id,omitempty"`
}

// リセットリクエストDTO
type ResetBonusRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// BonusSummaryResponse は残高と履歴をまとめたレスポンスDTOです
type BonusSummaryResponse struct {
	Balance      int                 `json:"balance"`
	Transactions []*BonusTransaction `json:"transactions"`
}
