// internal/model/streak.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Streak は生徒ごとの連続達成記録です（生徒と1対1、初回評価時に遅延作成）。
// CurrentLen は参考値で、正となる現在値は常に再計算します。
// BestLen は過去最高値で、減ることはありません。
type Streak struct {
	StreakID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"streak_id"`
	StudentID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"student_id"`
	CurrentLen     int       `gorm:"not null;default:0" json:"current_len"`
	BestLen        int       `gorm:"not null;default:0" json:"best_len"`
	LastUpdateDate string    `gorm:"not null" json:"last_update_date"` // YYYY-MM-DD
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Streak) TableName() string {
	return "streaks"
}

// StreakResponse はストリーク照会のレスポンスDTOです
type StreakResponse struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}
