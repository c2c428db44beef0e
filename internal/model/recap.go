// internal/model/recap.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Recap は課題1件に対するメンターの評価（1対1）です。
type Recap struct {
	RecapID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"recap_id"`
	AssignmentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"assignment_id"`
	MentorRating  *int      `json:"mentor_rating,omitempty"` // 1〜5
	MentorComment *string   `json:"mentor_comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Recap) TableName() string {
	return "recaps"
}
