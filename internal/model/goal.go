// internal/model/goal.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type GoalStatus string

const (
	GoalPending   GoalStatus = "pending"
	GoalAchieved  GoalStatus = "achieved"
	GoalCancelled GoalStatus = "cancelled"
)

// Goal は生徒のごほうび目標です。
// 残高が RequiredBonuses に達すると自動で achieved になり、
// そのとき残高は全額（超過分も含めて）リセットされます。
type Goal struct {
	GoalID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"goal_id"`
	StudentID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"student_id"`
	Title           string     `gorm:"not null" json:"title"`
	RewardText      *string    `json:"reward_text,omitempty"`
	Status          GoalStatus `gorm:"not null;default:pending" json:"status"`
	RequiredBonuses int        `gorm:"not null" json:"required_bonuses"`
	AchievedAt      *time.Time `json:"achieved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Goal) TableName() string {
	return "goals"
}

// 目標作成リクエストDTO
type PostGoalRequest struct {
	Title           string  `json:"title" validate:"required,min=1,max=200"`
	RewardText      *string `json:"reward_text,omitempty" validate:"omitempty,max=500"`
	RequiredBonuses int     `json:"required_bonuses" validate:"required,min=1"`
}
