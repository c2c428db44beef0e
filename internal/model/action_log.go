// internal/model/action_log.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// ActionLog はUIテレメトリの追記専用イベントです。計算コアからは参照しません。
type ActionLog struct {
	LogID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"log_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Action    string    `gorm:"not null" json:"action"`
	Metadata  string    `json:"metadata"` // JSON文字列
	CreatedAt time.Time `json:"created_at"`
}

func (ActionLog) TableName() string {
	return "action_logs"
}

// テレメトリ追記リクエストDTO
type PostActionLogRequest struct {
	Action   string `json:"action" validate:"required,min=1,max=100"`
	Metadata string `json:"metadata" validate:"omitempty,max=4000,json"`
}
