//go:generate mockery --name ActionLogRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"

	"go_5_read_keep/internal/middleware"
	"go_5_read_keep/internal/model"

	"gorm.io/gorm"
)

type ActionLogRepository interface {
	Create(ctx context.Context, db *gorm.DB, entry *model.ActionLog) error
}

type gormActionLogRepository struct{}

func NewGormActionLogRepository() ActionLogRepository {
	return &gormActionLogRepository{}
}

func (r *gormActionLogRepository) Create(ctx context.Context, db *gorm.DB, entry *model.ActionLog) error {
	logger := middleware.GetLogger(ctx)
	result := db.WithContext(ctx).Create(entry)
	if result.Error != nil {
		logger.Error("Error creating action log in DB",
			"error", result.Error,
			"user_id", entry.UserID.String(),
			"action", entry.Action,
		)
		return fmt.Errorf("gormActionLogRepository.Create: %w", result.Error)
	}
	return nil
}
