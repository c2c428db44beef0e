//go:generate mockery --name StreakRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_5_read_keep/internal/middleware"
	"go_5_read_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StreakRepository interface {
	Create(ctx context.Context, tx *gorm.DB, streak *model.Streak) error
	FindByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (*model.Streak, error)
	Update(ctx context.Context, tx *gorm.DB, streak *model.Streak) error
}

type gormStreakRepository struct{}

func NewGormStreakRepository() StreakRepository {
	return &gormStreakRepository{}
}

func (r *gormStreakRepository) Create(ctx context.Context, tx *gorm.DB, streak *model.Streak) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(streak)
	if result.Error != nil {
		logger.Error("Error creating streak in DB",
			"error", result.Error,
			"student_id", streak.StudentID.String(),
		)
		return fmt.Errorf("gormStreakRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormStreakRepository) FindByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (*model.Streak, error) {
	logger := middleware.GetLogger(ctx)
	var streak model.Streak
	result := db.WithContext(ctx).Where("student_id = ?", studentID).First(&streak)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding streak by student in DB",
			"error", result.Error,
			"student_id", studentID.String(),
		)
		return nil, fmt.Errorf("gormStreakRepository.FindByStudent: %w", result.Error)
	}
	return &streak, nil
}

func (r *gormStreakRepository) Update(ctx context.Context, tx *gorm.DB, streak *model.Streak) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Save(streak)
	if result.Error != nil {
		logger.Error("Error updating streak in DB",
			"error", result.Error,
			"streak_id", streak.StreakID.String(),
		)
		return fmt.Errorf("gormStreakRepository.Update: %w", result.Error)
	}
	return nil
}
