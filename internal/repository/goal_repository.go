//go:generate mockery --name GoalRepository --output ./mocks --outpkg mocks --case=underscore
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

type GoalRepository interface {
	Create(ctx context.Context, tx *gorm.DB, goal *model.Goal) error
	FindByID(ctx context.Context, db *gorm.DB, goalID uuid.UUID) (*model.Goal, error)
	FindByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.Goal, error)
	FindLatestPendingForUpdate(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*model.Goal, error)
	Update(ctx context.Context, tx *gorm.DB, goal *model.Goal) error
}

type gormGoalRepository struct{}

func NewGormGoalRepository() GoalRepository {
	return &gormGoalRepository{}
}

func (r *gormGoalRepository) Create(ctx context.Context, tx *gorm.DB, goal *model.Goal) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(goal)
	if result.Error != nil {
		logger.Error("Error creating goal in DB",
			"error", result.Error,
			"student_id", goal.StudentID.String(),
		)
		return fmt.Errorf("gormGoalRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormGoalRepository) FindByID(ctx context.Context, db *gorm.DB, goalID uuid.UUID) (*model.Goal, error) {
	logger := middleware.GetLogger(ctx)
	var goal model.Goal
	result := db.WithContext(ctx).Where("goal_id = ?", goalID).First(&goal)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding goal by ID in DB",
			"error", result.Error,
			"goal_id", goalID.String(),
		)
		return nil, fmt.Errorf("gormGoalRepository.FindByID: %w", result.Error)
	}
	return &goal, nil
}

func (r *gormGoalRepository) FindByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.Goal, error) {
	logger := middleware.GetLogger(ctx)
	var goals []*model.Goal
	result := db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&goals)
	if result.Error != nil {
		logger.Error("Error finding goals by student in DB",
			"error", result.Error,
			"student_id", studentID.String(),
		)
		return nil, fmt.Errorf("gormGoalRepository.FindByStudent: %w", result.Error)
	}
	return goals, nil
}

// FindLatestPendingForUpdate は生徒の最新の pending 目標を行ロック付きで取得します。
// 目標の自動達成判定を同一生徒内で直列化するためのロックポイントです。
func (r *gormGoalRepository) FindLatestPendingForUpdate(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*model.Goal, error) {
	logger := middleware.GetLogger(ctx)
	var goal model.Goal
	result := withRowLock(tx.WithContext(ctx)).
		Where("student_id = ? AND status = ?", studentID, model.GoalPending).
		Order("created_at DESC").
		First(&goal)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding pending goal in DB",
			"error", result.Error,
			"student_id", studentID.String(),
		)
		return nil, fmt.Errorf("gormGoalRepository.FindLatestPendingForUpdate: %w", result.Error)
	}
	return &goal, nil
}

func (r *gormGoalRepository) Update(ctx context.Context, tx *gorm.DB, goal *model.Goal) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Save(goal)
	if result.Error != nil {
		logger.Error("Error updating goal in DB",
			"error", result.Error,
			"goal_id", goal.GoalID.String(),
		)
		return fmt.Errorf("gormGoalRepository.Update: %w", result.Error)
	}
	return nil
}
