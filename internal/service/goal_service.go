// internal/service/goal_service.go
package service

import (
	"context"
	"errors"

	"go_5_read_keep/internal/middleware"
	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GoalService interface {
	PostGoal(ctx context.Context, studentID uuid.UUID, req *model.PostGoalRequest) (*model.Goal, error)
	GetGoals(ctx context.Context, studentID uuid.UUID) ([]*model.Goal, error)
	CancelGoal(ctx context.Context, goalID uuid.UUID) (*model.Goal, error)
}

type goalService struct {
	db       *gorm.DB
	goalRepo repository.GoalRepository
}

func NewGoalService(db *gorm.DB, goalRepo repository.GoalRepository) GoalService {
	return &goalService{db: db, goalRepo: goalRepo}
}

func (s *goalService) PostGoal(ctx context.Context, studentID uuid.UUID, req *model.PostGoalRequest) (*model.Goal, error) {
	logger := middleware.GetLogger(ctx)

	goal := &model.Goal{
		GoalID:          uuid.New(),
		StudentID:       studentID,
		Title:           req.Title,
		RewardText:      req.RewardText,
		Status:          model.GoalPending,
		RequiredBonuses: req.RequiredBonuses,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if createErr := s.goalRepo.Create(ctx, tx, goal); createErr != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "目標の作成に失敗しました。", "", createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Goal created", "goal_id", goal.GoalID, "student_id", studentID, "required", goal.RequiredBonuses)
	return goal, nil
}

func (s *goalService) GetGoals(ctx context.Context, studentID uuid.UUID) ([]*model.Goal, error) {
	goals, err := s.goalRepo.FindByStudent(ctx, s.db, studentID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "目標一覧の取得に失敗しました。", "", err)
	}
	return goals, nil
}

func (s *goalService) CancelGoal(ctx context.Context, goalID uuid.UUID) (*model.Goal, error) {
	logger := middleware.GetLogger(ctx)

	var goal *model.Goal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, findErr := s.goalRepo.FindByID(ctx, tx, goalID)
		if findErr != nil {
			if errors.Is(findErr, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "目標が見つかりません。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "目標の取得に失敗しました。", "", findErr)
		}
		if found.Status != model.GoalPending {
			// 達成済み・取消済みの目標は取り消せない
			return model.NewAppError("INVALID_GOAL_STATE", "この目標はすでに確定しています。", "", model.ErrConflict)
		}
		found.Status = model.GoalCancelled
		if updateErr := s.goalRepo.Update(ctx, tx, found); updateErr != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "目標の更新に失敗しました。", "", updateErr)
		}
		goal = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Goal cancelled", "goal_id", goal.GoalID)
	return goal, nil
}
