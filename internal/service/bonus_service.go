// internal/service/bonus_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"go_5_read_keep/internal/clock"
	"go_5_read_keep/internal/middleware"
	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ratingDeltaTable は評価 (1-5) からボーナス増減への固定テーブルです。
// 範囲外の評価は 0 として扱います。
var ratingDeltaTable = map[int]int{
	5: 2,
	4: 1,
	3: -1,
	2: -2,
	1: -3,
}

type BonusService interface {
	// ApplyGradeBonus は採点トランザクションの中から呼ばれます。
	// 同じ課題への再採点では既存行を上書きします(冪等)。
	ApplyGradeBonus(ctx context.Context, tx *gorm.DB, studentID, assignmentID uuid.UUID, rating int, reason string) error
	ApplyManualBonus(ctx context.Context, studentID uuid.UUID, req *model.ManualBonusRequest) (*model.BonusTransaction, error)
	ResetToZero(ctx context.Context, studentID uuid.UUID, reason string) (*model.BonusTransaction, error)
	GetSummary(ctx context.Context, studentID uuid.UUID) (*model.BonusSummaryResponse, error)
}

type bonusService struct {
	db        *gorm.DB
	bonusRepo repository.BonusRepository
	goalRepo  repository.GoalRepository
	clock     clock.Clock
}

func NewBonusService(db *gorm.DB, bonusRepo repository.BonusRepository, goalRepo repository.GoalRepository, clk clock.Clock) BonusService {
	return &bonusService{
		db:        db,
		bonusRepo: bonusRepo,
		goalRepo:  goalRepo,
		clock:     clk,
	}
}

func (s *bonusService) ApplyGradeBonus(ctx context.Context, tx *gorm.DB, studentID, assignmentID uuid.UUID, rating int, reason string) error {
	delta := ratingDeltaTable[rating]

	existing, err := s.bonusRepo.FindByAssignmentForUpdate(ctx, tx, assignmentID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("bonusService.ApplyGradeBonus: %w", err)
	}

	if err == nil {
		existing.Delta = delta
		existing.Reason = reason
		if updateErr := s.bonusRepo.Update(ctx, tx, existing); updateErr != nil {
			return fmt.Errorf("bonusService.ApplyGradeBonus: %w", updateErr)
		}
	} else {
		trx := &model.BonusTransaction{
			TransactionID: uuid.New(),
			StudentID:     studentID,
			AssignmentID:  &assignmentID,
			Delta:         delta,
			Source:        model.BonusSourceGrade,
			Reason:        reason,
		}
		if createErr := s.bonusRepo.Create(ctx, tx, trx); createErr != nil {
			return fmt.Errorf("bonusService.ApplyGradeBonus: %w", createErr)
		}
	}

	return s.settle(ctx, tx, studentID)
}

func (s *bonusService) ApplyManualBonus(ctx context.Context, studentID uuid.UUID, req *model.ManualBonusRequest) (*model.BonusTransaction, error) {
	logger := middleware.GetLogger(ctx)

	trx := &model.BonusTransaction{
		TransactionID: uuid.New(),
		StudentID:     studentID,
		AssignmentID:  req.AssignmentID,
		Delta:         req.Delta,
		Source:        model.BonusSourceManual,
		Reason:        req.Reason,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if createErr := s.bonusRepo.Create(ctx, tx, trx); createErr != nil {
			if errors.Is(createErr, model.ErrConflict) {
				return model.NewAppError("DUPLICATE_BONUS", "この課題にはすでにボーナスが記録されています。", "assignment_id", model.ErrConflict)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "ボーナスの記録に失敗しました。", "", createErr)
		}
		return s.settle(ctx, tx, studentID)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Manual bonus applied", "student_id", studentID, "delta", trx.Delta)
	return trx, nil
}

func (s *bonusService) ResetToZero(ctx context.Context, studentID uuid.UUID, reason string) (*model.BonusTransaction, error) {
	var trx *model.BonusTransaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, resetErr := s.resetToZero(ctx, tx, studentID, reason)
		if resetErr != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "ボーナスのリセットに失敗しました。", "", resetErr)
		}
		trx = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trx, nil
}

// resetToZero は残高が 0 なら何もせず nil を返します。
func (s *bonusService) resetToZero(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, reason string) (*model.BonusTransaction, error) {
	balance, err := s.bonusRepo.SumByStudent(ctx, tx, studentID)
	if err != nil {
		return nil, fmt.Errorf("bonusService.resetToZero: %w", err)
	}
	if balance == 0 {
		return nil, nil
	}
	trx := &model.BonusTransaction{
		TransactionID: uuid.New(),
		StudentID:     studentID,
		Delta:         -balance,
		Source:        model.BonusSourceReset,
		Reason:        reason,
	}
	if err := s.bonusRepo.Create(ctx, tx, trx); err != nil {
		return nil, fmt.Errorf("bonusService.resetToZero: %w", err)
	}
	return trx, nil
}

// settle はボーナス残高の変動後に呼ばれる目標達成チェックです。
// 残高が目標値に達していれば目標を achieved にし、残高全額をリセットします。
// 呼び出し元のトランザクション内で実行すること。
func (s *bonusService) settle(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	goal, err := s.goalRepo.FindLatestPendingForUpdate(ctx, tx, studentID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("bonusService.settle: %w", err)
	}
	if goal.RequiredBonuses <= 0 {
		return nil
	}

	balance, err := s.bonusRepo.SumByStudent(ctx, tx, studentID)
	if err != nil {
		return fmt.Errorf("bonusService.settle: %w", err)
	}
	if balance < goal.RequiredBonuses {
		return nil
	}

	now := s.clock.Now()
	goal.Status = model.GoalAchieved
	goal.AchievedAt = &now
	if err := s.goalRepo.Update(ctx, tx, goal); err != nil {
		return fmt.Errorf("bonusService.settle: %w", err)
	}

	// 達成時は余剰分も含めて残高を全額消費する
	reason := fmt.Sprintf("目標「%s」達成により残高をリセット", goal.Title)
	if _, err := s.resetToZero(ctx, tx, studentID, reason); err != nil {
		return fmt.Errorf("bonusService.settle: %w", err)
	}

	logger.Info("Goal achieved and balance settled", "student_id", studentID, "goal_id", goal.GoalID, "balance", balance)
	return nil
}

func (s *bonusService) GetSummary(ctx context.Context, studentID uuid.UUID) (*model.BonusSummaryResponse, error) {
	balance, err := s.bonusRepo.SumByStudent(ctx, s.db, studentID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "ボーナス残高の取得に失敗しました。", "", err)
	}
	transactions, err := s.bonusRepo.FindByStudent(ctx, s.db, studentID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "ボーナス履歴の取得に失敗しました。", "", err)
	}
	return &model.BonusSummaryResponse{Balance: balance, Transactions: transactions}, nil
}
