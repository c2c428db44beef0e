//go:generate mockery --name BonusRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_5_read_keep/internal/middleware"
	"go_5_read_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BonusRepository interface {
	Create(ctx context.Context, tx *gorm.DB, btx *model.BonusTransaction) error
	FindByAssignmentForUpdate(ctx context.Context, tx *gorm.DB, assignmentID uuid.UUID) (*model.BonusTransaction, error)
	FindByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.BonusTransaction, error)
	SumByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (int, error)
	Update(ctx context.Context, tx *gorm.DB, btx *model.BonusTransaction) error
}

type gormBonusRepository struct{}

func NewGormBonusRepository() BonusRepository {
	return &gormBonusRepository{}
}

// withRowLock は行ロック (SELECT ... FOR UPDATE) を付与します。
// SQLiteはFOR UPDATEを解さないが単一ライターなので、postgres のときだけ付ける。
func withRowLock(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func (r *gormBonusRepository) Create(ctx context.Context, tx *gorm.DB, btx *model.BonusTransaction) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(btx)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			// assignment_id の一意制約違反（同時評価の競合）
			return model.ErrConflict
		}
		logger.Error("Error creating bonus transaction in DB",
			"error", result.Error,
			"student_id", btx.StudentID.String(),
		)
		return fmt.Errorf("gormBonusRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormBonusRepository) FindByAssignmentForUpdate(ctx context.Context, tx *gorm.DB, assignmentID uuid.UUID) (*model.BonusTransaction, error) {
	logger := middleware.GetLogger(ctx)
	var btx model.BonusTransaction
	result := withRowLock(tx.WithContext(ctx)).
		Where("assignment_id = ?", assignmentID).
		First(&btx)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding bonus transaction by assignment in DB",
			"error", result.Error,
			"assignment_id", assignmentID.String(),
		)
		return nil, fmt.Errorf("gormBonusRepository.FindByAssignmentForUpdate: %w", result.Error)
	}
	return &btx, nil
}

func (r *gormBonusRepository) FindByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.BonusTransaction, error) {
	logger := middleware.GetLogger(ctx)
	var txs []*model.BonusTransaction
	result := db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&txs)
	if result.Error != nil {
		logger.Error("Error finding bonus transactions in DB",
			"error", result.Error,
			"student_id", studentID.String(),
		)
		return nil, fmt.Errorf("gormBonusRepository.FindByStudent: %w", result.Error)
	}
	return txs, nil
}

func (r *gormBonusRepository) SumByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (int, error) {
	logger := middleware.GetLogger(ctx)
	// 残高は常に合計で再計算する（キャッシュした残高カラムは持たない）
	var sum *int
	result := db.WithContext(ctx).Model(&model.BonusTransaction{}).
		Where("student_id = ?", studentID).
		Select("SUM(delta)").
		Scan(&sum)
	if result.Error != nil {
		logger.Error("Error summing bonus deltas in DB",
			"error", result.Error,
			"student_id", studentID.String(),
		)
		return 0, fmt.Errorf("gormBonusRepository.SumByStudent: %w", result.Error)
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

func (r *gormBonusRepository) Update(ctx context.Context, tx *gorm.DB, btx *model.BonusTransaction) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Save(btx)
	if result.Error != nil {
		logger.Error("Error updating bonus transaction in DB",
			"error", result.Error,
			"transaction_id", btx.TransactionID.String(),
		)
		return fmt.Errorf("gormBonusRepository.Update: %w", result.Error)
	}
	return nil
}
