// internal/service/bonus_service_test.go
package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go_5_read_keep/internal/clock"
	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBBonus(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.BonusTransaction{}, &model.Goal{}))
	return db
}

func newBonusServiceForTest(db *gorm.DB, now time.Time) BonusService {
	return NewBonusService(
		db,
		repository.NewGormBonusRepository(),
		repository.NewGormGoalRepository(),
		clock.Fixed(now),
	)
}

func balanceOf(t *testing.T, db *gorm.DB, studentID uuid.UUID) int {
	t.Helper()
	var sum *int
	require.NoError(t, db.Model(&model.BonusTransaction{}).
		Where("student_id = ?", studentID).
		Select("SUM(delta)").Scan(&sum).Error)
	if sum == nil {
		return 0
	}
	return *sum
}

func TestBonusService_ApplyGradeBonus_評価とdeltaの対応(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		rating    int
		wantDelta int
	}{
		{name: "正常系: 評価5は+2", rating: 5, wantDelta: 2},
		{name: "正常系: 評価4は+1", rating: 4, wantDelta: 1},
		{name: "正常系: 評価3は-1", rating: 3, wantDelta: -1},
		{name: "正常系: 評価2は-2", rating: 2, wantDelta: -2},
		{name: "正常系: 評価1は-3", rating: 1, wantDelta: -3},
		{name: "正常系: 範囲外の評価は0", rating: 0, wantDelta: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDBBonus(t)
			s := newBonusServiceForTest(db, now)
			studentID := uuid.New()
			assignmentID := uuid.New()

			err := s.ApplyGradeBonus(ctx, db, studentID, assignmentID, tt.rating, "テスト")
			require.NoError(t, err)

			var trx model.BonusTransaction
			require.NoError(t, db.Where("assignment_id = ?", assignmentID).First(&trx).Error)
			assert.Equal(t, tt.wantDelta, trx.Delta)
			assert.Equal(t, model.BonusSourceGrade, trx.Source)
		})
	}
}

func TestBonusService_ApplyGradeBonus_再評価は上書き(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	db := setupTestDBBonus(t)
	s := newBonusServiceForTest(db, now)
	studentID := uuid.New()
	assignmentID := uuid.New()

	require.NoError(t, s.ApplyGradeBonus(ctx, db, studentID, assignmentID, 5, "初回"))
	require.NoError(t, s.ApplyGradeBonus(ctx, db, studentID, assignmentID, 2, "再評価"))

	// 取引は1件のまま、deltaとreasonが差し替わる
	var count int64
	require.NoError(t, db.Model(&model.BonusTransaction{}).
		Where("assignment_id = ?", assignmentID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var trx model.BonusTransaction
	require.NoError(t, db.Where("assignment_id = ?", assignmentID).First(&trx).Error)
	assert.Equal(t, -2, trx.Delta)
	assert.Equal(t, "再評価", trx.Reason)
	assert.Equal(t, -2, balanceOf(t, db, studentID))
}

func TestBonusService_目標の自動達成と残高リセット(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	db := setupTestDBBonus(t)
	s := newBonusServiceForTest(db, now)
	studentID := uuid.New()

	goal := &model.Goal{
		GoalID:          uuid.New(),
		StudentID:       studentID,
		Title:           "映画を観に行く",
		Status:          model.GoalPending,
		RequiredBonuses: 5,
	}
	require.NoError(t, db.Create(goal).Error)

	// 残高4では未達成のまま
	require.NoError(t, s.ApplyGradeBonus(ctx, db, studentID, uuid.New(), 5, "1日目")) // +2
	require.NoError(t, s.ApplyGradeBonus(ctx, db, studentID, uuid.New(), 5, "2日目")) // +2
	var g model.Goal
	require.NoError(t, db.First(&g, "goal_id = ?", goal.GoalID).Error)
	assert.Equal(t, model.GoalPending, g.Status)
	assert.Equal(t, 4, balanceOf(t, db, studentID))

	// 6に達すると達成になり、超過分も含めて残高は全額リセットされる
	require.NoError(t, s.ApplyGradeBonus(ctx, db, studentID, uuid.New(), 5, "3日目")) // +2 → 6
	require.NoError(t, db.First(&g, "goal_id = ?", goal.GoalID).Error)
	assert.Equal(t, model.GoalAchieved, g.Status)
	require.NotNil(t, g.AchievedAt)
	assert.Equal(t, 0, balanceOf(t, db, studentID))

	var reset model.BonusTransaction
	require.NoError(t, db.Where("student_id = ? AND source = ?", studentID, model.BonusSourceReset).
		First(&reset).Error)
	assert.Equal(t, -6, reset.Delta)
	assert.Contains(t, reset.Reason, "映画を観に行く")
}

func TestBonusService_ApplyManualBonus_も目標判定を起こす(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	db := setupTestDBBonus(t)
	s := newBonusServiceForTest(db, now)
	studentID := uuid.New()

	goal := &model.Goal{
		GoalID:          uuid.New(),
		StudentID:       studentID,
		Title:           "ゲームを1時間",
		Status:          model.GoalPending,
		RequiredBonuses: 3,
	}
	require.NoError(t, db.Create(goal).Error)

	trx, err := s.ApplyManualBonus(ctx, studentID, &model.ManualBonusRequest{
		Delta:  3,
		Reason: "発表会をがんばった",
	})
	require.NoError(t, err)
	assert.Equal(t, model.BonusSourceManual, trx.Source)

	var g model.Goal
	require.NoError(t, db.First(&g, "goal_id = ?", goal.GoalID).Error)
	assert.Equal(t, model.GoalAchieved, g.Status)
	assert.Equal(t, 0, balanceOf(t, db, studentID))
}

func TestBonusService_ApplyManualBonus_課題単位のボーナスは重複不可(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	db := setupTestDBBonus(t)
	s := newBonusServiceForTest(db, now)
	studentID := uuid.New()
	assignmentID := uuid.New()

	require.NoError(t, s.ApplyGradeBonus(ctx, db, studentID, assignmentID, 5, "課題の評価"))

	// 評価ボーナス済みの課題への手動付与は一意制約に当たり ErrConflict になる
	_, err := s.ApplyManualBonus(ctx, studentID, &model.ManualBonusRequest{
		Delta:        1,
		Reason:       "追加ボーナス",
		AssignmentID: &assignmentID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConflict)

	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DUPLICATE_BONUS", appErr.Detail.Code)
}

func TestBonusService_ResetToZero(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("正常系: 残高がゼロなら何も作られない", func(t *testing.T) {
		db := setupTestDBBonus(t)
		s := newBonusServiceForTest(db, now)

		trx, err := s.ResetToZero(ctx, uuid.New(), "リセット")
		require.NoError(t, err)
		assert.Nil(t, trx)
	})

	t.Run("正常系: 残高をちょうど打ち消す取引が作られる", func(t *testing.T) {
		db := setupTestDBBonus(t)
		s := newBonusServiceForTest(db, now)
		studentID := uuid.New()

		require.NoError(t, s.ApplyGradeBonus(ctx, db, studentID, uuid.New(), 5, "課題"))
		require.NoError(t, s.ApplyGradeBonus(ctx, db, studentID, uuid.New(), 4, "課題"))

		trx, err := s.ResetToZero(ctx, studentID, "学期末リセット")
		require.NoError(t, err)
		require.NotNil(t, trx)
		assert.Equal(t, -3, trx.Delta)
		assert.Equal(t, model.BonusSourceReset, trx.Source)
		assert.Equal(t, 0, balanceOf(t, db, studentID))
	})
}
