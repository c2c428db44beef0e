// internal/service/assignment_service_test.go
package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go_5_read_keep/internal/clock"
	"go_5_read_keep/internal/config"
	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBAssignment(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.StudentBook{},
		&model.Assignment{},
		&model.Recap{},
		&model.Streak{},
		&model.BonusTransaction{},
		&model.Goal{},
	))
	return db
}

func newAssignmentServiceForTest(db *gorm.DB, now time.Time) AssignmentService {
	cfg := &config.Config{
		App: config.AppConfig{
			DefaultTimezone:    "Europe/Samara",
			StreakLookbackDays: 90,
			PlanMaxDays:        92,
		},
	}
	studentBookRepo := repository.NewGormStudentBookRepository()
	assignmentRepo := repository.NewGormAssignmentRepository()
	streakRepo := repository.NewGormStreakRepository()
	clk := clock.Fixed(now)

	bonusService := NewBonusService(db, repository.NewGormBonusRepository(), repository.NewGormGoalRepository(), clk)
	streakService := NewStreakService(db, studentBookRepo, assignmentRepo, streakRepo, cfg, clk)

	return NewAssignmentService(
		db,
		assignmentRepo,
		studentBookRepo,
		repository.NewGormRecapRepository(),
		repository.NewGormUserRepository(),
		bonusService,
		streakService,
		&LogNotifier{},
		cfg,
		clk,
	)
}

func createAssignmentFixture(t *testing.T, db *gorm.DB) (studentID, studentBookID uuid.UUID) {
	t.Helper()
	studentID = uuid.New()
	student := &model.User{
		UserID:   studentID,
		Identity: "student-" + studentID.String()[:8],
		Role:     model.RoleStudent,
		Timezone: "Europe/Samara",
	}
	require.NoError(t, db.Create(student).Error)

	sb := &model.StudentBook{
		StudentBookID: uuid.New(),
		StudentID:     studentID,
		BookID:        uuid.New(),
		Status:        model.StudentBookActive,
		StartDate:     "2026-03-01",
		ProgressMode:  model.ProgressPercent,
	}
	require.NoError(t, db.Create(sb).Error)
	return studentID, sb.StudentBookID
}

func TestAssignmentService_GeneratePlan(t *testing.T) {
	ctx := context.Background()
	samara, err := time.LoadLocation("Europe/Samara")
	require.NoError(t, err)
	now := time.Date(2026, 3, 9, 9, 0, 0, 0, samara)

	db := setupTestDBAssignment(t)
	_, sbID := createAssignmentFixture(t, db)
	s := newAssignmentServiceForTest(db, now)

	req := &model.GeneratePlanRequest{
		Mode:         model.ProgressPercent,
		DailyTarget:  5,
		DeadlineTime: "20:00",
		StartDate:    "2026-03-09", // 月
		EndDate:      "2026-03-15", // 日
	}

	// 月〜金の5件が作られ、土日は作られない
	result, err := s.GeneratePlan(ctx, sbID, req)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Created)
	assert.Equal(t, 0, result.SkippedExisting)

	var count int64
	require.NoError(t, db.Model(&model.Assignment{}).
		Where("student_book_id = ?", sbID).Count(&count).Error)
	assert.Equal(t, int64(5), count)

	var weekend int64
	require.NoError(t, db.Model(&model.Assignment{}).
		Where("student_book_id = ? AND date IN ?", sbID, []string{"2026-03-14", "2026-03-15"}).
		Count(&weekend).Error)
	assert.Equal(t, int64(0), weekend)

	// 再実行しても重複は作られない(冪等)
	result, err = s.GeneratePlan(ctx, sbID, req)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 5, result.SkippedExisting)
}

func TestAssignmentService_GeneratePlan_異常系(t *testing.T) {
	ctx := context.Background()
	samara, err := time.LoadLocation("Europe/Samara")
	require.NoError(t, err)
	now := time.Date(2026, 3, 9, 9, 0, 0, 0, samara)

	db := setupTestDBAssignment(t)
	_, sbID := createAssignmentFixture(t, db)
	s := newAssignmentServiceForTest(db, now)

	t.Run("異常系: 終了日が開始日より前", func(t *testing.T) {
		_, err := s.GeneratePlan(ctx, sbID, &model.GeneratePlanRequest{
			Mode:         model.ProgressPercent,
			DailyTarget:  5,
			DeadlineTime: "20:00",
			StartDate:    "2026-03-10",
			EndDate:      "2026-03-09",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("異常系: 期間が上限を超える", func(t *testing.T) {
		_, err := s.GeneratePlan(ctx, sbID, &model.GeneratePlanRequest{
			Mode:         model.ProgressPercent,
			DailyTarget:  5,
			DeadlineTime: "20:00",
			StartDate:    "2026-03-09",
			EndDate:      "2026-07-01",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("異常系: 存在しない割り当て", func(t *testing.T) {
		_, err := s.GeneratePlan(ctx, uuid.New(), &model.GeneratePlanRequest{
			Mode:         model.ProgressPercent,
			DailyTarget:  5,
			DeadlineTime: "20:00",
			StartDate:    "2026-03-09",
			EndDate:      "2026-03-13",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestAssignmentService_SubmitAssignment(t *testing.T) {
	ctx := context.Background()
	samara, err := time.LoadLocation("Europe/Samara")
	require.NoError(t, err)

	db := setupTestDBAssignment(t)
	studentID, sbID := createAssignmentFixture(t, db)

	assignment := &model.Assignment{
		AssignmentID:  uuid.New(),
		StudentBookID: sbID,
		Date:          "2026-03-10",
		DeadlineTime:  "20:00",
		TargetKind:    model.TargetPercent,
		TargetValue:   5,
		Status:        model.AssignmentPending,
	}
	require.NoError(t, db.Create(assignment).Error)

	t.Run("異常系: 他人の課題は提出できない", func(t *testing.T) {
		other := &model.User{UserID: uuid.New(), Identity: "other", Role: model.RoleStudent, Timezone: "Europe/Samara"}
		require.NoError(t, db.Create(other).Error)

		s := newAssignmentServiceForTest(db, time.Date(2026, 3, 10, 12, 0, 0, 0, samara))
		_, err := s.SubmitAssignment(ctx, assignment.AssignmentID, other.UserID)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("異常系: 締切超過後は提出できない", func(t *testing.T) {
		s := newAssignmentServiceForTest(db, time.Date(2026, 3, 10, 20, 0, 1, 0, samara))
		_, err := s.SubmitAssignment(ctx, assignment.AssignmentID, studentID)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("正常系: 締切前の提出", func(t *testing.T) {
		s := newAssignmentServiceForTest(db, time.Date(2026, 3, 10, 12, 0, 0, 0, samara))
		got, err := s.SubmitAssignment(ctx, assignment.AssignmentID, studentID)
		require.NoError(t, err)
		assert.Equal(t, model.AssignmentSubmitted, got.Status)
		require.NotNil(t, got.SubmittedAt)
	})

	t.Run("異常系: 提出済みの課題は再提出できない", func(t *testing.T) {
		s := newAssignmentServiceForTest(db, time.Date(2026, 3, 10, 13, 0, 0, 0, samara))
		_, err := s.SubmitAssignment(ctx, assignment.AssignmentID, studentID)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrConflict)
	})
}

func TestAssignmentService_GradeAssignment(t *testing.T) {
	ctx := context.Background()
	samara, err := time.LoadLocation("Europe/Samara")
	require.NoError(t, err)
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, samara)

	db := setupTestDBAssignment(t)
	studentID, sbID := createAssignmentFixture(t, db)
	s := newAssignmentServiceForTest(db, now)

	submittedAt := now.Add(-time.Hour)
	assignment := &model.Assignment{
		AssignmentID:  uuid.New(),
		StudentBookID: sbID,
		Date:          "2026-03-10",
		DeadlineTime:  "20:00",
		TargetKind:    model.TargetPercent,
		TargetValue:   5,
		Status:        model.AssignmentSubmitted,
		SubmittedAt:   &submittedAt,
	}
	require.NoError(t, db.Create(assignment).Error)

	comment := "よく読めています"
	got, err := s.GradeAssignment(ctx, assignment.AssignmentID, &model.GradeAssignmentRequest{
		Rating:  5,
		Comment: &comment,
	})
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentGraded, got.Status)
	require.NotNil(t, got.Recap)
	require.NotNil(t, got.Recap.MentorRating)
	assert.Equal(t, 5, *got.Recap.MentorRating)

	// ボーナス台帳に +2 が記録される
	var trx model.BonusTransaction
	require.NoError(t, db.Where("assignment_id = ?", assignment.AssignmentID).First(&trx).Error)
	assert.Equal(t, 2, trx.Delta)
	assert.Equal(t, studentID, trx.StudentID)

	// コミット後にストリークのベスト値が更新される
	var streak model.Streak
	require.NoError(t, db.Where("student_id = ?", studentID).First(&streak).Error)
	assert.Equal(t, 1, streak.CurrentLen)
	assert.Equal(t, 1, streak.BestLen)

	// 再評価でrecapとボーナスが上書きされる
	_, err = s.GradeAssignment(ctx, assignment.AssignmentID, &model.GradeAssignmentRequest{Rating: 3})
	require.NoError(t, err)
	var recapCount int64
	require.NoError(t, db.Model(&model.Recap{}).
		Where("assignment_id = ?", assignment.AssignmentID).Count(&recapCount).Error)
	assert.Equal(t, int64(1), recapCount)
	require.NoError(t, db.Where("assignment_id = ?", assignment.AssignmentID).First(&trx).Error)
	assert.Equal(t, -1, trx.Delta)
}

func TestAssignmentService_GradeAssignment_missedは評価不可(t *testing.T) {
	ctx := context.Background()
	samara, err := time.LoadLocation("Europe/Samara")
	require.NoError(t, err)
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, samara)

	db := setupTestDBAssignment(t)
	_, sbID := createAssignmentFixture(t, db)
	s := newAssignmentServiceForTest(db, now)

	assignment := &model.Assignment{
		AssignmentID:  uuid.New(),
		StudentBookID: sbID,
		Date:          "2026-03-09",
		DeadlineTime:  "20:00",
		TargetKind:    model.TargetPercent,
		TargetValue:   5,
		Status:        model.AssignmentMissed,
	}
	require.NoError(t, db.Create(assignment).Error)

	_, err = s.GradeAssignment(ctx, assignment.AssignmentID, &model.GradeAssignmentRequest{Rating: 4})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestAssignmentService_PostAssignment(t *testing.T) {
	ctx := context.Background()
	samara, err := time.LoadLocation("Europe/Samara")
	require.NoError(t, err)
	now := time.Date(2026, 3, 9, 9, 0, 0, 0, samara)

	db := setupTestDBAssignment(t)
	_, sbID := createAssignmentFixture(t, db)
	s := newAssignmentServiceForTest(db, now)

	t.Run("正常系: percent目標の課題を作成", func(t *testing.T) {
		got, err := s.PostAssignment(ctx, sbID, &model.PostAssignmentRequest{
			Date:         "2026-03-11",
			DeadlineTime: "20:00",
			TargetKind:   model.TargetPercent,
			TargetValue:  5,
		})
		require.NoError(t, err)
		assert.Equal(t, model.AssignmentPending, got.Status)
	})

	t.Run("正常系: chapter目標は章ラベル必須", func(t *testing.T) {
		chapter := "第3章"
		got, err := s.PostAssignment(ctx, sbID, &model.PostAssignmentRequest{
			Date:          "2026-03-12",
			DeadlineTime:  "20:00",
			TargetKind:    model.TargetChapter,
			TargetChapter: &chapter,
		})
		require.NoError(t, err)
		require.NotNil(t, got.TargetChapter)
		assert.Equal(t, "第3章", *got.TargetChapter)
	})

	t.Run("異常系: chapter目標で章ラベルなし", func(t *testing.T) {
		_, err := s.PostAssignment(ctx, sbID, &model.PostAssignmentRequest{
			Date:         "2026-03-13",
			DeadlineTime: "20:00",
			TargetKind:   model.TargetChapter,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("異常系: 同一日付の課題は重複エラー", func(t *testing.T) {
		// (student_book_id, date) の一意制約違反が ErrConflict として返ること
		_, err := s.PostAssignment(ctx, sbID, &model.PostAssignmentRequest{
			Date:         "2026-03-11",
			DeadlineTime: "21:00",
			TargetKind:   model.TargetPercent,
			TargetValue:  3,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrConflict)

		var appErr *model.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "DUPLICATE_ASSIGNMENT", appErr.Detail.Code)
	})
}

func TestAssignmentService_PatchAssignment(t *testing.T) {
	ctx := context.Background()
	samara, err := time.LoadLocation("Europe/Samara")
	require.NoError(t, err)
	now := time.Date(2026, 3, 9, 9, 0, 0, 0, samara)

	db := setupTestDBAssignment(t)
	_, sbID := createAssignmentFixture(t, db)
	s := newAssignmentServiceForTest(db, now)

	pending := &model.Assignment{
		AssignmentID:  uuid.New(),
		StudentBookID: sbID,
		Date:          "2026-03-11",
		DeadlineTime:  "20:00",
		TargetKind:    model.TargetPercent,
		TargetValue:   5,
		Status:        model.AssignmentPending,
	}
	graded := &model.Assignment{
		AssignmentID:  uuid.New(),
		StudentBookID: sbID,
		Date:          "2026-03-12",
		DeadlineTime:  "20:00",
		TargetKind:    model.TargetPercent,
		TargetValue:   5,
		Status:        model.AssignmentGraded,
	}
	require.NoError(t, db.Create(pending).Error)
	require.NoError(t, db.Create(graded).Error)

	t.Run("正常系: pendingの目標と締切を変更", func(t *testing.T) {
		newDeadline := "21:30"
		newTarget := 10
		got, err := s.PatchAssignment(ctx, pending.AssignmentID, &model.PatchAssignmentRequest{
			DeadlineTime: &newDeadline,
			TargetValue:  &newTarget,
		})
		require.NoError(t, err)
		assert.Equal(t, "21:30", got.DeadlineTime)
		assert.Equal(t, 10, got.TargetValue)
	})

	t.Run("異常系: gradedは編集できない", func(t *testing.T) {
		newTarget := 10
		_, err := s.PatchAssignment(ctx, graded.AssignmentID, &model.PatchAssignmentRequest{
			TargetValue: &newTarget,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrConflict)
	})
}
