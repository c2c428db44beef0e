// internal/service/student_book_service_test.go
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

func setupTestDBStudentBook(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Book{}, &model.StudentBook{}))
	return db
}

func newStudentBookServiceForTest(db *gorm.DB, now time.Time) StudentBookService {
	return NewStudentBookService(
		db,
		repository.NewGormStudentBookRepository(),
		repository.NewGormBookRepository(),
		repository.NewGormUserRepository(),
		clock.Fixed(now),
	)
}

func createStudentAndBook(t *testing.T, db *gorm.DB) (studentID, bookID uuid.UUID) {
	t.Helper()
	student := &model.User{
		UserID:   uuid.New(),
		Identity: "student-" + uuid.New().String()[:8],
		Role:     model.RoleStudent,
		Timezone: "Europe/Samara",
	}
	require.NoError(t, db.Create(student).Error)
	book := &model.Book{
		BookID:     uuid.New(),
		Title:      "はてしない物語",
		Author:     "ミヒャエル・エンデ",
		Category:   "ファンタジー",
		Difficulty: 3,
	}
	require.NoError(t, db.Create(book).Error)
	return student.UserID, book.BookID
}

func TestStudentBookService_AssignBook(t *testing.T) {
	ctx := context.Background()
	samara, err := time.LoadLocation("Europe/Samara")
	require.NoError(t, err)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, samara)

	t.Run("正常系: 新規割り当て", func(t *testing.T) {
		db := setupTestDBStudentBook(t)
		studentID, bookID := createStudentAndBook(t, db)
		s := newStudentBookServiceForTest(db, now)

		sb, err := s.AssignBook(ctx, &model.AssignBookRequest{
			StudentID:    studentID,
			BookID:       bookID,
			ProgressMode: model.ProgressPercent,
			StartDate:    "2026-03-10",
		})
		require.NoError(t, err)
		assert.Equal(t, model.StudentBookActive, sb.Status)
	})

	t.Run("正常系: 既存のactiveはfinishedに倒れる", func(t *testing.T) {
		db := setupTestDBStudentBook(t)
		studentID, bookID := createStudentAndBook(t, db)
		s := newStudentBookServiceForTest(db, now)

		first, err := s.AssignBook(ctx, &model.AssignBookRequest{
			StudentID:    studentID,
			BookID:       bookID,
			ProgressMode: model.ProgressPercent,
			StartDate:    "2026-03-01",
		})
		require.NoError(t, err)

		second, err := s.AssignBook(ctx, &model.AssignBookRequest{
			StudentID:    studentID,
			BookID:       bookID,
			ProgressMode: model.ProgressPage,
			StartDate:    "2026-03-10",
		})
		require.NoError(t, err)
		assert.Equal(t, model.StudentBookActive, second.Status)

		var old model.StudentBook
		require.NoError(t, db.First(&old, "student_book_id = ?", first.StudentBookID).Error)
		assert.Equal(t, model.StudentBookFinished, old.Status)
		require.NotNil(t, old.EndDate)
		assert.Equal(t, "2026-03-10", *old.EndDate)
	})

	t.Run("異常系: メンターには割り当てられない", func(t *testing.T) {
		db := setupTestDBStudentBook(t)
		_, bookID := createStudentAndBook(t, db)
		mentor := &model.User{UserID: uuid.New(), Identity: "mentor-x", Role: model.RoleMentor, Timezone: "Europe/Samara"}
		require.NoError(t, db.Create(mentor).Error)
		s := newStudentBookServiceForTest(db, now)

		_, err := s.AssignBook(ctx, &model.AssignBookRequest{
			StudentID:    mentor.UserID,
			BookID:       bookID,
			ProgressMode: model.ProgressPercent,
			StartDate:    "2026-03-10",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("異常系: 存在しない図書", func(t *testing.T) {
		db := setupTestDBStudentBook(t)
		studentID, _ := createStudentAndBook(t, db)
		s := newStudentBookServiceForTest(db, now)

		_, err := s.AssignBook(ctx, &model.AssignBookRequest{
			StudentID:    studentID,
			BookID:       uuid.New(),
			ProgressMode: model.ProgressPercent,
			StartDate:    "2026-03-10",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestStudentBookService_状態遷移(t *testing.T) {
	ctx := context.Background()
	samara, err := time.LoadLocation("Europe/Samara")
	require.NoError(t, err)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, samara)

	db := setupTestDBStudentBook(t)
	studentID, bookID := createStudentAndBook(t, db)
	s := newStudentBookServiceForTest(db, now)

	sb, err := s.AssignBook(ctx, &model.AssignBookRequest{
		StudentID:    studentID,
		BookID:       bookID,
		ProgressMode: model.ProgressPercent,
		StartDate:    "2026-03-01",
	})
	require.NoError(t, err)

	// active → paused → active → finished
	paused, err := s.PauseBook(ctx, sb.StudentBookID)
	require.NoError(t, err)
	assert.Equal(t, model.StudentBookPaused, paused.Status)

	// paused の再 pause は不可
	_, err = s.PauseBook(ctx, sb.StudentBookID)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConflict)

	resumed, err := s.ResumeBook(ctx, sb.StudentBookID)
	require.NoError(t, err)
	assert.Equal(t, model.StudentBookActive, resumed.Status)

	finished, err := s.FinishBook(ctx, sb.StudentBookID, samara)
	require.NoError(t, err)
	assert.Equal(t, model.StudentBookFinished, finished.Status)
	require.NotNil(t, finished.EndDate)
	assert.Equal(t, "2026-03-10", *finished.EndDate)

	// finished からは再開できない
	_, err = s.ResumeBook(ctx, sb.StudentBookID)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestStudentBookService_Resume_他にactiveがあると不可(t *testing.T) {
	ctx := context.Background()
	samara, err := time.LoadLocation("Europe/Samara")
	require.NoError(t, err)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, samara)

	db := setupTestDBStudentBook(t)
	studentID, bookID := createStudentAndBook(t, db)
	s := newStudentBookServiceForTest(db, now)

	first, err := s.AssignBook(ctx, &model.AssignBookRequest{
		StudentID:    studentID,
		BookID:       bookID,
		ProgressMode: model.ProgressPercent,
		StartDate:    "2026-03-01",
	})
	require.NoError(t, err)
	_, err = s.PauseBook(ctx, first.StudentBookID)
	require.NoError(t, err)

	// 2冊目を割り当ててから1冊目を再開しようとする
	_, err = s.AssignBook(ctx, &model.AssignBookRequest{
		StudentID:    studentID,
		BookID:       bookID,
		ProgressMode: model.ProgressPercent,
		StartDate:    "2026-03-10",
	})
	require.NoError(t, err)

	_, err = s.ResumeBook(ctx, first.StudentBookID)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConflict)
}
