// internal/service/student_book_service.go
package service

import (
	"context"
	"errors"
	"time"

	"go_5_read_keep/internal/calendar"
	"go_5_read_keep/internal/clock"
	"go_5_read_keep/internal/middleware"
	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentBookService interface {
	// AssignBook は生徒に図書を割り当てます。既存の active な割り当ては
	// 自動的に finished になります（同時に読書中の本は1冊まで）。
	AssignBook(ctx context.Context, req *model.AssignBookRequest) (*model.StudentBook, error)
	GetStudentBook(ctx context.Context, studentBookID uuid.UUID) (*model.StudentBook, error)
	// GetActiveStudentBook は読書中の割り当てを返します。なければ ErrNotFound。
	GetActiveStudentBook(ctx context.Context, studentID uuid.UUID) (*model.StudentBook, error)
	GetStudentBooks(ctx context.Context, studentID uuid.UUID) ([]*model.StudentBook, error)
	FinishBook(ctx context.Context, studentBookID uuid.UUID, loc *time.Location) (*model.StudentBook, error)
	PauseBook(ctx context.Context, studentBookID uuid.UUID) (*model.StudentBook, error)
	ResumeBook(ctx context.Context, studentBookID uuid.UUID) (*model.StudentBook, error)
}

type studentBookService struct {
	db              *gorm.DB
	studentBookRepo repository.StudentBookRepository
	bookRepo        repository.BookRepository
	userRepo        repository.UserRepository
	clock           clock.Clock
}

func NewStudentBookService(db *gorm.DB, studentBookRepo repository.StudentBookRepository, bookRepo repository.BookRepository, userRepo repository.UserRepository, clk clock.Clock) StudentBookService {
	return &studentBookService{
		db:              db,
		studentBookRepo: studentBookRepo,
		bookRepo:        bookRepo,
		userRepo:        userRepo,
		clock:           clk,
	}
}

func (s *studentBookService) AssignBook(ctx context.Context, req *model.AssignBookRequest) (*model.StudentBook, error) {
	logger := middleware.GetLogger(ctx)

	sb := &model.StudentBook{
		StudentBookID: uuid.New(),
		StudentID:     req.StudentID,
		BookID:        req.BookID,
		Status:        model.StudentBookActive,
		StartDate:     req.StartDate,
		ProgressMode:  req.ProgressMode,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		student, findErr := s.userRepo.FindByID(ctx, tx, req.StudentID)
		if findErr != nil {
			if errors.Is(findErr, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "生徒が見つかりません。", "student_id", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "割り当て処理中にエラーが発生しました。", "", findErr)
		}
		if student.Role != model.RoleStudent {
			return model.NewAppError("INVALID_TARGET", "図書を割り当てられるのは生徒だけです。", "student_id", model.ErrInvalidInput)
		}
		if _, findErr := s.bookRepo.FindByID(ctx, tx, req.BookID); findErr != nil {
			if errors.Is(findErr, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "図書が見つかりません。", "book_id", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "割り当て処理中にエラーが発生しました。", "", findErr)
		}

		// 既存の読書中の本があれば読了扱いにして差し替える
		current, findErr := s.studentBookRepo.FindActiveByStudent(ctx, tx, req.StudentID)
		if findErr != nil && !errors.Is(findErr, model.ErrNotFound) {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "割り当て処理中にエラーが発生しました。", "", findErr)
		}
		if findErr == nil {
			loc, locErr := time.LoadLocation(student.Timezone)
			if locErr != nil {
				loc = time.UTC
			}
			endDate := calendar.Today(s.clock.Now(), loc)
			if updateErr := s.studentBookRepo.UpdateStatus(ctx, tx, current.StudentBookID, model.StudentBookFinished, &endDate); updateErr != nil {
				return model.NewAppError("INTERNAL_SERVER_ERROR", "既存の割り当ての更新に失敗しました。", "", updateErr)
			}
			logger.Info("Previous active book finished", "student_book_id", current.StudentBookID)
		}

		if createErr := s.studentBookRepo.Create(ctx, tx, sb); createErr != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "図書の割り当てに失敗しました。", "", createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Book assigned", "student_book_id", sb.StudentBookID, "student_id", req.StudentID, "book_id", req.BookID)
	return sb, nil
}

func (s *studentBookService) GetStudentBook(ctx context.Context, studentBookID uuid.UUID) (*model.StudentBook, error) {
	sb, err := s.studentBookRepo.FindByID(ctx, s.db, studentBookID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NOT_FOUND", "割り当てが見つかりません。", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "割り当ての取得に失敗しました。", "", err)
	}
	return sb, nil
}

func (s *studentBookService) GetActiveStudentBook(ctx context.Context, studentID uuid.UUID) (*model.StudentBook, error) {
	sb, err := s.studentBookRepo.FindActiveByStudent(ctx, s.db, studentID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NOT_FOUND", "読書中の本がありません。", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "割り当ての取得に失敗しました。", "", err)
	}
	return sb, nil
}

func (s *studentBookService) GetStudentBooks(ctx context.Context, studentID uuid.UUID) ([]*model.StudentBook, error) {
	sbs, err := s.studentBookRepo.FindByStudent(ctx, s.db, studentID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "割り当て一覧の取得に失敗しました。", "", err)
	}
	return sbs, nil
}

func (s *studentBookService) FinishBook(ctx context.Context, studentBookID uuid.UUID, loc *time.Location) (*model.StudentBook, error) {
	endDate := calendar.Today(s.clock.Now(), loc)
	return s.transition(ctx, studentBookID, model.StudentBookFinished, &endDate,
		[]model.StudentBookStatus{model.StudentBookActive, model.StudentBookPaused})
}

func (s *studentBookService) PauseBook(ctx context.Context, studentBookID uuid.UUID) (*model.StudentBook, error) {
	return s.transition(ctx, studentBookID, model.StudentBookPaused, nil,
		[]model.StudentBookStatus{model.StudentBookActive})
}

func (s *studentBookService) ResumeBook(ctx context.Context, studentBookID uuid.UUID) (*model.StudentBook, error) {
	return s.transition(ctx, studentBookID, model.StudentBookActive, nil,
		[]model.StudentBookStatus{model.StudentBookPaused})
}

func (s *studentBookService) transition(ctx context.Context, studentBookID uuid.UUID, to model.StudentBookStatus, endDate *string, allowedFrom []model.StudentBookStatus) (*model.StudentBook, error) {
	logger := middleware.GetLogger(ctx)

	var sb *model.StudentBook
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, findErr := s.studentBookRepo.FindByID(ctx, tx, studentBookID)
		if findErr != nil {
			if errors.Is(findErr, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "割り当てが見つかりません。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "割り当ての取得に失敗しました。", "", findErr)
		}

		allowed := false
		for _, from := range allowedFrom {
			if found.Status == from {
				allowed = true
				break
			}
		}
		if !allowed {
			return model.NewAppError("INVALID_BOOK_STATE", "現在の状態ではこの操作はできません。", "", model.ErrConflict)
		}

		// 同時に読書中の本は1冊までなので、再開時は他の active を確認する
		if to == model.StudentBookActive {
			current, activeErr := s.studentBookRepo.FindActiveByStudent(ctx, tx, found.StudentID)
			if activeErr != nil && !errors.Is(activeErr, model.ErrNotFound) {
				return model.NewAppError("INTERNAL_SERVER_ERROR", "割り当ての確認に失敗しました。", "", activeErr)
			}
			if activeErr == nil && current.StudentBookID != studentBookID {
				return model.NewAppError("ACTIVE_BOOK_EXISTS", "読書中の本がすでにあります。先にその本を終了または中断してください。", "", model.ErrConflict)
			}
		}

		if updateErr := s.studentBookRepo.UpdateStatus(ctx, tx, studentBookID, to, endDate); updateErr != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "割り当ての更新に失敗しました。", "", updateErr)
		}
		found.Status = to
		if endDate != nil {
			found.EndDate = endDate
		}
		sb = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("StudentBook status changed", "student_book_id", studentBookID, "status", string(to))
	return sb, nil
}
