// internal/service/streak_service.go
//go:generate mockery --name StreakService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_5_read_keep/internal/calendar"
	"go_5_read_keep/internal/clock"
	"go_5_read_keep/internal/config"
	"go_5_read_keep/internal/middleware"
	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StreakService interface {
	// ComputeCurrentStreak は永続化されたカウンタに頼らず、課題履歴から
	// 現在の連続達成日数を都度計算します。
	ComputeCurrentStreak(ctx context.Context, studentID uuid.UUID, loc *time.Location) (int, error)
	// UpdateBestStreak は現在値を再計算し、ベスト記録を更新します。
	UpdateBestStreak(ctx context.Context, studentID uuid.UUID, loc *time.Location) error
	GetStreak(ctx context.Context, studentID uuid.UUID, loc *time.Location) (*model.StreakResponse, error)
}

type streakService struct {
	db              *gorm.DB
	studentBookRepo repository.StudentBookRepository
	assignmentRepo  repository.AssignmentRepository
	streakRepo      repository.StreakRepository
	cfg             *config.Config
	clock           clock.Clock
}

func NewStreakService(db *gorm.DB, studentBookRepo repository.StudentBookRepository, assignmentRepo repository.AssignmentRepository, streakRepo repository.StreakRepository, cfg *config.Config, clk clock.Clock) StreakService {
	return &streakService{
		db:              db,
		studentBookRepo: studentBookRepo,
		assignmentRepo:  assignmentRepo,
		streakRepo:      streakRepo,
		cfg:             cfg,
		clock:           clk,
	}
}

func (s *streakService) ComputeCurrentStreak(ctx context.Context, studentID uuid.UUID, loc *time.Location) (int, error) {
	sb, err := s.studentBookRepo.FindActiveByStudent(ctx, s.db, studentID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// 読書中の本がなければ連続記録は 0
			return 0, nil
		}
		return 0, fmt.Errorf("streakService.ComputeCurrentStreak: %w", err)
	}

	now := s.clock.Now()
	since := calendar.Today(now.AddDate(0, 0, -s.cfg.App.StreakLookbackDays), loc)
	assignments, err := s.assignmentRepo.FindByStudentBookSince(ctx, s.db, sb.StudentBookID, since)
	if err != nil {
		return 0, fmt.Errorf("streakService.ComputeCurrentStreak: %w", err)
	}
	if len(assignments) == 0 {
		return 0, nil
	}

	byDate := make(map[string]*model.Assignment, len(assignments))
	for _, a := range assignments {
		byDate[a.Date] = a
	}

	today := calendar.Today(now, loc)
	d := today
	if weekday, werr := calendar.IsWeekday(d, loc); werr != nil {
		return 0, fmt.Errorf("streakService.ComputeCurrentStreak: %w", werr)
	} else if !weekday {
		d, err = calendar.PreviousWeekday(d, loc)
		if err != nil {
			return 0, fmt.Errorf("streakService.ComputeCurrentStreak: %w", err)
		}
	}

	streak := 0
	for d >= since {
		a, ok := byDate[d]
		if !ok {
			break
		}
		if d == today {
			// 当日は締切までは「進行中」として扱う
			if a.Status == model.AssignmentGraded {
				streak++
			} else {
				passed, perr := calendar.DeadlinePassed(d, a.DeadlineTime, loc, now)
				if perr != nil {
					return 0, fmt.Errorf("streakService.ComputeCurrentStreak: %w", perr)
				}
				if passed {
					return 0, nil
				}
				// 締切前なら数えずに前の平日へ進む
			}
		} else {
			if a.Status != model.AssignmentGraded {
				break
			}
			streak++
		}
		d, err = calendar.PreviousWeekday(d, loc)
		if err != nil {
			return 0, fmt.Errorf("streakService.ComputeCurrentStreak: %w", err)
		}
	}
	return streak, nil
}

func (s *streakService) UpdateBestStreak(ctx context.Context, studentID uuid.UUID, loc *time.Location) error {
	logger := middleware.GetLogger(ctx)

	current, err := s.ComputeCurrentStreak(ctx, studentID, loc)
	if err != nil {
		return fmt.Errorf("streakService.UpdateBestStreak: %w", err)
	}

	today := calendar.Today(s.clock.Now(), loc)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		streak, err := s.streakRepo.FindByStudent(ctx, tx, studentID)
		if err != nil {
			if !errors.Is(err, model.ErrNotFound) {
				return fmt.Errorf("streakService.UpdateBestStreak: %w", err)
			}
			streak = &model.Streak{
				StreakID:       uuid.New(),
				StudentID:      studentID,
				CurrentLen:     current,
				BestLen:        current,
				LastUpdateDate: today,
			}
			if createErr := s.streakRepo.Create(ctx, tx, streak); createErr != nil {
				return fmt.Errorf("streakService.UpdateBestStreak: %w", createErr)
			}
			logger.Info("Streak record created", "student_id", studentID, "current", current)
			return nil
		}

		streak.CurrentLen = current
		if current > streak.BestLen {
			streak.BestLen = current
		}
		streak.LastUpdateDate = today
		if updateErr := s.streakRepo.Update(ctx, tx, streak); updateErr != nil {
			return fmt.Errorf("streakService.UpdateBestStreak: %w", updateErr)
		}
		logger.Debug("Streak updated", "student_id", studentID, "current", streak.CurrentLen, "best", streak.BestLen)
		return nil
	})
}

func (s *streakService) GetStreak(ctx context.Context, studentID uuid.UUID, loc *time.Location) (*model.StreakResponse, error) {
	current, err := s.ComputeCurrentStreak(ctx, studentID, loc)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "連続記録の計算に失敗しました。", "", err)
	}

	best := current
	streak, err := s.streakRepo.FindByStudent(ctx, s.db, studentID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "連続記録の取得に失敗しました。", "", err)
	}
	if err == nil && streak.BestLen > best {
		best = streak.BestLen
	}
	return &model.StreakResponse{Current: current, Best: best}, nil
}
