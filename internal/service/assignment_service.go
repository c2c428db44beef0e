// internal/service/assignment_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
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

type AssignmentService interface {
	PostAssignment(ctx context.Context, studentBookID uuid.UUID, req *model.PostAssignmentRequest) (*model.Assignment, error)
	GetAssignments(ctx context.Context, studentBookID uuid.UUID, fromDate, toDate string) ([]*model.AssignmentResponse, error)
	PatchAssignment(ctx context.Context, assignmentID uuid.UUID, req *model.PatchAssignmentRequest) (*model.Assignment, error)
	// SubmitAssignment は生徒本人だけが呼べます。提出後、メンターへ通知します。
	SubmitAssignment(ctx context.Context, assignmentID, studentID uuid.UUID) (*model.Assignment, error)
	// GradeAssignment は評価・ボーナス反映・目標判定を1トランザクションで行い、
	// コミット後にストリークのベスト値を更新します。
	GradeAssignment(ctx context.Context, assignmentID uuid.UUID, req *model.GradeAssignmentRequest) (*model.Assignment, error)
	GeneratePlan(ctx context.Context, studentBookID uuid.UUID, req *model.GeneratePlanRequest) (*model.PlanResult, error)
}

type assignmentService struct {
	db              *gorm.DB
	assignmentRepo  repository.AssignmentRepository
	studentBookRepo repository.StudentBookRepository
	recapRepo       repository.RecapRepository
	userRepo        repository.UserRepository
	bonusService    BonusService
	streakService   StreakService
	notifier        Notifier
	cfg             *config.Config
	clock           clock.Clock
}

func NewAssignmentService(
	db *gorm.DB,
	assignmentRepo repository.AssignmentRepository,
	studentBookRepo repository.StudentBookRepository,
	recapRepo repository.RecapRepository,
	userRepo repository.UserRepository,
	bonusService BonusService,
	streakService StreakService,
	notifier Notifier,
	cfg *config.Config,
	clk clock.Clock,
) AssignmentService {
	return &assignmentService{
		db:              db,
		assignmentRepo:  assignmentRepo,
		studentBookRepo: studentBookRepo,
		recapRepo:       recapRepo,
		userRepo:        userRepo,
		bonusService:    bonusService,
		streakService:   streakService,
		notifier:        notifier,
		cfg:             cfg,
		clock:           clk,
	}
}

func (s *assignmentService) PostAssignment(ctx context.Context, studentBookID uuid.UUID, req *model.PostAssignmentRequest) (*model.Assignment, error) {
	logger := middleware.GetLogger(ctx)

	if err := validateTarget(req.TargetKind, req.TargetValue, req.TargetChapter); err != nil {
		return nil, err
	}

	assignment := &model.Assignment{
		AssignmentID:  uuid.New(),
		StudentBookID: studentBookID,
		Date:          req.Date,
		DeadlineTime:  req.DeadlineTime,
		TargetKind:    req.TargetKind,
		TargetValue:   req.TargetValue,
		TargetChapter: req.TargetChapter,
		LastParagraph: req.LastParagraph,
		Status:        model.AssignmentPending,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, findErr := s.studentBookRepo.FindByID(ctx, tx, studentBookID); findErr != nil {
			if errors.Is(findErr, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "割り当てが見つかりません。", "student_book_id", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "課題の作成中にエラーが発生しました。", "", findErr)
		}
		if createErr := s.assignmentRepo.Create(ctx, tx, assignment); createErr != nil {
			if errors.Is(createErr, model.ErrConflict) {
				return model.NewAppError("DUPLICATE_ASSIGNMENT", "この日付の課題はすでに存在します。", "date", model.ErrConflict)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "課題の作成に失敗しました。", "", createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Assignment created", "assignment_id", assignment.AssignmentID, "date", assignment.Date)
	return assignment, nil
}

func (s *assignmentService) GetAssignments(ctx context.Context, studentBookID uuid.UUID, fromDate, toDate string) ([]*model.AssignmentResponse, error) {
	sb, err := s.studentBookRepo.FindByID(ctx, s.db, studentBookID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NOT_FOUND", "割り当てが見つかりません。", "student_book_id", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "課題一覧の取得に失敗しました。", "", err)
	}

	loc, err := s.locationForStudent(ctx, sb.StudentID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignmentRepo.FindByStudentBookRange(ctx, s.db, studentBookID, fromDate, toDate)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "課題一覧の取得に失敗しました。", "", err)
	}

	now := s.clock.Now()
	responses := make([]*model.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, &model.AssignmentResponse{
			Assignment:   *a,
			VisualStatus: ResolveVisualStatus(a, loc, now),
		})
	}
	return responses, nil
}

func (s *assignmentService) PatchAssignment(ctx context.Context, assignmentID uuid.UUID, req *model.PatchAssignmentRequest) (*model.Assignment, error) {
	logger := middleware.GetLogger(ctx)

	var assignment *model.Assignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, findErr := s.assignmentRepo.FindByID(ctx, tx, assignmentID)
		if findErr != nil {
			if errors.Is(findErr, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "課題が見つかりません。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "課題の取得に失敗しました。", "", findErr)
		}

		// 編集できるのは未確定 (pending/submitted) の課題だけ
		if found.Status == model.AssignmentGraded || found.Status == model.AssignmentMissed {
			return model.NewAppError("INVALID_ASSIGNMENT_STATE", "確定済みの課題は編集できません。", "", model.ErrConflict)
		}

		updates := map[string]interface{}{}
		if req.DeadlineTime != nil {
			updates["deadline_time"] = *req.DeadlineTime
			found.DeadlineTime = *req.DeadlineTime
		}
		if req.TargetValue != nil {
			updates["target_value"] = *req.TargetValue
			found.TargetValue = *req.TargetValue
		}
		if req.TargetChapter != nil {
			updates["target_chapter"] = *req.TargetChapter
			found.TargetChapter = req.TargetChapter
		}
		if req.LastParagraph != nil {
			updates["last_paragraph"] = *req.LastParagraph
			found.LastParagraph = req.LastParagraph
		}
		if len(updates) == 0 {
			assignment = found
			return nil
		}

		if updateErr := s.assignmentRepo.Update(ctx, tx, assignmentID, updates); updateErr != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "課題の更新に失敗しました。", "", updateErr)
		}
		assignment = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Assignment patched", "assignment_id", assignmentID)
	return assignment, nil
}

func (s *assignmentService) SubmitAssignment(ctx context.Context, assignmentID, studentID uuid.UUID) (*model.Assignment, error) {
	logger := middleware.GetLogger(ctx)

	var assignment *model.Assignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, findErr := s.assignmentRepo.FindByID(ctx, tx, assignmentID)
		if findErr != nil {
			if errors.Is(findErr, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "課題が見つかりません。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "課題の取得に失敗しました。", "", findErr)
		}

		sb, sbErr := s.studentBookRepo.FindByID(ctx, tx, found.StudentBookID)
		if sbErr != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "提出処理中にエラーが発生しました。", "", sbErr)
		}
		if sb.StudentID != studentID {
			return model.NewAppError("FORBIDDEN", "自分の課題だけ提出できます。", "", model.ErrForbidden)
		}

		if found.Status != model.AssignmentPending {
			return model.NewAppError("INVALID_ASSIGNMENT_STATE", "この課題は提出できる状態ではありません。", "", model.ErrConflict)
		}

		// 締切超過・過去日の課題は提出させない
		loc, locErr := s.locationForStudent(ctx, studentID)
		if locErr != nil {
			return locErr
		}
		now := s.clock.Now()
		if ResolveVisualStatus(found, loc, now) == model.AssignmentMissed {
			return model.NewAppError("DEADLINE_PASSED", "締切を過ぎた課題は提出できません。", "", model.ErrConflict)
		}

		submittedAt := now
		updates := map[string]interface{}{
			"status":       model.AssignmentSubmitted,
			"submitted_at": submittedAt,
		}
		if updateErr := s.assignmentRepo.Update(ctx, tx, assignmentID, updates); updateErr != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "課題の提出に失敗しました。", "", updateErr)
		}
		found.Status = model.AssignmentSubmitted
		found.SubmittedAt = &submittedAt
		assignment = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Assignment submitted", "assignment_id", assignmentID, "student_id", studentID)

	// メンターへの通知は fire-and-forget。失敗してもレスポンスは返す。
	go s.notifyMentors(logger, assignment, studentID)

	return assignment, nil
}

func (s *assignmentService) notifyMentors(logger *slog.Logger, assignment *model.Assignment, studentID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	student, err := s.userRepo.FindByID(ctx, s.db, studentID)
	if err != nil {
		logger.Warn("Failed to load student for notification", "error", err)
		return
	}
	name := student.Identity
	if student.DisplayName != nil {
		name = *student.DisplayName
	}
	text := fmt.Sprintf("%s さんが %s の課題を提出しました。", name, assignment.Date)

	mentors, err := s.userRepo.FindByRole(ctx, s.db, model.RoleMentor)
	if err != nil {
		logger.Warn("Failed to load mentors for notification", "error", err)
		return
	}
	for _, mentor := range mentors {
		if err := s.notifier.Send(ctx, mentor.Identity, text); err != nil {
			logger.Warn("Failed to notify mentor", "mentor_id", mentor.UserID, "error", err)
		}
	}
}

func (s *assignmentService) GradeAssignment(ctx context.Context, assignmentID uuid.UUID, req *model.GradeAssignmentRequest) (*model.Assignment, error) {
	logger := middleware.GetLogger(ctx)

	var assignment *model.Assignment
	var studentID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, findErr := s.assignmentRepo.FindByID(ctx, tx, assignmentID)
		if findErr != nil {
			if errors.Is(findErr, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "課題が見つかりません。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "課題の取得に失敗しました。", "", findErr)
		}

		// missed として保存された課題は評価対象外。再評価 (graded→graded) は可。
		if found.Status == model.AssignmentMissed {
			return model.NewAppError("INVALID_ASSIGNMENT_STATE", "未達の課題は評価できません。", "", model.ErrConflict)
		}

		sb, sbErr := s.studentBookRepo.FindByID(ctx, tx, found.StudentBookID)
		if sbErr != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "評価処理中にエラーが発生しました。", "", sbErr)
		}
		studentID = sb.StudentID

		if updateErr := s.assignmentRepo.Update(ctx, tx, assignmentID, map[string]interface{}{"status": model.AssignmentGraded}); updateErr != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "課題の更新に失敗しました。", "", updateErr)
		}
		found.Status = model.AssignmentGraded

		recap, recapErr := s.recapRepo.FindByAssignment(ctx, tx, assignmentID)
		if recapErr != nil {
			if !errors.Is(recapErr, model.ErrNotFound) {
				return model.NewAppError("INTERNAL_SERVER_ERROR", "評価の取得に失敗しました。", "", recapErr)
			}
			recap = &model.Recap{
				RecapID:       uuid.New(),
				AssignmentID:  assignmentID,
				MentorRating:  &req.Rating,
				MentorComment: req.Comment,
			}
			if createErr := s.recapRepo.Create(ctx, tx, recap); createErr != nil {
				return model.NewAppError("INTERNAL_SERVER_ERROR", "評価の保存に失敗しました。", "", createErr)
			}
		} else {
			recap.MentorRating = &req.Rating
			recap.MentorComment = req.Comment
			if updateErr := s.recapRepo.Update(ctx, tx, recap); updateErr != nil {
				return model.NewAppError("INTERNAL_SERVER_ERROR", "評価の更新に失敗しました。", "", updateErr)
			}
		}
		found.Recap = recap

		reason := fmt.Sprintf("%s の課題の評価 (%d)", found.Date, req.Rating)
		if bonusErr := s.bonusService.ApplyGradeBonus(ctx, tx, studentID, assignmentID, req.Rating, reason); bonusErr != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "ボーナスの反映に失敗しました。", "", bonusErr)
		}

		assignment = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	// ストリークのベスト更新はコミット後に行う。失敗は記録だけして飲み込む。
	loc, locErr := s.locationForStudent(ctx, studentID)
	if locErr == nil {
		if streakErr := s.streakService.UpdateBestStreak(ctx, studentID, loc); streakErr != nil {
			logger.Warn("Failed to update best streak after grading", "student_id", studentID, "error", streakErr)
		}
	} else {
		logger.Warn("Failed to resolve timezone for streak update", "student_id", studentID, "error", locErr)
	}

	logger.Info("Assignment graded", "assignment_id", assignmentID, "rating", req.Rating)
	return assignment, nil
}

func (s *assignmentService) GeneratePlan(ctx context.Context, studentBookID uuid.UUID, req *model.GeneratePlanRequest) (*model.PlanResult, error) {
	logger := middleware.GetLogger(ctx)

	if req.EndDate < req.StartDate {
		return nil, model.NewAppError("INVALID_DATE_RANGE", "終了日は開始日以降にしてください。", "end_date", model.ErrInvalidInput)
	}

	sb, err := s.studentBookRepo.FindByID(ctx, s.db, studentBookID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NOT_FOUND", "割り当てが見つかりません。", "student_book_id", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "プランの生成中にエラーが発生しました。", "", err)
	}

	loc, err := s.locationForStudent(ctx, sb.StudentID)
	if err != nil {
		return nil, err
	}

	start, err := calendar.ParseDate(req.StartDate, loc)
	if err != nil {
		return nil, model.NewAppError("INVALID_DATE", "開始日の形式が不正です。", "start_date", model.ErrInvalidInput)
	}
	end, err := calendar.ParseDate(req.EndDate, loc)
	if err != nil {
		return nil, model.NewAppError("INVALID_DATE", "終了日の形式が不正です。", "end_date", model.ErrInvalidInput)
	}
	if int(end.Sub(start).Hours()/24) > s.cfg.App.PlanMaxDays {
		return nil, model.NewAppError("RANGE_TOO_LARGE",
			fmt.Sprintf("プランの期間は最大 %d 日です。", s.cfg.App.PlanMaxDays), "end_date", model.ErrInvalidInput)
	}

	result := &model.PlanResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			// 土日はプランの対象外
			if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
			dateStr := d.Format(calendar.DateLayout)

			_, findErr := s.assignmentRepo.FindByStudentBookAndDate(ctx, tx, studentBookID, dateStr)
			if findErr == nil {
				result.SkippedExisting++
				continue
			}
			if !errors.Is(findErr, model.ErrNotFound) {
				return model.NewAppError("INTERNAL_SERVER_ERROR", "プランの生成に失敗しました。", "", findErr)
			}

			assignment := &model.Assignment{
				AssignmentID:  uuid.New(),
				StudentBookID: studentBookID,
				Date:          dateStr,
				DeadlineTime:  req.DeadlineTime,
				TargetKind:    model.TargetKind(req.Mode),
				TargetValue:   req.DailyTarget,
				Status:        model.AssignmentPending,
			}
			if createErr := s.assignmentRepo.Create(ctx, tx, assignment); createErr != nil {
				return model.NewAppError("INTERNAL_SERVER_ERROR", "プランの生成に失敗しました。", "", createErr)
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Plan generated", "student_book_id", studentBookID, "created", result.Created, "skipped", result.SkippedExisting)
	return result, nil
}

// locationForStudent は生徒のタイムゾーン設定を time.Location に解決します。
func (s *assignmentService) locationForStudent(ctx context.Context, studentID uuid.UUID) (*time.Location, error) {
	student, err := s.userRepo.FindByID(ctx, s.db, studentID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "生徒情報の取得に失敗しました。", "", err)
	}
	loc, err := time.LoadLocation(student.Timezone)
	if err != nil {
		loc, err = time.LoadLocation(s.cfg.App.DefaultTimezone)
		if err != nil {
			loc = time.UTC
		}
	}
	return loc, nil
}

// validateTarget は目標種別とフィールドの組み合わせを確認します。
func validateTarget(kind model.TargetKind, value int, chapter *string) error {
	switch kind {
	case model.TargetPercent, model.TargetPage:
		if value < 1 {
			return model.NewAppError("INVALID_TARGET", "数値目標を1以上で指定してください。", "target_value", model.ErrInvalidInput)
		}
	case model.TargetChapter:
		if chapter == nil || *chapter == "" {
			return model.NewAppError("INVALID_TARGET", "章の目標を指定してください。", "target_chapter", model.ErrInvalidInput)
		}
	default:
		return model.NewAppError("INVALID_TARGET", "不明な目標種別です。", "target_kind", model.ErrInvalidInput)
	}
	return nil
}
