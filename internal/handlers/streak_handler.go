// internal/handlers/streak_handler.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go_5_read_keep/internal/config"
	"go_5_read_keep/internal/service"
	"go_5_read_keep/internal/webutil"

	"github.com/google/uuid"
)

type StreakHandler struct {
	service     service.StreakService
	authService service.AuthService
	cfg         *config.Config
	logger      *slog.Logger
}

func NewStreakHandler(s service.StreakService, authService service.AuthService, cfg *config.Config, logger *slog.Logger) *StreakHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreakHandler{
		service:     s,
		authService: authService,
		cfg:         cfg,
		logger:      logger,
	}
}

// GetStreak は生徒の連続達成記録を返すためのハンドラ。
// 現在値は履歴から都度計算されます。
func (h *StreakHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetStreak"))

	studentID, appErr := parseUUIDParam(r, "student_id")
	if appErr != nil {
		logger.Warn("Invalid student ID format in URL", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}
	if appErr := authorizeStudentScope(r.Context(), studentID); appErr != nil {
		logger.Warn("Forbidden access attempt", slog.String("student_id", studentID.String()))
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("student_id", studentID.String()))

	loc := h.locationForStudent(r.Context(), studentID, logger)
	streak, err := h.service.GetStreak(r.Context(), studentID, loc)
	if err != nil {
		logger.Error("Error getting streak from service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, streak, logger)
}

// locationForStudent は生徒のタイムゾーンを解決します。
// 解決できない場合はデフォルトタイムゾーン、最後はUTCへフォールバックします。
func (h *StreakHandler) locationForStudent(ctx context.Context, studentID uuid.UUID, logger *slog.Logger) *time.Location {
	if student, err := h.authService.GetUser(ctx, studentID); err == nil {
		if loc, err := time.LoadLocation(student.Timezone); err == nil {
			return loc
		}
		logger.Warn("Invalid student timezone, falling back to default",
			slog.String("timezone", student.Timezone))
	} else {
		logger.Warn("Failed to resolve student for timezone, falling back to default",
			slog.Any("error", err))
	}
	if loc, err := time.LoadLocation(h.cfg.App.DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}
