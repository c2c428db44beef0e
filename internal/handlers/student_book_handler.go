// internal/handlers/student_book_handler.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"go_5_read_keep/internal/config"
	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/service"
	"go_5_read_keep/internal/webutil"
)

type StudentBookHandler struct {
	service     service.StudentBookService
	authService service.AuthService
	cfg         *config.Config
	logger      *slog.Logger
}

func NewStudentBookHandler(s service.StudentBookService, authService service.AuthService, cfg *config.Config, logger *slog.Logger) *StudentBookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudentBookHandler{
		service:     s,
		authService: authService,
		cfg:         cfg,
		logger:      logger,
	}
}

// AssignBook は生徒に図書を割り当てるためのハンドラ（メンター専用）。
// 既存の読書中の本は自動的に finished になります。
func (h *StudentBookHandler) AssignBook(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "AssignBook"))

	var req model.AssignBookRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if appErr := webutil.ValidateStruct(req); appErr != nil {
		logger.Warn("Validation failed", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}

	sb, err := h.service.AssignBook(r.Context(), &req)
	if err != nil {
		logger.Error("Error assigning book in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Book assigned successfully", slog.String("student_book_id", sb.StudentBookID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, sb, logger)
}

// GetStudentBooks は生徒の割り当て一覧を取得するためのハンドラ
func (h *StudentBookHandler) GetStudentBooks(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetStudentBooks"))

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

	sbs, err := h.service.GetStudentBooks(r.Context(), studentID)
	if err != nil {
		logger.Error("Error listing student books in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if sbs == nil {
		sbs = []*model.StudentBook{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, sbs, logger)
}

// FinishBook は読書を完了にするためのハンドラ（メンター専用）
func (h *StudentBookHandler) FinishBook(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "FinishBook"))

	studentBookID, appErr := parseUUIDParam(r, "student_book_id")
	if appErr != nil {
		logger.Warn("Invalid student book ID format in URL", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}

	loc := h.locationForOwner(r)
	sb, err := h.service.FinishBook(r.Context(), studentBookID, loc)
	if err != nil {
		logger.Error("Error finishing book in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Book finished", slog.String("student_book_id", studentBookID.String()))
	webutil.RespondWithJSON(w, http.StatusOK, sb, logger)
}

// PauseBook は読書を中断するためのハンドラ（メンター専用）
func (h *StudentBookHandler) PauseBook(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PauseBook"))

	studentBookID, appErr := parseUUIDParam(r, "student_book_id")
	if appErr != nil {
		logger.Warn("Invalid student book ID format in URL", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}

	sb, err := h.service.PauseBook(r.Context(), studentBookID)
	if err != nil {
		logger.Error("Error pausing book in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Book paused", slog.String("student_book_id", studentBookID.String()))
	webutil.RespondWithJSON(w, http.StatusOK, sb, logger)
}

// ResumeBook は中断した読書を再開するためのハンドラ(メンター専用)
func (h *StudentBookHandler) ResumeBook(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ResumeBook"))

	studentBookID, appErr := parseUUIDParam(r, "student_book_id")
	if appErr != nil {
		logger.Warn("Invalid student book ID format in URL", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}

	sb, err := h.service.ResumeBook(r.Context(), studentBookID)
	if err != nil {
		logger.Error("Error resuming book in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Book resumed", slog.String("student_book_id", studentBookID.String()))
	webutil.RespondWithJSON(w, http.StatusOK, sb, logger)
}

// locationForOwner は割り当ての持ち主のタイムゾーンを解決します。
// 解決できなければデフォルトのタイムゾーンにフォールバックします。
func (h *StudentBookHandler) locationForOwner(r *http.Request) *time.Location {
	studentBookID, appErr := parseUUIDParam(r, "student_book_id")
	if appErr == nil {
		if sb, err := h.service.GetStudentBook(r.Context(), studentBookID); err == nil {
			if owner, err := h.authService.GetUser(r.Context(), sb.StudentID); err == nil {
				if loc, err := time.LoadLocation(owner.Timezone); err == nil {
					return loc
				}
			}
		}
	}
	if loc, err := time.LoadLocation(h.cfg.App.DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}
