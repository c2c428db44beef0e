// internal/handlers/goal_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/service"
	"go_5_read_keep/internal/webutil"
)

type GoalHandler struct {
	service service.GoalService
	logger  *slog.Logger
}

func NewGoalHandler(s service.GoalService, logger *slog.Logger) *GoalHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoalHandler{
		service: s,
		logger:  logger,
	}
}

// PostGoal はごほうび目標を作成するためのハンドラ（メンター専用）
func (h *GoalHandler) PostGoal(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostGoal"))

	studentID, appErr := parseUUIDParam(r, "student_id")
	if appErr != nil {
		logger.Warn("Invalid student ID format in URL", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("student_id", studentID.String()))

	var req model.PostGoalRequest
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

	goal, err := h.service.PostGoal(r.Context(), studentID, &req)
	if err != nil {
		logger.Error("Error posting goal in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Goal posted successfully", slog.String("goal_id", goal.GoalID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, goal, logger)
}

// GetGoals は生徒の目標一覧を取得するためのハンドラ
func (h *GoalHandler) GetGoals(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetGoals"))

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

	goals, err := h.service.GetGoals(r.Context(), studentID)
	if err != nil {
		logger.Error("Error listing goals in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if goals == nil {
		goals = []*model.Goal{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, goals, logger)
}

// CancelGoal は未達成の目標を取り消すためのハンドラ（メンター専用）
func (h *GoalHandler) CancelGoal(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CancelGoal"))

	goalID, appErr := parseUUIDParam(r, "goal_id")
	if appErr != nil {
		logger.Warn("Invalid goal ID format in URL", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("goal_id", goalID.String()))

	goal, err := h.service.CancelGoal(r.Context(), goalID)
	if err != nil {
		logger.Error("Error cancelling goal in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Goal cancelled successfully")
	webutil.RespondWithJSON(w, http.StatusOK, goal, logger)
}
