// internal/handlers/action_log_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_5_read_keep/internal/middleware"
	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/service"
	"go_5_read_keep/internal/webutil"
)

type ActionLogHandler struct {
	service service.ActionLogService
	logger  *slog.Logger
}

func NewActionLogHandler(s service.ActionLogService, logger *slog.Logger) *ActionLogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActionLogHandler{
		service: s,
		logger:  logger,
	}
}

// PostLog はUIテレメトリを追記するためのハンドラ
func (h *ActionLogHandler) PostLog(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostLog"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	var req model.PostActionLogRequest
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

	entry, err := h.service.Record(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Error recording action log in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusCreated, entry, logger)
}
