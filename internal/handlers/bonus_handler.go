// internal/handlers/bonus_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/service"
	"go_5_read_keep/internal/webutil"
)

type BonusHandler struct {
	service service.BonusService
	logger  *slog.Logger
}

func NewBonusHandler(s service.BonusService, logger *slog.Logger) *BonusHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BonusHandler{
		service: s,
		logger:  logger,
	}
}

// GetBonus は残高と履歴を返すためのハンドラ
func (h *BonusHandler) GetBonus(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetBonus"))

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

	summary, err := h.service.GetSummary(r.Context(), studentID)
	if err != nil {
		logger.Error("Error getting bonus summary from service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, summary, logger)
}

// PostManualBonus はメンターによる手動加減算のためのハンドラ（メンター専用）
func (h *BonusHandler) PostManualBonus(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostManualBonus"))

	studentID, appErr := parseUUIDParam(r, "student_id")
	if appErr != nil {
		logger.Warn("Invalid student ID format in URL", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("student_id", studentID.String()))

	var req model.ManualBonusRequest
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

	trx, err := h.service.ApplyManualBonus(r.Context(), studentID, &req)
	if err != nil {
		logger.Error("Error applying manual bonus in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Manual bonus applied", slog.Int("delta", trx.Delta))
	webutil.RespondWithJSON(w, http.StatusCreated, trx, logger)
}

// PostBonusReset は残高をゼロに戻すためのハンドラ（メンター専用）。
// 残高がすでにゼロなら何も作られず 204 を返します。
func (h *BonusHandler) PostBonusReset(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostBonusReset"))

	studentID, appErr := parseUUIDParam(r, "student_id")
	if appErr != nil {
		logger.Warn("Invalid student ID format in URL", slog.String("error", appErr.Error()))
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("student_id", studentID.String()))

	var req model.ResetBonusRequest
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

	reason := req.Reason
	if reason == "" {
		reason = "メンターによるリセット"
	}
	trx, err := h.service.ResetToZero(r.Context(), studentID, reason)
	if err != nil {
		logger.Error("Error resetting bonus in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if trx == nil {
		logger.Info("Bonus balance already zero, nothing to reset")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	logger.Info("Bonus balance reset", slog.Int("delta", trx.Delta))
	webutil.RespondWithJSON(w, http.StatusCreated, trx, logger)
}
