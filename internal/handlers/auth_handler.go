// internal/handlers/auth_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_5_read_keep/internal/middleware"
	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/service"
	"go_5_read_keep/internal/webutil"
)

type AuthHandler struct {
	service service.AuthService
	logger  *slog.Logger
}

func NewAuthHandler(s service.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		service: s,
		logger:  logger,
	}
}

// Login は外部IDでログインするためのハンドラ。初回は生徒として作成されます。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Login"))

	var req model.LoginRequest
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

	resp, err := h.service.LoginByIdentity(r.Context(), &req)
	if err != nil {
		logger.Error("Error logging in", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Login succeeded", slog.String("user_id", resp.User.UserID.String()))
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// GetMe は認証済みユーザー自身の情報を返すためのハンドラ
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetMe"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		logger.Error("Error getting user from service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, user.ToResponse(), logger)
}
