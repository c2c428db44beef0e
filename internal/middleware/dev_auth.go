// internal/middleware/dev_auth.go
package middleware

import (
	"context"
	"net/http"

	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/webutil"

	"github.com/google/uuid"
)

// DevUserContextMiddleware はテスト・開発用の簡易認証ミドルウェアです。
// X-User-ID ヘッダーのUUIDと X-User-Role ヘッダー（省略時 mentor）を
// そのままコンテキストにセットします。本番では使わないこと。
func DevUserContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			appErr := model.NewAppError("UNAUTHORIZED", "X-User-IDヘッダーが必要です。", "", model.ErrForbidden)
			webutil.HandleError(w, logger, appErr)
			return
		}
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			appErr := model.NewAppError("UNAUTHORIZED", "X-User-IDヘッダーの形式が正しくありません。", "", model.ErrForbidden)
			webutil.HandleError(w, logger, appErr)
			return
		}

		role := model.UserRole(r.Header.Get("X-User-Role"))
		if role == "" {
			role = model.RoleMentor
		}

		ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
		ctx = context.WithValue(ctx, model.UserRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
