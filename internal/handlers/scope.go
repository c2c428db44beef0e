// internal/handlers/scope.go
package handlers

import (
	"context"

	"go_5_read_keep/internal/middleware"
	"go_5_read_keep/internal/model"

	"github.com/google/uuid"
)

// authorizeStudentScope は「生徒は自分のリソースだけ、メンターは誰のでも」を
// 確認します。
func authorizeStudentScope(ctx context.Context, studentID uuid.UUID) *model.AppError {
	userID, err := middleware.GetUserIDFromContext(ctx)
	if err != nil {
		return model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
	}
	role, err := middleware.GetUserRoleFromContext(ctx)
	if err != nil {
		return model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
	}
	if role == model.RoleMentor {
		return nil
	}
	if userID != studentID {
		return model.NewAppError("FORBIDDEN", "他の生徒のリソースにはアクセスできません。", "", model.ErrForbidden)
	}
	return nil
}
