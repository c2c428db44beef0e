// internal/service/action_log_service.go
package service

import (
	"context"

	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActionLogService interface {
	Record(ctx context.Context, userID uuid.UUID, req *model.PostActionLogRequest) (*model.ActionLog, error)
}

type actionLogService struct {
	db            *gorm.DB
	actionLogRepo repository.ActionLogRepository
}

func NewActionLogService(db *gorm.DB, actionLogRepo repository.ActionLogRepository) ActionLogService {
	return &actionLogService{db: db, actionLogRepo: actionLogRepo}
}

func (s *actionLogService) Record(ctx context.Context, userID uuid.UUID, req *model.PostActionLogRequest) (*model.ActionLog, error) {
	entry := &model.ActionLog{
		LogID:    uuid.New(),
		UserID:   userID,
		Action:   req.Action,
		Metadata: req.Metadata,
	}
	if err := s.actionLogRepo.Create(ctx, s.db, entry); err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "操作ログの記録に失敗しました。", "", err)
	}
	return entry, nil
}
