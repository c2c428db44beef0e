// internal/service/auth_service.go
//go:generate mockery --name AuthService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"time"

	"go_5_read_keep/internal/clock"
	"go_5_read_keep/internal/config"
	"go_5_read_keep/internal/middleware"
	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService interface {
	LoginByIdentity(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type authService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	cfg      *config.Config
	clock    clock.Clock
}

func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, cfg *config.Config, clk clock.Clock) AuthService {
	return &authService{
		db:       db,
		userRepo: userRepo,
		cfg:      cfg,
		clock:    clk,
	}
}

// LoginByIdentity は外部IDによるログインです。ユーザーが存在しなければ
// student ロールで作成し（upsert-by-identity）、存在すればそのまま使います。
// Role は初回作成時に決まり、ここでは決して変更しません。
func (s *authService) LoginByIdentity(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	logger := middleware.GetLogger(ctx)

	var user *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.userRepo.FindByIdentity(ctx, tx, req.Identity)
		if err != nil {
			if !errors.Is(err, model.ErrNotFound) {
				logger.Error("Error finding user by identity", "error", err)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "ログイン処理中にエラーが発生しました。", "", err)
			}
			// 初回ログイン: 生徒として作成
			newUser := &model.User{
				UserID:      uuid.New(),
				Identity:    req.Identity,
				Role:        model.RoleStudent,
				DisplayName: req.DisplayName,
				Timezone:    s.cfg.App.DefaultTimezone,
			}
			if createErr := s.userRepo.Create(ctx, tx, newUser); createErr != nil {
				logger.Error("Error creating user on first login", "error", createErr)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザーの作成に失敗しました。", "", createErr)
			}
			logger.Info("User created on first login", "user_id", newUser.UserID, "identity", newUser.Identity)
			user = newUser
			return nil
		}

		// 表示名が変わっていれば追従する
		if req.DisplayName != nil && (found.DisplayName == nil || *found.DisplayName != *req.DisplayName) {
			updates := map[string]interface{}{"display_name": *req.DisplayName}
			if updateErr := s.userRepo.Update(ctx, tx, found.UserID, updates); updateErr != nil {
				logger.Error("Error updating display name on login", "error", updateErr)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザー情報の更新に失敗しました。", "", updateErr)
			}
			found.DisplayName = req.DisplayName
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		logger.Error("Error issuing JWT", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "トークンの発行に失敗しました。", "", err)
	}

	logger.Info("User logged in", "user_id", user.UserID, "role", string(user.Role))
	return &model.LoginResponse{
		AccessToken: token,
		User:        user.ToResponse(),
	}, nil
}

func (s *authService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザーの取得に失敗しました。", "", err)
	}
	return user, nil
}

func (s *authService) issueToken(user *model.User) (string, error) {
	now := s.clock.Now()
	claims := jwt.MapClaims{
		"sub":  user.UserID.String(),
		"role": string(user.Role),
		"iat":  jwt.NewNumericDate(now),
		"exp":  jwt.NewNumericDate(now.Add(time.Duration(s.cfg.JWT.ExpiryMinutes) * time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.SecretKey))
}
