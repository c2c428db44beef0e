// internal/service/auth_service_test.go
package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go_5_read_keep/internal/clock"
	"go_5_read_keep/internal/config"
	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBAuth(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))
	return db
}

func newAuthServiceForTest(db *gorm.DB) (AuthService, *config.Config) {
	cfg := &config.Config{
		App: config.AppConfig{DefaultTimezone: "Europe/Samara"},
		JWT: config.JWTConfig{SecretKey: "test-secret", ExpiryMinutes: 60},
	}
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return NewAuthService(db, repository.NewGormUserRepository(), cfg, clock.Fixed(now)), cfg
}

func TestAuthService_LoginByIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: 初回ログインで生徒として作成される", func(t *testing.T) {
		db := setupTestDBAuth(t)
		s, cfg := newAuthServiceForTest(db)

		name := "たろう"
		resp, err := s.LoginByIdentity(ctx, &model.LoginRequest{Identity: "taro-001", DisplayName: &name})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, model.RoleStudent, resp.User.Role)

		var user model.User
		require.NoError(t, db.Where("identity = ?", "taro-001").First(&user).Error)
		assert.Equal(t, model.RoleStudent, user.Role)
		assert.Equal(t, cfg.App.DefaultTimezone, user.Timezone)

		// トークンにsubとroleが入っている
		// サービスに注入した clock.Fixed と同じ時刻で有効期限を検証する
		token, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWT.SecretKey), nil
		}, jwt.WithTimeFunc(func() time.Time {
			return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
		}))
		require.NoError(t, err)
		claims, ok := token.Claims.(jwt.MapClaims)
		require.True(t, ok)
		assert.Equal(t, user.UserID.String(), claims["sub"])
		assert.Equal(t, string(model.RoleStudent), claims["role"])
	})

	t.Run("正常系: 2回目のログインは同じユーザーを返す", func(t *testing.T) {
		db := setupTestDBAuth(t)
		s, _ := newAuthServiceForTest(db)

		first, err := s.LoginByIdentity(ctx, &model.LoginRequest{Identity: "hanako-001"})
		require.NoError(t, err)
		second, err := s.LoginByIdentity(ctx, &model.LoginRequest{Identity: "hanako-001"})
		require.NoError(t, err)
		assert.Equal(t, first.User.UserID, second.User.UserID)

		var count int64
		require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("正常系: ログインでロールは変わらない", func(t *testing.T) {
		db := setupTestDBAuth(t)
		s, _ := newAuthServiceForTest(db)

		mentor := &model.User{
			UserID:   uuid.New(),
			Identity: "mentor-001",
			Role:     model.RoleMentor,
			Timezone: "Europe/Samara",
		}
		require.NoError(t, db.Create(mentor).Error)

		resp, err := s.LoginByIdentity(ctx, &model.LoginRequest{Identity: "mentor-001"})
		require.NoError(t, err)
		assert.Equal(t, model.RoleMentor, resp.User.Role)
	})

	t.Run("正常系: 表示名の変更が反映される", func(t *testing.T) {
		db := setupTestDBAuth(t)
		s, _ := newAuthServiceForTest(db)

		oldName := "たろう"
		_, err := s.LoginByIdentity(ctx, &model.LoginRequest{Identity: "taro-001", DisplayName: &oldName})
		require.NoError(t, err)

		newName := "たろちゃん"
		resp, err := s.LoginByIdentity(ctx, &model.LoginRequest{Identity: "taro-001", DisplayName: &newName})
		require.NoError(t, err)
		require.NotNil(t, resp.User.DisplayName)
		assert.Equal(t, "たろちゃん", *resp.User.DisplayName)
	})
}
