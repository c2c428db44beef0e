// internal/handlers/streak_handler_test.go
package handlers_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go_5_read_keep/internal/config"
	"go_5_read_keep/internal/handlers"
	"go_5_read_keep/internal/middleware"
	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/service/mocks"
)

func newStreakTestRouter(t *testing.T) (*mocks.MockStreakService, *mocks.MockAuthService, *chi.Mux) {
	t.Helper()
	mockStreakService := mocks.NewMockStreakService(t)
	mockAuthService := mocks.NewMockAuthService(t)
	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		App: config.AppConfig{DefaultTimezone: "Europe/Samara"},
	}
	streakHandler := handlers.NewStreakHandler(mockStreakService, mockAuthService, cfg, testLogger)

	router := chi.NewRouter()
	router.Use(middleware.DevUserContextMiddleware) // 開発用認証ミドルウェア
	router.Get("/api/v1/students/{student_id}/streak", streakHandler.GetStreak)
	return mockStreakService, mockAuthService, router
}

// タイムゾーンの期待値マッチャ
func locationNamed(name string) interface{} {
	return mock.MatchedBy(func(loc *time.Location) bool {
		return loc != nil && loc.String() == name
	})
}

func TestStreakHandler_GetStreak(t *testing.T) {
	studentID := uuid.New()

	t.Run("正常系: 生徒のタイムゾーンでストリークを返す", func(t *testing.T) {
		mockStreakService, mockAuthService, router := newStreakTestRouter(t)
		mockAuthService.On("GetUser", mock.Anything, studentID).
			Return(&model.User{UserID: studentID, Role: model.RoleStudent, Timezone: "Asia/Tokyo"}, nil).Once()
		mockStreakService.On("GetStreak", mock.Anything, studentID, locationNamed("Asia/Tokyo")).
			Return(&model.StreakResponse{Current: 3, Best: 5}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/students/%s/streak", studentID), nil)
		req.Header.Set("X-User-ID", uuid.New().String())
		req.Header.Set("X-User-Role", string(model.RoleMentor))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got model.StreakResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, 3, got.Current)
		assert.Equal(t, 5, got.Best)
	})

	t.Run("正常系: 生徒が見つからなければデフォルトタイムゾーンにフォールバック", func(t *testing.T) {
		mockStreakService, mockAuthService, router := newStreakTestRouter(t)
		mockAuthService.On("GetUser", mock.Anything, studentID).
			Return(nil, model.ErrNotFound).Once()
		mockStreakService.On("GetStreak", mock.Anything, studentID, locationNamed("Europe/Samara")).
			Return(&model.StreakResponse{Current: 0, Best: 0}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/students/%s/streak", studentID), nil)
		req.Header.Set("X-User-ID", uuid.New().String())
		req.Header.Set("X-User-Role", string(model.RoleMentor))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("異常系: 生徒は他の生徒のストリークを見られない", func(t *testing.T) {
		_, _, router := newStreakTestRouter(t)

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/students/%s/streak", studentID), nil)
		req.Header.Set("X-User-ID", uuid.New().String())
		req.Header.Set("X-User-Role", string(model.RoleStudent))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("異常系: student_idがUUIDでない", func(t *testing.T) {
		_, _, router := newStreakTestRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/students/not-a-uuid/streak", nil)
		req.Header.Set("X-User-ID", uuid.New().String())
		req.Header.Set("X-User-Role", string(model.RoleMentor))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
