// internal/handlers/book_handler_test.go
package handlers_test

import (
	"bytes"
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

	"go_5_read_keep/internal/handlers"
	"go_5_read_keep/internal/middleware"
	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/service/mocks"
)

func newBookTestRouter(t *testing.T) (*mocks.MockBookService, *chi.Mux) {
	t.Helper()
	mockBookService := mocks.NewMockBookService(t)
	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bookHandler := handlers.NewBookHandler(mockBookService, testLogger)

	router := chi.NewRouter()
	router.Use(middleware.DevUserContextMiddleware) // 開発用認証ミドルウェア
	router.Post("/api/v1/books", bookHandler.PostBook)
	router.Get("/api/v1/books", bookHandler.GetBooks)
	router.Get("/api/v1/books/{book_id}", bookHandler.GetBook)
	return mockBookService, router
}

func TestBookHandler_PostBook(t *testing.T) {
	mentorID := uuid.New()

	validReqBody := model.PostBookRequest{
		Title:      "はてしない物語",
		Author:     "ミヒャエル・エンデ",
		Category:   "ファンタジー",
		Difficulty: 3,
	}
	expectedBook := &model.Book{
		BookID:     uuid.New(),
		Title:      validReqBody.Title,
		Author:     validReqBody.Author,
		Category:   validReqBody.Category,
		Difficulty: validReqBody.Difficulty,
		CreatedBy:  &mentorID,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	tests := []struct {
		name           string
		userID         *uuid.UUID
		body           interface{}
		setupMock      func(m *mocks.MockBookService)
		expectedStatus int
	}{
		{
			name:   "正常系: 図書を登録できる",
			userID: &mentorID,
			body:   validReqBody,
			setupMock: func(m *mocks.MockBookService) {
				m.On("PostBook", mock.Anything, mentorID, &validReqBody).
					Return(expectedBook, nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "異常系: 認証ヘッダーなし",
			userID:         nil,
			body:           validReqBody,
			setupMock:      func(m *mocks.MockBookService) { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "異常系: 必須フィールド欠落",
			userID:         &mentorID,
			body:           map[string]interface{}{"title": "タイトルだけ"},
			setupMock:      func(m *mocks.MockBookService) { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "異常系: 難易度が範囲外",
			userID:         &mentorID,
			body:           map[string]interface{}{"title": "t", "author": "a", "category": "c", "difficulty": 9},
			setupMock:      func(m *mocks.MockBookService) { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "異常系: 重複タイトルはconflict",
			userID: &mentorID,
			body:   validReqBody,
			setupMock: func(m *mocks.MockBookService) {
				m.On("PostBook", mock.Anything, mentorID, &validReqBody).
					Return(nil, model.NewAppError("DUPLICATE_BOOK", "同じタイトル・著者の図書がすでに登録されています。", "title", model.ErrConflict)).Once()
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBookService, router := newBookTestRouter(t)
			tt.setupMock(mockBookService)

			bodyBytes, err := json.Marshal(tt.body)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/books", bytes.NewReader(bodyBytes))
			req.Header.Set("Content-Type", "application/json")
			if tt.userID != nil {
				req.Header.Set("X-User-ID", tt.userID.String())
				req.Header.Set("X-User-Role", string(model.RoleMentor))
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusCreated {
				var got model.Book
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, expectedBook.BookID, got.BookID)
				assert.Equal(t, expectedBook.Title, got.Title)
			}
		})
	}
}

func TestBookHandler_GetBook(t *testing.T) {
	userID := uuid.New()
	bookID := uuid.New()
	expectedBook := &model.Book{
		BookID:     bookID,
		Title:      "星の王子さま",
		Author:     "サン＝テグジュペリ",
		Category:   "児童文学",
		Difficulty: 2,
	}

	tests := []struct {
		name           string
		path           string
		setupMock      func(m *mocks.MockBookService)
		expectedStatus int
	}{
		{
			name: "正常系: 図書を取得できる",
			path: fmt.Sprintf("/api/v1/books/%s", bookID),
			setupMock: func(m *mocks.MockBookService) {
				m.On("GetBook", mock.Anything, bookID).Return(expectedBook, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "異常系: 存在しない図書",
			path: fmt.Sprintf("/api/v1/books/%s", bookID),
			setupMock: func(m *mocks.MockBookService) {
				m.On("GetBook", mock.Anything, bookID).
					Return(nil, model.NewAppError("NOT_FOUND", "図書が見つかりません。", "", model.ErrNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "異常系: UUIDでないパスパラメータ",
			path:           "/api/v1/books/not-a-uuid",
			setupMock:      func(m *mocks.MockBookService) { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBookService, router := newBookTestRouter(t)
			tt.setupMock(mockBookService)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("X-User-ID", userID.String())

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
