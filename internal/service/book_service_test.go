// internal/service/book_service_test.go
package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBBook(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Book{}))
	return db
}

func TestBookService_PostBook(t *testing.T) {
	ctx := context.Background()
	mentorID := uuid.New()

	validReq := &model.PostBookRequest{
		Title:      "はてしない物語",
		Author:     "ミヒャエル・エンデ",
		Category:   "ファンタジー",
		Difficulty: 3,
	}

	tests := []struct {
		name      string
		setupMock func(m *mocks.BookRepository)
		wantErr   error
	}{
		{
			name: "正常系: 図書を登録できる",
			setupMock: func(m *mocks.BookRepository) {
				m.On("CheckTitleExists", mock.Anything, mock.Anything, validReq.Title, validReq.Author, (*uuid.UUID)(nil)).
					Return(false, nil).Once()
				m.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*model.Book")).
					Return(nil).Once()
			},
		},
		{
			name: "異常系: 同じタイトル・著者が存在する",
			setupMock: func(m *mocks.BookRepository) {
				m.On("CheckTitleExists", mock.Anything, mock.Anything, validReq.Title, validReq.Author, (*uuid.UUID)(nil)).
					Return(true, nil).Once()
			},
			wantErr: model.ErrConflict,
		},
		{
			name: "異常系: 存在確認でDBエラー",
			setupMock: func(m *mocks.BookRepository) {
				m.On("CheckTitleExists", mock.Anything, mock.Anything, validReq.Title, validReq.Author, (*uuid.UUID)(nil)).
					Return(false, errors.New("db error")).Once()
			},
			wantErr: model.ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDBBook(t)
			mockRepo := new(mocks.BookRepository)
			tt.setupMock(mockRepo)
			s := NewBookService(db, mockRepo)

			book, err := s.PostBook(ctx, mentorID, validReq)
			if tt.wantErr != nil {
				require.Error(t, err)
				var appErr *model.AppError
				require.ErrorAs(t, err, &appErr)
				if errors.Is(tt.wantErr, model.ErrConflict) {
					assert.ErrorIs(t, err, model.ErrConflict)
				}
				mockRepo.AssertExpectations(t)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, book)
			assert.Equal(t, validReq.Title, book.Title)
			require.NotNil(t, book.CreatedBy)
			assert.Equal(t, mentorID, *book.CreatedBy)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestBookService_GetBook(t *testing.T) {
	ctx := context.Background()
	bookID := uuid.New()

	t.Run("正常系: 図書を取得できる", func(t *testing.T) {
		db := setupTestDBBook(t)
		mockRepo := new(mocks.BookRepository)
		mockRepo.On("FindByID", mock.Anything, mock.Anything, bookID).
			Return(&model.Book{BookID: bookID, Title: "星の王子さま"}, nil).Once()
		s := NewBookService(db, mockRepo)

		book, err := s.GetBook(ctx, bookID)
		require.NoError(t, err)
		assert.Equal(t, "星の王子さま", book.Title)
		mockRepo.AssertExpectations(t)
	})

	t.Run("異常系: 存在しない図書", func(t *testing.T) {
		db := setupTestDBBook(t)
		mockRepo := new(mocks.BookRepository)
		mockRepo.On("FindByID", mock.Anything, mock.Anything, bookID).
			Return(nil, model.ErrNotFound).Once()
		s := NewBookService(db, mockRepo)

		_, err := s.GetBook(ctx, bookID)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})
}
