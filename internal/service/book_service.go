//go:generate mockery --name BookService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"

	"go_5_read_keep/internal/middleware"
	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookService interface {
	PostBook(ctx context.Context, mentorID uuid.UUID, req *model.PostBookRequest) (*model.Book, error)
	GetBook(ctx context.Context, bookID uuid.UUID) (*model.Book, error)
	GetBooks(ctx context.Context) ([]*model.Book, error)
	PutBook(ctx context.Context, bookID uuid.UUID, req *model.PutBookRequest) (*model.Book, error)
}

type bookService struct {
	db       *gorm.DB
	bookRepo repository.BookRepository
}

func NewBookService(db *gorm.DB, bookRepo repository.BookRepository) BookService {
	return &bookService{db: db, bookRepo: bookRepo}
}

func (s *bookService) PostBook(ctx context.Context, mentorID uuid.UUID, req *model.PostBookRequest) (*model.Book, error) {
	logger := middleware.GetLogger(ctx)

	book := &model.Book{
		BookID:      uuid.New(),
		Title:       req.Title,
		Author:      req.Author,
		Category:    req.Category,
		Difficulty:  req.Difficulty,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		SourceURL:   req.SourceURL,
		CreatedBy:   &mentorID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, checkErr := s.bookRepo.CheckTitleExists(ctx, tx, req.Title, req.Author, nil)
		if checkErr != nil {
			logger.Error("Error checking book title existence", "error", checkErr)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "図書の登録中にエラーが発生しました。", "", checkErr)
		}
		if exists {
			return model.NewAppError("DUPLICATE_BOOK", "同じタイトル・著者の図書がすでに登録されています。", "title", model.ErrConflict)
		}
		if createErr := s.bookRepo.Create(ctx, tx, book); createErr != nil {
			logger.Error("Error creating book", "error", createErr)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "図書の登録に失敗しました。", "", createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Book created", "book_id", book.BookID, "title", book.Title)
	return book, nil
}

func (s *bookService) GetBook(ctx context.Context, bookID uuid.UUID) (*model.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, s.db, bookID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NOT_FOUND", "図書が見つかりません。", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "図書の取得に失敗しました。", "", err)
	}
	return book, nil
}

func (s *bookService) GetBooks(ctx context.Context) ([]*model.Book, error) {
	books, err := s.bookRepo.FindAll(ctx, s.db)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "図書一覧の取得に失敗しました。", "", err)
	}
	return books, nil
}

func (s *bookService) PutBook(ctx context.Context, bookID uuid.UUID, req *model.PutBookRequest) (*model.Book, error) {
	logger := middleware.GetLogger(ctx)

	var book *model.Book
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, findErr := s.bookRepo.FindByID(ctx, tx, bookID)
		if findErr != nil {
			if errors.Is(findErr, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "図書が見つかりません。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "図書の取得に失敗しました。", "", findErr)
		}

		exists, checkErr := s.bookRepo.CheckTitleExists(ctx, tx, req.Title, req.Author, &bookID)
		if checkErr != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "図書の更新中にエラーが発生しました。", "", checkErr)
		}
		if exists {
			return model.NewAppError("DUPLICATE_BOOK", "同じタイトル・著者の図書がすでに登録されています。", "title", model.ErrConflict)
		}

		updates := map[string]interface{}{
			"title":       req.Title,
			"author":      req.Author,
			"category":    req.Category,
			"difficulty":  req.Difficulty,
			"description": req.Description,
			"cover_url":   req.CoverURL,
			"source_url":  req.SourceURL,
		}
		if updateErr := s.bookRepo.Update(ctx, tx, bookID, updates); updateErr != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "図書の更新に失敗しました。", "", updateErr)
		}

		found.Title = req.Title
		found.Author = req.Author
		found.Category = req.Category
		found.Difficulty = req.Difficulty
		found.Description = req.Description
		found.CoverURL = req.CoverURL
		found.SourceURL = req.SourceURL
		book = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Book updated", "book_id", bookID)
	return book, nil
}
