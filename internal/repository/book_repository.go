//go:generate mockery --name BookRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_5_read_keep/internal/middleware"
	"go_5_read_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookRepository interface {
	Create(ctx context.Context, tx *gorm.DB, book *model.Book) error
	FindByID(ctx context.Context, db *gorm.DB, bookID uuid.UUID) (*model.Book, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*model.Book, error)
	Update(ctx context.Context, tx *gorm.DB, bookID uuid.UUID, updates map[string]interface{}) error
	CheckTitleExists(ctx context.Context, db *gorm.DB, title, author string, excludeBookID *uuid.UUID) (bool, error)
}

type gormBookRepository struct{}

func NewGormBookRepository() BookRepository {
	return &gormBookRepository{}
}

func (r *gormBookRepository) Create(ctx context.Context, tx *gorm.DB, book *model.Book) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(book)
	if result.Error != nil {
		logger.Error("Error creating book in DB",
			"error", result.Error,
			"title", book.Title,
		)
		return fmt.Errorf("gormBookRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormBookRepository) FindByID(ctx context.Context, db *gorm.DB, bookID uuid.UUID) (*model.Book, error) {
	logger := middleware.GetLogger(ctx)
	var book model.Book
	result := db.WithContext(ctx).Where("book_id = ?", bookID).First(&book)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding book by ID in DB",
			"error", result.Error,
			"book_id", bookID.String(),
		)
		return nil, fmt.Errorf("gormBookRepository.FindByID: %w", result.Error)
	}
	return &book, nil
}

func (r *gormBookRepository) FindAll(ctx context.Context, db *gorm.DB) ([]*model.Book, error) {
	logger := middleware.GetLogger(ctx)
	var books []*model.Book
	result := db.WithContext(ctx).Order("created_at DESC").Find(&books)
	if result.Error != nil {
		logger.Error("Error finding books in DB", "error", result.Error)
		return nil, fmt.Errorf("gormBookRepository.FindAll: %w", result.Error)
	}
	return books, nil
}

func (r *gormBookRepository) Update(ctx context.Context, tx *gorm.DB, bookID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Book{}).Where("book_id = ?", bookID).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating book in DB",
			"error", result.Error,
			"book_id", bookID.String(),
		)
		return fmt.Errorf("gormBookRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormBookRepository) CheckTitleExists(ctx context.Context, db *gorm.DB, title, author string, excludeBookID *uuid.UUID) (bool, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	query := db.WithContext(ctx).Model(&model.Book{}).Where("title = ? AND author = ?", title, author)
	if excludeBookID != nil {
		query = query.Where("book_id != ?", *excludeBookID)
	}
	result := query.Count(&count)
	if result.Error != nil {
		logger.Error("Error checking book title existence in DB",
			"error", result.Error,
			"title", title,
		)
		return false, fmt.Errorf("gormBookRepository.CheckTitleExists: %w", result.Error)
	}
	return count > 0, nil
}
