//go:generate mockery --name StudentBookRepository --output ./mocks --outpkg mocks --case=underscore
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

type StudentBookRepository interface {
	Create(ctx context.Context, tx *gorm.DB, sb *model.StudentBook) error
	FindByID(ctx context.Context, db *gorm.DB, studentBookID uuid.UUID) (*model.StudentBook, error)
	FindActiveByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (*model.StudentBook, error)
	FindByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.StudentBook, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, studentBookID uuid.UUID, status model.StudentBookStatus, endDate *string) error
}

type gormStudentBookRepository struct{}

func NewGormStudentBookRepository() StudentBookRepository {
	return &gormStudentBookRepository{}
}

func (r *gormStudentBookRepository) Create(ctx context.Context, tx *gorm.DB, sb *model.StudentBook) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(sb)
	if result.Error != nil {
		logger.Error("Error creating student book in DB",
			"error", result.Error,
			"student_id", sb.StudentID.String(),
			"book_id", sb.BookID.String(),
		)
		return fmt.Errorf("gormStudentBookRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormStudentBookRepository) FindByID(ctx context.Context, db *gorm.DB, studentBookID uuid.UUID) (*model.StudentBook, error) {
	logger := middleware.GetLogger(ctx)
	var sb model.StudentBook
	result := db.WithContext(ctx).Preload("Book").Where("student_book_id = ?", studentBookID).First(&sb)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding student book by ID in DB",
			"error", result.Error,
			"student_book_id", studentBookID.String(),
		)
		return nil, fmt.Errorf("gormStudentBookRepository.FindByID: %w", result.Error)
	}
	return &sb, nil
}

func (r *gormStudentBookRepository) FindActiveByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (*model.StudentBook, error) {
	logger := middleware.GetLogger(ctx)
	var sb model.StudentBook
	result := db.WithContext(ctx).Preload("Book").
		Where("student_id = ? AND status = ?", studentID, model.StudentBookActive).
		Order("created_at DESC").
		First(&sb)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.Debug("No active student book", "student_id", studentID.String())
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding active student book in DB",
			"error", result.Error,
			"student_id", studentID.String(),
		)
		return nil, fmt.Errorf("gormStudentBookRepository.FindActiveByStudent: %w", result.Error)
	}
	return &sb, nil
}

func (r *gormStudentBookRepository) FindByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.StudentBook, error) {
	logger := middleware.GetLogger(ctx)
	var sbs []*model.StudentBook
	result := db.WithContext(ctx).Preload("Book").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&sbs)
	if result.Error != nil {
		logger.Error("Error finding student books in DB",
			"error", result.Error,
			"student_id", studentID.String(),
		)
		return nil, fmt.Errorf("gormStudentBookRepository.FindByStudent: %w", result.Error)
	}
	return sbs, nil
}

func (r *gormStudentBookRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, studentBookID uuid.UUID, status model.StudentBookStatus, endDate *string) error {
	logger := middleware.GetLogger(ctx)
	updates := map[string]interface{}{"status": status}
	if endDate != nil {
		updates["end_date"] = *endDate
	}
	result := tx.WithContext(ctx).Model(&model.StudentBook{}).
		Where("student_book_id = ?", studentBookID).
		Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating student book status in DB",
			"error", result.Error,
			"student_book_id", studentBookID.String(),
		)
		return fmt.Errorf("gormStudentBookRepository.UpdateStatus: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
