//go:generate mockery --name AssignmentRepository --output ./mocks --outpkg mocks --case=underscore
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

type AssignmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, assignment *model.Assignment) error
	FindByID(ctx context.Context, db *gorm.DB, assignmentID uuid.UUID) (*model.Assignment, error)
	FindByStudentBookAndDate(ctx context.Context, db *gorm.DB, studentBookID uuid.UUID, date string) (*model.Assignment, error)
	FindByStudentBookRange(ctx context.Context, db *gorm.DB, studentBookID uuid.UUID, fromDate, toDate string) ([]*model.Assignment, error)
	FindByStudentBookSince(ctx context.Context, db *gorm.DB, studentBookID uuid.UUID, sinceDate string) ([]*model.Assignment, error)
	Update(ctx context.Context, tx *gorm.DB, assignmentID uuid.UUID, updates map[string]interface{}) error
}

type gormAssignmentRepository struct{}

func NewGormAssignmentRepository() AssignmentRepository {
	return &gormAssignmentRepository{}
}

func (r *gormAssignmentRepository) Create(ctx context.Context, tx *gorm.DB, assignment *model.Assignment) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(assignment)
	if result.Error != nil {
		// (student_book_id, date) の一意制約違反は競合として返す
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.ErrConflict
		}
		logger.Error("Error creating assignment in DB",
			"error", result.Error,
			"student_book_id", assignment.StudentBookID.String(),
			"date", assignment.Date,
		)
		return fmt.Errorf("gormAssignmentRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormAssignmentRepository) FindByID(ctx context.Context, db *gorm.DB, assignmentID uuid.UUID) (*model.Assignment, error) {
	logger := middleware.GetLogger(ctx)
	var assignment model.Assignment
	result := db.WithContext(ctx).Preload("Recap").Where("assignment_id = ?", assignmentID).First(&assignment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding assignment by ID in DB",
			"error", result.Error,
			"assignment_id", assignmentID.String(),
		)
		return nil, fmt.Errorf("gormAssignmentRepository.FindByID: %w", result.Error)
	}
	return &assignment, nil
}

func (r *gormAssignmentRepository) FindByStudentBookAndDate(ctx context.Context, db *gorm.DB, studentBookID uuid.UUID, date string) (*model.Assignment, error) {
	logger := middleware.GetLogger(ctx)
	var assignment model.Assignment
	result := db.WithContext(ctx).
		Where("student_book_id = ? AND date = ?", studentBookID, date).
		First(&assignment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding assignment by date in DB",
			"error", result.Error,
			"student_book_id", studentBookID.String(),
			"date", date,
		)
		return nil, fmt.Errorf("gormAssignmentRepository.FindByStudentBookAndDate: %w", result.Error)
	}
	return &assignment, nil
}

func (r *gormAssignmentRepository) FindByStudentBookRange(ctx context.Context, db *gorm.DB, studentBookID uuid.UUID, fromDate, toDate string) ([]*model.Assignment, error) {
	logger := middleware.GetLogger(ctx)
	var assignments []*model.Assignment
	result := db.WithContext(ctx).Preload("Recap").
		Where("student_book_id = ? AND date >= ? AND date <= ?", studentBookID, fromDate, toDate).
		Order("date ASC").
		Find(&assignments)
	if result.Error != nil {
		logger.Error("Error finding assignments by range in DB",
			"error", result.Error,
			"student_book_id", studentBookID.String(),
		)
		return nil, fmt.Errorf("gormAssignmentRepository.FindByStudentBookRange: %w", result.Error)
	}
	return assignments, nil
}

func (r *gormAssignmentRepository) FindByStudentBookSince(ctx context.Context, db *gorm.DB, studentBookID uuid.UUID, sinceDate string) ([]*model.Assignment, error) {
	logger := middleware.GetLogger(ctx)
	var assignments []*model.Assignment
	result := db.WithContext(ctx).Preload("Recap").
		Where("student_book_id = ? AND date >= ?", studentBookID, sinceDate).
		Order("date ASC").
		Find(&assignments)
	if result.Error != nil {
		logger.Error("Error finding assignments since date in DB",
			"error", result.Error,
			"student_book_id", studentBookID.String(),
			"since", sinceDate,
		)
		return nil, fmt.Errorf("gormAssignmentRepository.FindByStudentBookSince: %w", result.Error)
	}
	return assignments, nil
}

func (r *gormAssignmentRepository) Update(ctx context.Context, tx *gorm.DB, assignmentID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Assignment{}).
		Where("assignment_id = ?", assignmentID).
		Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating assignment in DB",
			"error", result.Error,
			"assignment_id", assignmentID.String(),
		)
		return fmt.Errorf("gormAssignmentRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
