//go:generate mockery --name RecapRepository --output ./mocks --outpkg mocks --case=underscore
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

type RecapRepository interface {
	Create(ctx context.Context, tx *gorm.DB, recap *model.Recap) error
	FindByAssignment(ctx context.Context, db *gorm.DB, assignmentID uuid.UUID) (*model.Recap, error)
	Update(ctx context.Context, tx *gorm.DB, recap *model.Recap) error
}

type gormRecapRepository struct{}

func NewGormRecapRepository() RecapRepository {
	return &gormRecapRepository{}
}

func (r *gormRecapRepository) Create(ctx context.Context, tx *gorm.DB, recap *model.Recap) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(recap)
	if result.Error != nil {
		logger.Error("Error creating recap in DB",
			"error", result.Error,
			"assignment_id", recap.AssignmentID.String(),
		)
		return fmt.Errorf("gormRecapRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormRecapRepository) FindByAssignment(ctx context.Context, db *gorm.DB, assignmentID uuid.UUID) (*model.Recap, error) {
	logger := middleware.GetLogger(ctx)
	var recap model.Recap
	result := db.WithContext(ctx).Where("assignment_id = ?", assignmentID).First(&recap)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding recap by assignment in DB",
			"error", result.Error,
			"assignment_id", assignmentID.String(),
		)
		return nil, fmt.Errorf("gormRecapRepository.FindByAssignment: %w", result.Error)
	}
	return &recap, nil
}

func (r *gormRecapRepository) Update(ctx context.Context, tx *gorm.DB, recap *model.Recap) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Save(recap)
	if result.Error != nil {
		logger.Error("Error updating recap in DB",
			"error", result.Error,
			"recap_id", recap.RecapID.String(),
		)
		return fmt.Errorf("gormRecapRepository.Update: %w", result.Error)
	}
	return nil
}
