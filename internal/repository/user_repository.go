//go:generate mockery --name UserRepository --output ./mocks --outpkg mocks --case=underscore
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

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *model.User) error
	FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.User, error)
	FindByIdentity(ctx context.Context, db *gorm.DB, identity string) (*model.User, error)
	FindByRole(ctx context.Context, db *gorm.DB, role model.UserRole) ([]*model.User, error)
	Update(ctx context.Context, tx *gorm.DB, userID uuid.UUID, updates map[string]interface{}) error
}

type gormUserRepository struct{}

func NewGormUserRepository() UserRepository {
	return &gormUserRepository{}
}

func (r *gormUserRepository) Create(ctx context.Context, tx *gorm.DB, user *model.User) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(user)
	if result.Error != nil {
		logger.Error("Error creating user in DB",
			"error", result.Error,
			"identity", user.Identity,
		)
		return fmt.Errorf("gormUserRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var user model.User
	result := db.WithContext(ctx).Where("user_id = ?", userID).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding user by ID in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormUserRepository.FindByID: %w", result.Error)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByIdentity(ctx context.Context, db *gorm.DB, identity string) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var user model.User
	result := db.WithContext(ctx).Where("identity = ?", identity).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.Debug("User not found by identity", "identity", identity)
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding user by identity in DB",
			"error", result.Error,
			"identity", identity,
		)
		return nil, fmt.Errorf("gormUserRepository.FindByIdentity: %w", result.Error)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByRole(ctx context.Context, db *gorm.DB, role model.UserRole) ([]*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var users []*model.User
	result := db.WithContext(ctx).Where("role = ?", role).Order("created_at ASC").Find(&users)
	if result.Error != nil {
		logger.Error("Error finding users by role in DB",
			"error", result.Error,
			"role", string(role),
		)
		return nil, fmt.Errorf("gormUserRepository.FindByRole: %w", result.Error)
	}
	return users, nil
}

func (r *gormUserRepository) Update(ctx context.Context, tx *gorm.DB, userID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.User{}).Where("user_id = ?", userID).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating user in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return fmt.Errorf("gormUserRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
