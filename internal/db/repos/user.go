// Package repos contains the database access layer of the exchange
package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CatDevelop/exchange-tochka/internal/db/models"
)

// UserRepository handles database operations for user entities
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser creates a new user in the database
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetUserByID retrieves a user by their ID.
// Returns gorm.ErrRecordNotFound wrapped if the user doesn't exist.
func (r *UserRepository) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByAPIKey retrieves a user by their API key.
// Returns gorm.ErrRecordNotFound wrapped if no user holds the key.
func (r *UserRepository) GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("api_key = ?", apiKey).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUsers retrieves users with pagination
func (r *UserRepository) GetUsers(ctx context.Context, opts *models.ListOptions) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Limit(opts.Limit).Offset(opts.Offset).
		Find(&users).Error
	return users, err
}

// DeleteUser deletes a user and returns the deleted row
func (r *UserRepository) DeleteUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}
	return user, nil
}
