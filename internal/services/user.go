package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/CatDevelop/exchange-tochka/internal/db/models"
	"github.com/CatDevelop/exchange-tochka/internal/db/repos"
)

// User provides business logic for user operations
type User struct {
	repo *repos.UserRepository
}

// User service errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserCreateFailed = errors.New("failed to create user")
)

// NewUserService creates a new user service instance
func NewUserService(repo *repos.UserRepository) *User {
	return &User{repo: repo}
}

// Register creates a new user with a freshly generated API key
func (s *User) Register(ctx context.Context, name string) (*models.User, error) {
	if name == "" {
		return nil, errors.Join(ErrUserCreateFailed, errors.New("name is required"))
	}
	user := &models.User{
		Name: name,
		Role: models.UserRoleUser,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, errors.Join(ErrUserCreateFailed, err)
	}
	return user, nil
}

// GetUserByAPIKey retrieves a user by API key
func (s *User) GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	user, err := s.repo.GetUserByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, errors.Join(ErrUserNotFound, err)
	}
	return user, nil
}

// ListUsers retrieves registered users with pagination
func (s *User) ListUsers(ctx context.Context, opts *models.ListOptions) ([]models.User, error) {
	return s.repo.GetUsers(ctx, opts)
}

// GetUserByID retrieves a user by id
func (s *User) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.Join(ErrUserNotFound, err)
	}
	return user, nil
}

// DeleteUser deletes a user and returns the deleted profile
func (s *User) DeleteUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.DeleteUser(ctx, userID)
	if err != nil {
		return nil, errors.Join(ErrUserNotFound, err)
	}
	return user, nil
}
