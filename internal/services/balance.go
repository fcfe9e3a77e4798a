package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CatDevelop/exchange-tochka/internal/db/repos"
)

// ErrInvalidAmount is returned for non-positive deposit or withdrawal amounts
var ErrInvalidAmount = errors.New("amount must be positive")

// Balance provides business logic for balance operations
type Balance struct {
	db       *gorm.DB
	repo     *repos.BalanceRepository
	userRepo *repos.UserRepository
}

// NewBalanceService creates a new balance service instance
func NewBalanceService(db *gorm.DB, repo *repos.BalanceRepository, userRepo *repos.UserRepository) *Balance {
	return &Balance{db: db, repo: repo, userRepo: userRepo}
}

// Deposit credits the user's balance
func (s *Balance) Deposit(ctx context.Context, userID uuid.UUID, ticker string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		return errors.Join(ErrUserNotFound, err)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return creditBalance(tx, userID, ticker, amount)
	})
}

// Withdraw debits the user's available balance
func (s *Balance) Withdraw(ctx context.Context, userID uuid.UUID, ticker string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		return errors.Join(ErrUserNotFound, err)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return debitBalance(tx, userID, ticker, amount)
	})
}

// GetUserBalances returns the user's available balance per ticker
func (s *Balance) GetUserBalances(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	balances, err := s.repo.GetUserBalances(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}
	result := make(map[string]int64, len(balances))
	for _, b := range balances {
		result[b.Ticker] = b.Available()
	}
	return result, nil
}
