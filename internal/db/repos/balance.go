package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CatDevelop/exchange-tochka/internal/db/models"
)

// BalanceRepository handles database reads for balance entities.
// Balance mutations run inside the order transaction and live in the
// services layer.
type BalanceRepository struct {
	db *gorm.DB
}

// NewBalanceRepository creates a new BalanceRepository instance
func NewBalanceRepository(db *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// GetBalance retrieves a single balance row. A missing row is returned as a
// zero balance, not an error.
func (r *BalanceRepository) GetBalance(ctx context.Context, userID uuid.UUID, ticker string) (*models.Balance, error) {
	var balance models.Balance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND ticker = ?", userID, ticker).
		First(&balance).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Balance{UserID: userID, Ticker: ticker}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return &balance, nil
}

// GetUserBalances retrieves all balance rows of a user
func (r *BalanceRepository) GetUserBalances(ctx context.Context, userID uuid.UUID) ([]models.Balance, error) {
	var balances []models.Balance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("ticker").
		Find(&balances).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}
	return balances, nil
}
