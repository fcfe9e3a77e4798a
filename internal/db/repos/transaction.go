package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/CatDevelop/exchange-tochka/internal/db/models"
)

// TransactionRepository handles database reads for trade history
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// GetTransactionsByTicker retrieves the most recent trades of a ticker,
// newest first
func (r *TransactionRepository) GetTransactionsByTicker(ctx context.Context, ticker string, limit int) ([]models.Transaction, error) {
	if limit <= 0 || limit > models.MaxListLimit {
		limit = models.DefaultListLimit
	}

	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("timestamp DESC").
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}
