package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CatDevelop/exchange-tochka/internal/db/models"
)

// ErrInsufficientFunds is returned when an operation needs more of a currency
// or asset than the user has available
var ErrInsufficientFunds = errors.New("insufficient funds")

// lockForUpdate adds row locking on dialects that support it. SQLite, used in
// tests, serializes writers on its own and rejects FOR UPDATE.
func lockForUpdate(tx *gorm.DB, skipLocked bool) *gorm.DB {
	if tx.Dialector.Name() != "postgres" {
		return tx
	}
	l := clause.Locking{Strength: "UPDATE"}
	if skipLocked {
		l.Options = "SKIP LOCKED"
	}
	return tx.Clauses(l)
}

// getBalanceForUpdate loads a balance row with a row lock. A missing row is
// returned as a zero balance.
func getBalanceForUpdate(tx *gorm.DB, userID uuid.UUID, ticker string) (*models.Balance, error) {
	var balance models.Balance
	err := lockForUpdate(tx, false).
		Where("user_id = ? AND ticker = ?", userID, ticker).
		First(&balance).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Balance{UserID: userID, Ticker: ticker}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load balance: %w", err)
	}
	return &balance, nil
}

// creditBalance adds amount to the user's balance, creating the row when it
// does not exist yet
func creditBalance(tx *gorm.DB, userID uuid.UUID, ticker string, amount int64) error {
	res := tx.Model(&models.Balance{}).
		Where("user_id = ? AND ticker = ?", userID, ticker).
		Update("amount", gorm.Expr("amount + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to credit balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		balance := models.Balance{UserID: userID, Ticker: ticker, Amount: amount}
		if err := tx.Create(&balance).Error; err != nil {
			return fmt.Errorf("failed to create balance: %w", err)
		}
	}
	return nil
}

// debitBalance subtracts amount from the user's available balance
func debitBalance(tx *gorm.DB, userID uuid.UUID, ticker string, amount int64) error {
	balance, err := getBalanceForUpdate(tx, userID, ticker)
	if err != nil {
		return err
	}
	if balance.Available() < amount {
		return fmt.Errorf("%w: need %d %s, available %d", ErrInsufficientFunds, amount, ticker, balance.Available())
	}

	err = tx.Model(&models.Balance{}).
		Where("user_id = ? AND ticker = ?", userID, ticker).
		Update("amount", gorm.Expr("amount - ?", amount)).Error
	if err != nil {
		return fmt.Errorf("failed to debit balance: %w", err)
	}
	return nil
}

// blockBalance moves amount from available to blocked, reserving it for an
// open limit order
func blockBalance(tx *gorm.DB, userID uuid.UUID, ticker string, amount int64) error {
	balance, err := getBalanceForUpdate(tx, userID, ticker)
	if err != nil {
		return err
	}
	if balance.Available() < amount {
		return fmt.Errorf("%w: cannot block %d %s, available %d", ErrInsufficientFunds, amount, ticker, balance.Available())
	}

	err = tx.Model(&models.Balance{}).
		Where("user_id = ? AND ticker = ?", userID, ticker).
		Update("blocked", gorm.Expr("blocked + ?", amount)).Error
	if err != nil {
		return fmt.Errorf("failed to block balance: %w", err)
	}
	return nil
}

// unblockBalance releases up to amount from the blocked part of a balance.
// Blocked never goes below zero.
func unblockBalance(tx *gorm.DB, userID uuid.UUID, ticker string, amount int64) error {
	balance, err := getBalanceForUpdate(tx, userID, ticker)
	if err != nil {
		return err
	}
	release := amount
	if release > balance.Blocked {
		release = balance.Blocked
	}
	if release == 0 {
		return nil
	}

	err = tx.Model(&models.Balance{}).
		Where("user_id = ? AND ticker = ?", userID, ticker).
		Update("blocked", gorm.Expr("blocked - ?", release)).Error
	if err != nil {
		return fmt.Errorf("failed to unblock balance: %w", err)
	}
	return nil
}
