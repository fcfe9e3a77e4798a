package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/CatDevelop/exchange-tochka/internal/db/models"
	"github.com/CatDevelop/exchange-tochka/internal/logger"
)

// fillResult aggregates what an incoming order took from the book
type fillResult struct {
	// Filled is the total matched quantity
	Filled int64
	// Money is the RUB exchanged, valued at the resting orders' prices
	Money int64
}

// matchBook fills an incoming order against the opposite side of the book
// inside the caller's transaction. Resting orders are taken best price first,
// oldest first; rows are locked with SKIP LOCKED so concurrent matchers do
// not deadlock. Each fill settles the resting side immediately and records a
// Transaction carrying the resting user's id and price. The taker side is
// settled in aggregate by the caller.
func matchBook(tx *gorm.DB, incoming *models.Order) (fillResult, error) {
	var result fillResult

	side := incoming.Direction.Opposite()
	query := tx.
		Where("ticker = ? AND direction = ? AND status IN ? AND price IS NOT NULL AND filled < qty",
			incoming.Ticker, side,
			[]models.OrderStatus{models.OrderStatusNew, models.OrderStatusPartiallyExecuted})

	// Price-compatible resting orders only, best price first. The id tiebreak
	// keeps lock acquisition order stable across concurrent matchers.
	if side == models.OrderDirectionSell {
		if incoming.IsLimit() {
			query = query.Where("price <= ?", *incoming.Price)
		}
		query = query.Order("price ASC, created_at ASC, id ASC")
	} else {
		if incoming.IsLimit() {
			query = query.Where("price >= ?", *incoming.Price)
		}
		query = query.Order("price DESC, created_at ASC, id ASC")
	}

	var resting []models.Order
	if err := lockForUpdate(query, true).Find(&resting).Error; err != nil {
		return result, fmt.Errorf("failed to load book orders: %w", err)
	}

	for i := range resting {
		rest := &resting[i]

		toFill := incoming.Qty - result.Filled
		if rest.Remaining() < toFill {
			toFill = rest.Remaining()
		}
		if toFill <= 0 {
			continue
		}

		price := *rest.Price
		cost := toFill * price

		rest.Filled += toFill
		status := models.OrderStatusPartiallyExecuted
		if rest.Filled == rest.Qty {
			status = models.OrderStatusExecuted
		}
		err := tx.Model(&models.Order{}).
			Where("id = ?", rest.ID).
			Updates(map[string]interface{}{"filled": rest.Filled, "status": status}).Error
		if err != nil {
			return result, fmt.Errorf("failed to update resting order: %w", err)
		}

		if err := settleRestingFill(tx, rest, toFill, cost); err != nil {
			return result, err
		}

		trade := models.Transaction{
			UserID: rest.UserID,
			Ticker: rest.Ticker,
			Amount: toFill,
			Price:  price,
		}
		if err := tx.Create(&trade).Error; err != nil {
			return result, fmt.Errorf("failed to record trade: %w", err)
		}

		logger.DebugWithFields("matched resting order", map[string]interface{}{
			"order_id": rest.ID,
			"qty":      toFill,
			"price":    price,
		})

		result.Filled += toFill
		result.Money += cost

		if result.Filled == incoming.Qty {
			break
		}
	}

	return result, nil
}

// settleRestingFill releases the resting order's reservation for the filled
// part and moves the exchanged value to and from its owner
func settleRestingFill(tx *gorm.DB, rest *models.Order, qty, cost int64) error {
	if rest.Direction == models.OrderDirectionSell {
		// Seller gives the asset, receives RUB
		if err := unblockBalance(tx, rest.UserID, rest.Ticker, qty); err != nil {
			return err
		}
		if err := debitBalance(tx, rest.UserID, rest.Ticker, qty); err != nil {
			return err
		}
		return creditBalance(tx, rest.UserID, models.CurrencyRUB, cost)
	}

	// Buyer gives RUB, receives the asset
	if err := unblockBalance(tx, rest.UserID, models.CurrencyRUB, cost); err != nil {
		return err
	}
	if err := debitBalance(tx, rest.UserID, models.CurrencyRUB, cost); err != nil {
		return err
	}
	return creditBalance(tx, rest.UserID, rest.Ticker, qty)
}
