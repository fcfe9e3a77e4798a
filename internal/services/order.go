// Package services provides the business logic of the exchange
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CatDevelop/exchange-tochka/internal/db/models"
	"github.com/CatDevelop/exchange-tochka/internal/db/repos"
	"github.com/CatDevelop/exchange-tochka/internal/logger"
)

// Order service errors
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderNotOpen      = errors.New("order is not open")
	ErrUnknownInstrument = errors.New("unknown instrument")
)

// Order provides business logic for order operations, including the matching
// engine
type Order struct {
	db             *gorm.DB
	orderRepo      *repos.OrderRepository
	instrumentRepo *repos.InstrumentRepository
}

// NewOrderService creates a new order service instance
func NewOrderService(db *gorm.DB, orderRepo *repos.OrderRepository, instrumentRepo *repos.InstrumentRepository) *Order {
	return &Order{
		db:             db,
		orderRepo:      orderRepo,
		instrumentRepo: instrumentRepo,
	}
}

// CreateOrderInput describes an incoming limit or market order.
// A nil Price means a market order.
type CreateOrderInput struct {
	UserID    uuid.UUID
	Direction models.OrderDirection
	Ticker    string
	Qty       int64
	Price     *int64
}

// CreateOrder validates, matches and persists an incoming order. All book
// mutations and settlements run in one database transaction.
//
// When the user lacks funds for a limit buy or any sell, a CANCELLED order is
// still persisted and returned together with ErrInsufficientFunds, mirroring
// the audit trail the exchange keeps for rejected orders.
func (s *Order) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	order := &models.Order{
		ID:        uuid.New(),
		UserID:    in.UserID,
		Status:    models.OrderStatusNew,
		Direction: in.Direction,
		Ticker:    in.Ticker,
		Qty:       in.Qty,
		Price:     in.Price,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.instrumentRepo.GetInstrument(ctx, in.Ticker); err != nil {
		return nil, errors.Join(ErrUnknownInstrument, err)
	}

	var rejection error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rejection = nil

		if err := s.checkFunds(tx, order); errors.Is(err, ErrInsufficientFunds) {
			// Persist the rejected order for the audit trail and stop
			order.Status = models.OrderStatusCancelled
			rejection = err
			return tx.Create(order).Error
		} else if err != nil {
			return err
		}

		res, err := matchBook(tx, order)
		if err != nil {
			return err
		}

		if err := s.settleTaker(tx, order, res); err != nil {
			return err
		}

		order.Filled = res.Filled
		order.Status = finalStatus(order, res.Filled)

		if order.IsLimit() && res.Filled < order.Qty {
			if err := s.blockRemainder(tx, order); err != nil {
				return err
			}
		}

		return tx.Create(order).Error
	})
	if err != nil {
		logger.Errorf("failed to create order: %v", err)
		return nil, err
	}
	if rejection != nil {
		return order, rejection
	}

	logger.InfoWithFields("order created", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
		"filled":   order.Filled,
	})
	return order, nil
}

// checkFunds verifies the taker can cover the order: RUB for a limit buy,
// the asset for any sell. Market buys are settled against whatever the match
// costs and checked at debit time.
func (s *Order) checkFunds(tx *gorm.DB, order *models.Order) error {
	switch {
	case order.Direction == models.OrderDirectionBuy && order.IsLimit():
		required := order.Qty * *order.Price
		balance, err := getBalanceForUpdate(tx, order.UserID, models.CurrencyRUB)
		if err != nil {
			return err
		}
		if balance.Available() < required {
			return fmt.Errorf("%w: need %d RUB, available %d", ErrInsufficientFunds, required, balance.Available())
		}
	case order.Direction == models.OrderDirectionSell:
		balance, err := getBalanceForUpdate(tx, order.UserID, order.Ticker)
		if err != nil {
			return err
		}
		if balance.Available() < order.Qty {
			return fmt.Errorf("%w: need %d %s, available %d", ErrInsufficientFunds, order.Qty, order.Ticker, balance.Available())
		}
	}
	return nil
}

// settleTaker moves the matched value to and from the incoming order's owner
func (s *Order) settleTaker(tx *gorm.DB, order *models.Order, res fillResult) error {
	if res.Filled == 0 {
		return nil
	}
	if order.Direction == models.OrderDirectionBuy {
		if err := creditBalance(tx, order.UserID, order.Ticker, res.Filled); err != nil {
			return err
		}
		return debitBalance(tx, order.UserID, models.CurrencyRUB, res.Money)
	}
	if err := debitBalance(tx, order.UserID, order.Ticker, res.Filled); err != nil {
		return err
	}
	return creditBalance(tx, order.UserID, models.CurrencyRUB, res.Money)
}

// blockRemainder reserves the unfilled part of a limit order on the taker's
// balance
func (s *Order) blockRemainder(tx *gorm.DB, order *models.Order) error {
	remaining := order.Qty - order.Filled
	if order.Direction == models.OrderDirectionBuy {
		return blockBalance(tx, order.UserID, models.CurrencyRUB, remaining * *order.Price)
	}
	return blockBalance(tx, order.UserID, order.Ticker, remaining)
}

// finalStatus derives the status of an incoming order after matching.
// Market orders never rest: an unmatched market order is cancelled.
func finalStatus(order *models.Order, filled int64) models.OrderStatus {
	switch {
	case filled == order.Qty:
		return models.OrderStatusExecuted
	case filled > 0:
		return models.OrderStatusPartiallyExecuted
	case order.IsLimit():
		return models.OrderStatusNew
	default:
		return models.OrderStatusCancelled
	}
}

// CancelOrder cancels an open order of the given user and releases the
// remaining reservation of a limit order
func (s *Order) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx, false).First(&order, "id = ?", orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load order: %w", err)
		}
		if order.UserID != userID {
			return ErrOrderNotFound
		}
		if !order.IsOpen() {
			return fmt.Errorf("%w: status %s", ErrOrderNotOpen, order.Status)
		}

		if order.IsLimit() && order.Remaining() > 0 {
			if order.Direction == models.OrderDirectionBuy {
				if err := unblockBalance(tx, order.UserID, models.CurrencyRUB, order.Remaining() * *order.Price); err != nil {
					return err
				}
			} else {
				if err := unblockBalance(tx, order.UserID, order.Ticker, order.Remaining()); err != nil {
					return err
				}
			}
		}

		order.Status = models.OrderStatusCancelled
		return tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("status", models.OrderStatusCancelled).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder retrieves an order owned by the given user
func (s *Order) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, errors.Join(ErrOrderNotFound, err)
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders retrieves all orders of the given user, newest first
func (s *Order) ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.orderRepo.GetUserOrders(ctx, userID)
}
