package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CatDevelop/exchange-tochka/internal/db/models"
)

// OrderRepository handles database reads for order entities. Order creation
// and matching run inside a transaction owned by the order service.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new OrderRepository instance
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// GetOrderByID retrieves an order by its ID
func (r *OrderRepository) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", orderID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// GetUserOrders retrieves all orders of a user, newest first
func (r *OrderRepository) GetUserOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

// GetBookOrders retrieves the open priced orders of one side of the book for
// a ticker. Market orders never rest, so only priced rows qualify.
func (r *OrderRepository) GetBookOrders(ctx context.Context, ticker string, direction models.OrderDirection) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("ticker = ? AND direction = ? AND status IN ? AND price IS NOT NULL AND filled < qty",
			ticker, direction,
			[]models.OrderStatus{models.OrderStatusNew, models.OrderStatusPartiallyExecuted}).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get book orders: %w", err)
	}
	return orders, nil
}
