package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/CatDevelop/exchange-tochka/internal/db/models"
)

// RegisterRequest is the body of POST /public/register
type RegisterRequest struct {
	Name string `json:"name"`
}

// OkResponse is the generic success response
type OkResponse struct {
	Success bool `json:"success"`
}

// CreateOrderRequest is the body of POST /order.
// A nil price creates a market order.
type CreateOrderRequest struct {
	Direction models.OrderDirection `json:"direction"`
	Ticker    string                `json:"ticker"`
	Qty       int64                 `json:"qty"`
	Price     *int64                `json:"price,omitempty"`
}

// OrderResponse acknowledges an accepted or cancelled order
type OrderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id"`
}

// OrderBody is the original request part of an order detail
type OrderBody struct {
	Direction models.OrderDirection `json:"direction"`
	Ticker    string                `json:"ticker"`
	Qty       int64                 `json:"qty"`
	Price     *int64                `json:"price,omitempty"`
}

// OrderDetailResponse is the full view of one order
type OrderDetailResponse struct {
	ID        string             `json:"id"`
	Status    models.OrderStatus `json:"status"`
	UserID    string             `json:"user_id"`
	Timestamp time.Time          `json:"timestamp"`
	Body      OrderBody          `json:"body"`
	Filled    int64              `json:"filled"`
}

// NewOrderDetailResponse converts an order model into its API view
func NewOrderDetailResponse(order *models.Order) OrderDetailResponse {
	return OrderDetailResponse{
		ID:        order.ID.String(),
		Status:    order.Status,
		UserID:    order.UserID.String(),
		Timestamp: order.CreatedAt,
		Body: OrderBody{
			Direction: order.Direction,
			Ticker:    order.Ticker,
			Qty:       order.Qty,
			Price:     order.Price,
		},
		Filled: order.Filled,
	}
}

// DepositRequest is the body of POST /admin/balance/deposit
type DepositRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Ticker string    `json:"ticker"`
	Amount int64     `json:"amount"`
}

// WithdrawRequest is the body of POST /admin/balance/withdraw
type WithdrawRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Ticker string    `json:"ticker"`
	Amount int64     `json:"amount"`
}
