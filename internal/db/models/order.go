package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

// Order status constants
const (
	OrderStatusNew               OrderStatus = "NEW"
	OrderStatusPartiallyExecuted OrderStatus = "PARTIALLY_EXECUTED"
	OrderStatusExecuted          OrderStatus = "EXECUTED"
	OrderStatusCancelled         OrderStatus = "CANCELLED"
)

// OrderDirection represents the side of an order
type OrderDirection string

// Order direction constants
const (
	OrderDirectionBuy  OrderDirection = "BUY"
	OrderDirectionSell OrderDirection = "SELL"
)

// Opposite returns the other side of the book
func (d OrderDirection) Opposite() OrderDirection {
	if d == OrderDirectionBuy {
		return OrderDirectionSell
	}
	return OrderDirectionBuy
}

// Order represents a limit or market order. Price is nil for market orders;
// market orders never rest on the book.
type Order struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Status    OrderStatus    `json:"status" gorm:"not null;index"`
	Direction OrderDirection `json:"direction" gorm:"not null"`
	Ticker    string         `json:"ticker" gorm:"not null;size:10;index"`
	Qty       int64          `json:"qty" gorm:"not null"`
	Price     *int64         `json:"price,omitempty"`
	Filled    int64          `json:"filled" gorm:"not null;default:0"`
	CreatedAt time.Time      `json:"timestamp"`
}

// BeforeCreate assigns a UUID before the row is inserted
func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// IsLimit reports whether the order rests on the book when unfilled
func (o *Order) IsLimit() bool {
	return o.Price != nil
}

// IsOpen reports whether the order can still be filled or cancelled
func (o *Order) IsOpen() bool {
	return o.Status == OrderStatusNew || o.Status == OrderStatusPartiallyExecuted
}

// Remaining returns the unfilled quantity
func (o *Order) Remaining() int64 {
	return o.Qty - o.Filled
}

// Validate checks the order fields
func (o *Order) Validate() error {
	if o.Direction != OrderDirectionBuy && o.Direction != OrderDirectionSell {
		return fmt.Errorf("invalid order direction: %q", o.Direction)
	}
	if err := ValidateTicker(o.Ticker); err != nil {
		return err
	}
	if o.Qty < 1 {
		return fmt.Errorf("qty must be greater than or equal to 1")
	}
	if o.Price != nil && *o.Price <= 0 {
		return fmt.Errorf("price must be positive")
	}
	return nil
}
