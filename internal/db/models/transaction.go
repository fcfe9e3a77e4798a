package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction records one fill against a resting order. UserID is the owner
// of the resting order and Price is the resting order's price.
type Transaction struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Ticker    string    `json:"ticker" gorm:"not null;size:10;index"`
	Amount    int64     `json:"amount" gorm:"not null"`
	Price     int64     `json:"price" gorm:"not null"`
	Timestamp time.Time `json:"timestamp"`
}

// BeforeCreate assigns a UUID and timestamp before the row is inserted
func (t *Transaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now().UTC()
	}
	return nil
}
