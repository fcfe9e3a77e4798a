package models

import (
	"github.com/google/uuid"
)

// Balance holds a user's position in a single currency or instrument.
// Amount is the total held; Blocked is the part reserved by open limit
// orders. Amount must stay non-negative and Blocked never exceeds Amount.
type Balance struct {
	UserID  uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey"`
	Ticker  string    `json:"ticker" gorm:"primaryKey;size:10"`
	Amount  int64     `json:"amount" gorm:"not null;default:0;check:amount >= 0"`
	Blocked int64     `json:"blocked" gorm:"not null;default:0;check:blocked >= 0"`
}

// Available returns the part of the balance not reserved by open orders
func (b *Balance) Available() int64 {
	return b.Amount - b.Blocked
}
