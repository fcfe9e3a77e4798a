package models

import (
	"fmt"
	"regexp"
)

var tickerRe = regexp.MustCompile(`^[A-Z]{2,10}$`)

// Instrument represents a tradable asset listed on the exchange
type Instrument struct {
	Ticker string `json:"ticker" gorm:"primaryKey;size:10"`
	Name   string `json:"name" gorm:"not null"`
}

// ValidateTicker checks that a ticker is 2 to 10 uppercase latin letters
func ValidateTicker(ticker string) error {
	if !tickerRe.MatchString(ticker) {
		return fmt.Errorf("invalid ticker: %q", ticker)
	}
	return nil
}

// Validate checks the instrument fields
func (i *Instrument) Validate() error {
	if err := ValidateTicker(i.Ticker); err != nil {
		return err
	}
	if i.Name == "" {
		return fmt.Errorf("instrument name is required")
	}
	return nil
}
