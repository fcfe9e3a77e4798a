// Package models defines the database entities of the exchange
package models

// CurrencyRUB is the quote currency every instrument trades against
const CurrencyRUB = "RUB"

// ListOptions contains common options for listing queries
type ListOptions struct {
	Limit  int
	Offset int
}

// DefaultListLimit is applied when a listing query does not specify a limit
const DefaultListLimit = 10

// MaxListLimit caps listing queries
const MaxListLimit = 1000
