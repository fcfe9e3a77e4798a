// Package handlers provides HTTP request handling
package handlers

// Common error messages
const (
	ErrMsgInvalidReqFormat = "Invalid request format"
	ErrMsgInvalidLimit     = "limit must be between 1 and 1000"
	ErrMsgInternal         = "Internal server error"
)

// User error messages
const (
	ErrMsgUserNotFound     = "User not found"
	ErrMsgUserCreateFailed = "Failed to create user"
)

// Instrument error messages
const (
	ErrMsgInstrumentExists   = "Instrument already exists"
	ErrMsgInstrumentNotFound = "Instrument not found"
)

// Order error messages
const (
	ErrMsgOrderNotFound = "Order not found"
	ErrMsgOrderNotOpen  = "Order cannot be cancelled"
)
