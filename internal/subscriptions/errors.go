package subscriptions

import "errors"

// Repository and validation errors.
var (
	ErrNotFound        = errors.New("subscription not found")
	ErrInvalidCurrency = errors.New("invalid ISO-4217 currency code")
	ErrInvalidCadence  = errors.New("cadence must be a positive number of months")
	ErrInvalidAmount   = errors.New("amount must be positive")
)
