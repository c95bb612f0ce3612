package domain

import "time"

// FxRate converts one unit of a currency to EUR. There is at most one rate
// per currency.
type FxRate struct {
	Currency  string
	RateToEUR float64
	UpdatedAt time.Time
}
