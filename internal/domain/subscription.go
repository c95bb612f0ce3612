package domain

import (
	"time"

	"github.com/chargeminder/chargeminder/internal/pkg/civil"
)

// Subscription is a recurring charge tracked by the service.
type Subscription struct {
	ID             string
	Name           string
	Amount         float64
	Currency       string // ISO-4217 code
	CadenceMonths  int    // billing period length, always > 0
	NextChargeDate civil.Date
	NotifyEnabled  bool
	Archived       bool
	CancelURL      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EffectiveMonthly returns the subscription cost normalized to one month.
func (s Subscription) EffectiveMonthly() float64 {
	return s.Amount / float64(s.CadenceMonths)
}

// EffectiveYearly returns the subscription cost normalized to one year.
func (s Subscription) EffectiveYearly() float64 {
	return s.EffectiveMonthly() * 12
}
