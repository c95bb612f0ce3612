package reminders

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chargeminder/chargeminder/internal/domain"
	"github.com/chargeminder/chargeminder/internal/pkg/civil"
)

func testSubscription() *domain.Subscription {
	return &domain.Subscription{
		ID:             "sub-1",
		Name:           "Netflix",
		Amount:         120,
		Currency:       "USD",
		CadenceMonths:  12,
		NextChargeDate: civil.Date{Year: 2026, Month: 9, Day: 15},
	}
}

func TestRenderReminder_ForeignCurrencyWithRate(t *testing.T) {
	sub := testSubscription()
	rates := map[string]float64{"USD": 0.92}

	title, body := renderReminder(sub, 1, rates)

	assert.Equal(t, "Netflix", title)
	assert.Equal(t,
		"Netflix is due tomorrow (15/09/2026).\n"+
			"Amount: 120.00 USD (~110.40 EUR)\n"+
			"Per month: 10.00 USD (~9.20 EUR) · Per year: 120.00 USD (~110.40 EUR)",
		body)
}

func TestRenderReminder_ForeignCurrencyWithoutRate(t *testing.T) {
	sub := testSubscription()
	sub.Currency = "JPY"
	sub.Amount = 1500
	sub.CadenceMonths = 1

	_, body := renderReminder(sub, 2, nil)

	assert.Equal(t,
		"Netflix is due in 2 days (15/09/2026).\n"+
			"Amount: 1,500.00 JPY (~n/a EUR)\n"+
			"Per month: 1,500.00 JPY (~n/a EUR) · Per year: 18,000.00 JPY (~n/a EUR)",
		body)
}

func TestRenderReminder_EUR(t *testing.T) {
	sub := testSubscription()
	sub.Currency = "EUR"
	sub.Amount = 9.99
	sub.CadenceMonths = 1

	_, body := renderReminder(sub, 1, map[string]float64{"EUR": 1})

	assert.Equal(t,
		"Netflix is due tomorrow (15/09/2026).\n"+
			"Amount: 9.99 EUR\n"+
			"Per month: 9.99 EUR · Per year: 119.88 EUR",
		body)
}

func TestRenderReminder_CancelURL(t *testing.T) {
	cancel := "https://netflix.example.com/cancel"
	sub := testSubscription()
	sub.Currency = "EUR"
	sub.CancelURL = &cancel

	_, body := renderReminder(sub, 1, nil)

	assert.Contains(t, body, "\nCancel: https://netflix.example.com/cancel")
}

func TestRenderReminder_NoCancelLineWhenUnset(t *testing.T) {
	sub := testSubscription()

	_, body := renderReminder(sub, 1, nil)

	assert.NotContains(t, body, "Cancel:")
}
