package reminders

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/chargeminder/chargeminder/internal/domain"
)

const eurCode = "EUR"

var printer = message.NewPrinter(language.English)

// renderReminder builds the notification title and plain-text body for one
// reminder candidate. rates maps currency codes to their EUR multiplier;
// a missing rate renders the EUR figure as "n/a".
func renderReminder(sub *domain.Subscription, offsetDays int, rates map[string]float64) (title, body string) {
	var due string
	switch offsetDays {
	case 1:
		due = "due tomorrow"
	default:
		due = fmt.Sprintf("due in %d days", offsetDays)
	}

	monthly := sub.EffectiveMonthly()
	yearly := sub.EffectiveYearly()

	var b strings.Builder
	fmt.Fprintf(&b, "%s is %s (%s).\n", sub.Name, due, sub.NextChargeDate.Display())

	if sub.Currency == eurCode {
		fmt.Fprintf(&b, "Amount: %s EUR\n", formatAmount(sub.Amount))
		fmt.Fprintf(&b, "Per month: %s EUR · Per year: %s EUR",
			formatAmount(monthly), formatAmount(yearly))
	} else {
		rate, ok := rates[sub.Currency]
		fmt.Fprintf(&b, "Amount: %s %s%s\n",
			formatAmount(sub.Amount), sub.Currency, eurEquivalent(sub.Amount, rate, ok))
		fmt.Fprintf(&b, "Per month: %s %s%s · Per year: %s %s%s",
			formatAmount(monthly), sub.Currency, eurEquivalent(monthly, rate, ok),
			formatAmount(yearly), sub.Currency, eurEquivalent(yearly, rate, ok))
	}

	if sub.CancelURL != nil && *sub.CancelURL != "" {
		fmt.Fprintf(&b, "\nCancel: %s", *sub.CancelURL)
	}

	return sub.Name, b.String()
}

func formatAmount(v float64) string {
	return printer.Sprintf("%.2f", v)
}

func eurEquivalent(v, rate float64, ok bool) string {
	if !ok {
		return " (~n/a EUR)"
	}
	return printer.Sprintf(" (~%.2f EUR)", v*rate)
}
