// Package reminders implements the charge reminder engine: a timezone-aware
// daily sweep that selects due subscriptions, deduplicates against a send
// ledger, and delivers notifications through a push gateway.
package reminders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chargeminder/chargeminder/internal/domain"
	"github.com/chargeminder/chargeminder/internal/pkg/civil"
)

// Windows are the fixed reminder lead times, in days before the charge date,
// checked in this order on every sweep.
var Windows = []int{1, 2}

// SubscriptionStore is the subscription query surface the engine consumes.
type SubscriptionStore interface {
	ListActiveByChargeDate(ctx context.Context, date civil.Date) ([]domain.Subscription, error)
}

// RateStore provides the manual FX rate table.
type RateStore interface {
	List(ctx context.Context) ([]domain.FxRate, error)
}

// SettingsStore provides the key/value settings holding gateway config.
type SettingsStore interface {
	GetAll(ctx context.Context) (map[string]string, error)
}

// LedgerStore is the append-only send ledger. Insert returns
// ErrDuplicateEntry when the composite key already exists; uniqueness is
// enforced by the store, not by callers.
type LedgerStore interface {
	Exists(ctx context.Context, subscriptionID string, chargeDate civil.Date, offsetDays int) (bool, error)
	Insert(ctx context.Context, entry *domain.ReminderEntry) error
}

// Runner executes one reminder sweep across all windows.
type Runner struct {
	subs     SubscriptionStore
	rates    RateStore
	settings SettingsStore
	ledger   LedgerStore
	sender   Sender
	loc      *time.Location

	now func() time.Time // overridable in tests
}

// NewRunner creates a reminder sweep runner.
func NewRunner(subs SubscriptionStore, rates RateStore, settings SettingsStore, ledger LedgerStore, sender Sender, loc *time.Location) *Runner {
	return &Runner{
		subs:     subs,
		rates:    rates,
		settings: settings,
		ledger:   ledger,
		sender:   sender,
		loc:      loc,
		now:      time.Now,
	}
}

// Run executes one sweep. It never returns an error: every failure is
// captured in the result's warning list and counters, so the autonomous
// daily run has nothing to surface to a caller.
func (r *Runner) Run(ctx context.Context) *domain.RunResult {
	start := r.now()
	result := &domain.RunResult{
		RanAt:    start,
		Timezone: r.loc.String(),
		Warnings: make([]string, 0),
	}
	warnf := func(format string, args ...any) {
		result.Warnings = append(result.Warnings, fmt.Sprintf(format, args...))
	}

	// Settings and rates are snapshotted once per sweep so every candidate
	// sees the same configuration.
	target, haveTarget := r.resolveTarget(ctx, warnf)
	rates := r.loadRates(ctx, warnf)

	today := civil.DateOf(start.In(r.loc))

	for _, offset := range Windows {
		result.WindowsChecked++
		targetDate := today.AddDays(offset)

		candidates, err := r.subs.ListActiveByChargeDate(ctx, targetDate)
		if err != nil {
			warnf("list subscriptions charging on %s: %v", targetDate, err)
			continue
		}

		for i := range candidates {
			sub := &candidates[i]
			result.Candidates++
			r.processCandidate(ctx, sub, targetDate, offset, target, haveTarget, rates, result, warnf)
		}
	}

	observeSweep(result, r.now().Sub(start))

	slog.Info("reminder sweep finished",
		"today", today.String(),
		"windows", result.WindowsChecked,
		"candidates", result.Candidates,
		"sent", result.Sent,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"warnings", len(result.Warnings),
	)

	return result
}

func (r *Runner) processCandidate(ctx context.Context, sub *domain.Subscription, targetDate civil.Date, offset int, target Target, haveTarget bool, rates map[string]float64, result *domain.RunResult, warnf func(string, ...any)) {
	// Ledger first: already-sent bookkeeping must stay correct even while
	// the gateway is unconfigured.
	sent, err := r.ledger.Exists(ctx, sub.ID, targetDate, offset)
	if err != nil {
		result.Failed++
		warnf("ledger lookup for %q (%s, %d day window): %v", sub.Name, targetDate, offset, err)
		return
	}
	if sent {
		result.Skipped++
		return
	}

	if !haveTarget {
		result.Skipped++
		return
	}

	title, body := renderReminder(sub, offset, rates)
	if err := r.sender.Send(ctx, target, title, body); err != nil {
		result.Failed++
		recordReminder("failed")
		warnf("send reminder for %q (%s, %d day window): %v", sub.Name, targetDate, offset, err)
		return
	}

	entry := &domain.ReminderEntry{
		SubscriptionID: sub.ID,
		Kind:           domain.ReminderKindCharge,
		ChargeDate:     targetDate,
		OffsetDays:     offset,
		SentAt:         r.now(),
	}
	if err := r.ledger.Insert(ctx, entry); err != nil {
		if errors.Is(err, ErrDuplicateEntry) {
			// Lost an insert race; the message went out, so count it sent.
			slog.Debug("reminder already ledgered",
				"subscription_id", sub.ID,
				"charge_date", targetDate.String(),
				"offset_days", offset,
			)
		} else {
			warnf("record reminder for %q (%s, %d day window): %v", sub.Name, targetDate, offset, err)
		}
	}

	result.Sent++
	recordReminder("sent")
}

// resolveTarget snapshots settings and resolves the gateway target. A
// resolution failure is an operator condition, not a per-candidate fault: it
// becomes a warning and all eligible candidates are skipped.
func (r *Runner) resolveTarget(ctx context.Context, warnf func(string, ...any)) (Target, bool) {
	values, err := r.settings.GetAll(ctx)
	if err != nil {
		warnf("load settings: %v", err)
		return Target{}, false
	}

	target, err := ResolveTarget(GatewaySettingsFrom(values))
	if err != nil {
		warnf("notifications disabled for this sweep: %v", err)
		return Target{}, false
	}

	slog.Debug("gateway target resolved", "url", maskTargetURL(target.URL))
	return target, true
}

func (r *Runner) loadRates(ctx context.Context, warnf func(string, ...any)) map[string]float64 {
	all, err := r.rates.List(ctx)
	if err != nil {
		warnf("load fx rates: %v", err)
		return nil
	}

	rates := make(map[string]float64, len(all))
	for _, rate := range all {
		rates[rate.Currency] = rate.RateToEUR
	}
	return rates
}

// Fixed diagnostic message for the test-notification endpoint.
const (
	testTitle = "ChargeMinder"
	testBody  = "Test notification from ChargeMinder."
)

// SendTest sends one diagnostic message, bypassing ledger and candidate
// selection. Unlike the sweep it fails loudly: configuration and delivery
// errors are returned to the caller. When override is nil the stored settings
// are used.
func (r *Runner) SendTest(ctx context.Context, override *GatewaySettings) (Target, error) {
	var gw GatewaySettings
	if override != nil {
		gw = *override
	} else {
		values, err := r.settings.GetAll(ctx)
		if err != nil {
			return Target{}, fmt.Errorf("load settings: %w", err)
		}
		gw = GatewaySettingsFrom(values)
	}

	target, err := ResolveTarget(gw)
	if err != nil {
		return Target{}, err
	}

	if err := r.sender.Send(ctx, target, testTitle, testBody); err != nil {
		return target, err
	}
	return target, nil
}
