// Package postgres provides the PostgreSQL implementation of the reminder
// send ledger.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chargeminder/chargeminder/internal/domain"
	"github.com/chargeminder/chargeminder/internal/pkg/civil"
	"github.com/chargeminder/chargeminder/internal/reminders"
)

// Repository implements reminders.LedgerStore using PostgreSQL. Dedup is
// enforced by the reminder_log_once unique constraint, so concurrent sweeps
// cannot both record the same reminder.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Exists reports whether a charge reminder is already ledgered for the given
// subscription, charge date and window.
func (r *Repository) Exists(ctx context.Context, subscriptionID string, chargeDate civil.Date, offsetDays int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reminder_log
			WHERE subscription_id = $1 AND kind = $2 AND charge_date = $3 AND offset_days = $4
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query,
		subscriptionID, domain.ReminderKindCharge, dateParam(chargeDate), offsetDays,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check reminder log: %w", err)
	}
	return exists, nil
}

// Insert records one sent reminder. Returns reminders.ErrDuplicateEntry when
// the entry is already present.
func (r *Repository) Insert(ctx context.Context, entry *domain.ReminderEntry) error {
	query := `
		INSERT INTO reminder_log (subscription_id, kind, charge_date, offset_days, sent_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT reminder_log_once DO NOTHING
	`

	result, err := r.db.Exec(ctx, query,
		entry.SubscriptionID, entry.Kind, dateParam(entry.ChargeDate), entry.OffsetDays, entry.SentAt,
	)
	if err != nil {
		return fmt.Errorf("insert reminder log: %w", err)
	}

	if result.RowsAffected() == 0 {
		return reminders.ErrDuplicateEntry
	}
	return nil
}

// dateParam converts a civil date to the midnight-UTC timestamp pgx encodes
// as a DATE parameter.
func dateParam(d civil.Date) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}
