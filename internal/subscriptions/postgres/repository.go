// Package postgres provides the PostgreSQL implementation of the
// subscriptions repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chargeminder/chargeminder/internal/domain"
	"github.com/chargeminder/chargeminder/internal/pkg/civil"
	"github.com/chargeminder/chargeminder/internal/subscriptions"
)

// Repository implements subscriptions.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const subscriptionColumns = `id, name, amount, currency, cadence_months, next_charge_date,
	notify_enabled, archived, cancel_url, created_at, updated_at`

// Create inserts a new subscription.
func (r *Repository) Create(ctx context.Context, sub *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, name, amount, currency, cadence_months, next_charge_date,
			notify_enabled, archived, cancel_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		sub.ID,
		sub.Name,
		sub.Amount,
		sub.Currency,
		sub.CadenceMonths,
		dateParam(sub.NextChargeDate),
		sub.NotifyEnabled,
		sub.Archived,
		sub.CancelURL,
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

// GetByID retrieves a subscription by ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`

	sub, err := scanSubscription(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, subscriptions.ErrNotFound
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return sub, nil
}

// List retrieves all subscriptions, optionally including archived ones.
func (r *Repository) List(ctx context.Context, includeArchived bool) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions`
	if !includeArchived {
		query += ` WHERE NOT archived`
	}
	query += ` ORDER BY next_charge_date ASC, created_at ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

// ListActiveByChargeDate returns reminder-eligible subscriptions charging on
// the given date, in stable order.
func (r *Repository) ListActiveByChargeDate(ctx context.Context, date civil.Date) ([]domain.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE NOT archived AND notify_enabled AND next_charge_date = $1
		ORDER BY next_charge_date ASC, created_at ASC
	`
	rows, err := r.db.Query(ctx, query, dateParam(date))
	if err != nil {
		return nil, fmt.Errorf("list subscriptions by charge date: %w", err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

// Update rewrites all mutable subscription fields.
func (r *Repository) Update(ctx context.Context, sub *domain.Subscription) error {
	query := `
		UPDATE subscriptions
		SET name = $2, amount = $3, currency = $4, cadence_months = $5, next_charge_date = $6,
			notify_enabled = $7, archived = $8, cancel_url = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		sub.ID,
		sub.Name,
		sub.Amount,
		sub.Currency,
		sub.CadenceMonths,
		dateParam(sub.NextChargeDate),
		sub.NotifyEnabled,
		sub.Archived,
		sub.CancelURL,
	).Scan(&sub.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return subscriptions.ErrNotFound
		}
		return fmt.Errorf("update subscription: %w", err)
	}
	return nil
}

// Delete removes a subscription. Ledger entries go with it via cascade.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}

	if result.RowsAffected() == 0 {
		return subscriptions.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (*domain.Subscription, error) {
	var sub domain.Subscription
	var chargeDate time.Time

	err := row.Scan(
		&sub.ID,
		&sub.Name,
		&sub.Amount,
		&sub.Currency,
		&sub.CadenceMonths,
		&chargeDate,
		&sub.NotifyEnabled,
		&sub.Archived,
		&sub.CancelURL,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	sub.NextChargeDate = civil.DateOf(chargeDate)
	return &sub, nil
}

func collectSubscriptions(rows pgx.Rows) ([]domain.Subscription, error) {
	subs := make([]domain.Subscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}
	return subs, nil
}

// dateParam converts a civil date to the midnight UTC instant pgx maps onto
// a DATE column.
func dateParam(d civil.Date) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}
