// Package postgres provides the PostgreSQL implementation of the rates
// repository.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chargeminder/chargeminder/internal/domain"
	"github.com/chargeminder/chargeminder/internal/rates"
)

// Repository implements rates.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// List returns all stored rates ordered by currency code.
func (r *Repository) List(ctx context.Context) ([]domain.FxRate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT currency, rate_to_eur, updated_at
		FROM fx_rates
		ORDER BY currency ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	defer rows.Close()

	all := make([]domain.FxRate, 0)
	for rows.Next() {
		var rate domain.FxRate
		if err := rows.Scan(&rate.Currency, &rate.RateToEUR, &rate.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		all = append(all, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rates: %w", err)
	}
	return all, nil
}

// Upsert stores or replaces the rate for a currency.
func (r *Repository) Upsert(ctx context.Context, rate *domain.FxRate) error {
	query := `
		INSERT INTO fx_rates (currency, rate_to_eur, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (currency) DO UPDATE
		SET rate_to_eur = EXCLUDED.rate_to_eur, updated_at = NOW()
		RETURNING updated_at
	`
	if err := r.db.QueryRow(ctx, query, rate.Currency, rate.RateToEUR).Scan(&rate.UpdatedAt); err != nil {
		return fmt.Errorf("upsert rate: %w", err)
	}
	return nil
}

// Delete removes the rate for a currency.
func (r *Repository) Delete(ctx context.Context, code string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM fx_rates WHERE currency = $1`, code)
	if err != nil {
		return fmt.Errorf("delete rate: %w", err)
	}

	if result.RowsAffected() == 0 {
		return rates.ErrNotFound
	}
	return nil
}
