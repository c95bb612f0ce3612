// Package rates manages manual currency-to-EUR conversion rates.
package rates

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/currency"

	"github.com/chargeminder/chargeminder/internal/domain"
)

// Repository errors.
var (
	ErrNotFound        = errors.New("fx rate not found")
	ErrInvalidCurrency = errors.New("invalid ISO-4217 currency code")
	ErrInvalidRate     = errors.New("rate must be positive")
)

// Repository defines FX rate storage operations.
type Repository interface {
	List(ctx context.Context) ([]domain.FxRate, error)
	Upsert(ctx context.Context, rate *domain.FxRate) error
	Delete(ctx context.Context, code string) error
}

// Service provides FX rate business logic.
type Service struct {
	repo Repository
}

// NewService creates a new rates service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all stored rates.
func (s *Service) List(ctx context.Context) ([]domain.FxRate, error) {
	return s.repo.List(ctx)
}

// Set stores or replaces the rate for a currency.
func (s *Service) Set(ctx context.Context, code string, rateToEUR float64) (*domain.FxRate, error) {
	normalized, err := normalizeCurrency(code)
	if err != nil {
		return nil, err
	}
	if rateToEUR <= 0 {
		return nil, ErrInvalidRate
	}

	rate := &domain.FxRate{Currency: normalized, RateToEUR: rateToEUR}
	if err := s.repo.Upsert(ctx, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

// Delete removes the rate for a currency.
func (s *Service) Delete(ctx context.Context, code string) error {
	normalized, err := normalizeCurrency(code)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, normalized)
}

func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", ErrInvalidCurrency
	}
	return unit.String(), nil
}
