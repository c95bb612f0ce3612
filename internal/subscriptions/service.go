package subscriptions

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"

	"github.com/chargeminder/chargeminder/internal/domain"
	"github.com/chargeminder/chargeminder/internal/pkg/civil"
)

// Service provides subscription business logic.
type Service struct {
	repo Repository
}

// NewService creates a new subscriptions service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput contains data for creating a subscription.
type CreateInput struct {
	Name           string
	Amount         float64
	Currency       string
	CadenceMonths  int
	NextChargeDate civil.Date
	NotifyEnabled  bool
	CancelURL      *string
}

// Create validates the input invariants and stores a new subscription.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Subscription, error) {
	code, err := normalizeCurrency(input.Currency)
	if err != nil {
		return nil, err
	}
	if input.CadenceMonths <= 0 {
		return nil, ErrInvalidCadence
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	now := time.Now()
	sub := &domain.Subscription{
		ID:             uuid.NewString(),
		Name:           input.Name,
		Amount:         input.Amount,
		Currency:       code,
		CadenceMonths:  input.CadenceMonths,
		NextChargeDate: input.NextChargeDate,
		NotifyEnabled:  input.NotifyEnabled,
		Archived:       false,
		CancelURL:      input.CancelURL,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// GetByID returns a single subscription.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all subscriptions, optionally including archived ones.
func (s *Service) List(ctx context.Context, includeArchived bool) ([]domain.Subscription, error) {
	return s.repo.List(ctx, includeArchived)
}

// UpdateInput contains optional fields for a partial subscription update.
// Nil fields are left unchanged; pointers make absence explicit rather than
// relying on zero values.
type UpdateInput struct {
	Name           *string
	Amount         *float64
	Currency       *string
	CadenceMonths  *int
	NextChargeDate *civil.Date
	NotifyEnabled  *bool
	Archived       *bool
	CancelURL      *string
	ClearCancelURL bool
}

// Update applies a partial update to a subscription.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*domain.Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		sub.Name = *input.Name
	}
	if input.Amount != nil {
		if *input.Amount <= 0 {
			return nil, ErrInvalidAmount
		}
		sub.Amount = *input.Amount
	}
	if input.Currency != nil {
		code, err := normalizeCurrency(*input.Currency)
		if err != nil {
			return nil, err
		}
		sub.Currency = code
	}
	if input.CadenceMonths != nil {
		if *input.CadenceMonths <= 0 {
			return nil, ErrInvalidCadence
		}
		sub.CadenceMonths = *input.CadenceMonths
	}
	if input.NextChargeDate != nil {
		sub.NextChargeDate = *input.NextChargeDate
	}
	if input.NotifyEnabled != nil {
		sub.NotifyEnabled = *input.NotifyEnabled
	}
	if input.Archived != nil {
		sub.Archived = *input.Archived
	}
	if input.ClearCancelURL {
		sub.CancelURL = nil
	} else if input.CancelURL != nil {
		sub.CancelURL = input.CancelURL
	}

	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Delete removes a subscription and, via cascade, its ledger entries.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// normalizeCurrency upper-cases and validates an ISO-4217 code.
func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", ErrInvalidCurrency
	}
	return unit.String(), nil
}
