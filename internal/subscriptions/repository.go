// Package subscriptions provides CRUD for tracked recurring charges.
package subscriptions

import (
	"context"

	"github.com/chargeminder/chargeminder/internal/domain"
	"github.com/chargeminder/chargeminder/internal/pkg/civil"
)

// Repository defines subscription storage operations.
type Repository interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	GetByID(ctx context.Context, id string) (*domain.Subscription, error)
	List(ctx context.Context, includeArchived bool) ([]domain.Subscription, error)
	Update(ctx context.Context, sub *domain.Subscription) error
	Delete(ctx context.Context, id string) error

	// ListActiveByChargeDate returns non-archived subscriptions with
	// reminders enabled whose next charge date equals date, ordered by
	// charge date ascending then creation time ascending.
	ListActiveByChargeDate(ctx context.Context, date civil.Date) ([]domain.Subscription, error)
}
