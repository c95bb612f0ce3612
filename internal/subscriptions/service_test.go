package subscriptions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargeminder/chargeminder/internal/domain"
	"github.com/chargeminder/chargeminder/internal/pkg/civil"
)

type mockRepository struct {
	subs    map[string]*domain.Subscription
	created []*domain.Subscription
}

func newMockRepository() *mockRepository {
	return &mockRepository{subs: make(map[string]*domain.Subscription)}
}

func (m *mockRepository) Create(_ context.Context, sub *domain.Subscription) error {
	m.created = append(m.created, sub)
	m.subs[sub.ID] = sub
	return nil
}

func (m *mockRepository) GetByID(_ context.Context, id string) (*domain.Subscription, error) {
	sub, ok := m.subs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *sub
	return &copied, nil
}

func (m *mockRepository) List(_ context.Context, includeArchived bool) ([]domain.Subscription, error) {
	out := make([]domain.Subscription, 0, len(m.subs))
	for _, sub := range m.subs {
		if sub.Archived && !includeArchived {
			continue
		}
		out = append(out, *sub)
	}
	return out, nil
}

func (m *mockRepository) ListActiveByChargeDate(_ context.Context, date civil.Date) ([]domain.Subscription, error) {
	out := make([]domain.Subscription, 0)
	for _, sub := range m.subs {
		if !sub.Archived && sub.NotifyEnabled && sub.NextChargeDate.Equal(date) {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (m *mockRepository) Update(_ context.Context, sub *domain.Subscription) error {
	if _, ok := m.subs[sub.ID]; !ok {
		return ErrNotFound
	}
	copied := *sub
	m.subs[sub.ID] = &copied
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.subs[id]; !ok {
		return ErrNotFound
	}
	delete(m.subs, id)
	return nil
}

func validInput() CreateInput {
	return CreateInput{
		Name:           "Netflix",
		Amount:         12.99,
		Currency:       "eur",
		CadenceMonths:  1,
		NextChargeDate: civil.Date{Year: 2026, Month: 9, Day: 15},
		NotifyEnabled:  true,
	}
}

func TestService_Create(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	sub, err := service.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, "EUR", sub.Currency, "currency code is normalized to upper case")
	assert.False(t, sub.Archived)
	assert.False(t, sub.CreatedAt.IsZero())
	require.Len(t, repo.created, 1)
}

func TestService_Create_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*CreateInput)
		expected error
	}{
		{
			name:     "unknown currency",
			mutate:   func(in *CreateInput) { in.Currency = "XYZ" },
			expected: ErrInvalidCurrency,
		},
		{
			name:     "zero cadence",
			mutate:   func(in *CreateInput) { in.CadenceMonths = 0 },
			expected: ErrInvalidCadence,
		},
		{
			name:     "negative amount",
			mutate:   func(in *CreateInput) { in.Amount = -5 },
			expected: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewService(newMockRepository())

			input := validInput()
			tt.mutate(&input)

			_, err := service.Create(context.Background(), input)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestService_Update_Partial(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	sub, err := service.Create(context.Background(), validInput())
	require.NoError(t, err)

	newAmount := 15.99
	archived := true
	updated, err := service.Update(context.Background(), sub.ID, UpdateInput{
		Amount:   &newAmount,
		Archived: &archived,
	})
	require.NoError(t, err)

	assert.Equal(t, 15.99, updated.Amount)
	assert.True(t, updated.Archived)
	assert.Equal(t, "Netflix", updated.Name, "untouched fields keep their values")
	assert.Equal(t, sub.NextChargeDate, updated.NextChargeDate)
}

func TestService_Update_ClearCancelURL(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	cancel := "https://example.com/cancel"
	input := validInput()
	input.CancelURL = &cancel

	sub, err := service.Create(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, sub.CancelURL)

	updated, err := service.Update(context.Background(), sub.ID, UpdateInput{ClearCancelURL: true})
	require.NoError(t, err)
	assert.Nil(t, updated.CancelURL)
}

func TestService_Update_NotFound(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.Update(context.Background(), "missing", UpdateInput{})
	assert.ErrorIs(t, err, ErrNotFound)
}
