//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/chargeminder/chargeminder/internal/domain"
	"github.com/chargeminder/chargeminder/internal/pkg/civil"
	subscriptionspostgres "github.com/chargeminder/chargeminder/internal/subscriptions/postgres"
)

// cleanDatabase truncates all mutable tables between tests.
func cleanDatabase(t *testing.T) {
	t.Helper()

	_, err := testDB.Exec(context.Background(),
		`TRUNCATE subscriptions, fx_rates, settings, reminder_log CASCADE`)
	require.NoError(t, err)
}

// insertSubscription creates a subscription directly through the repository.
func insertSubscription(t *testing.T, mutate func(*domain.Subscription)) *domain.Subscription {
	t.Helper()

	now := time.Now().UTC()
	sub := &domain.Subscription{
		ID:             uuid.NewString(),
		Name:           "Test Subscription",
		Amount:         9.99,
		Currency:       "EUR",
		CadenceMonths:  1,
		NextChargeDate: civil.DateOf(now).AddDays(30),
		NotifyEnabled:  true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if mutate != nil {
		mutate(sub)
	}

	repo := subscriptionspostgres.NewRepository(testDB)
	require.NoError(t, repo.Create(context.Background(), sub))
	return sub
}

// doJSON performs an HTTP request against the test server and decodes the
// response body into out (skipped when out is nil).
func doJSON(t *testing.T, method, path string, body any, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, testServer.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// today returns the current UTC date, matching the test app's sweep timezone.
func today() civil.Date {
	return civil.DateOf(time.Now().UTC())
}
