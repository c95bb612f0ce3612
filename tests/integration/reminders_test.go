//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargeminder/chargeminder/internal/domain"
)

type runResponse struct {
	Data struct {
		Timezone       string   `json:"timezone"`
		WindowsChecked int      `json:"windows_checked"`
		Candidates     int      `json:"candidates"`
		Sent           int      `json:"sent"`
		Skipped        int      `json:"skipped"`
		Failed         int      `json:"failed"`
		Warnings       []string `json:"warnings"`
	} `json:"data"`
}

func TestRemindersRun_NoGatewayConfigured(t *testing.T) {
	cleanDatabase(t)

	insertSubscription(t, func(s *domain.Subscription) {
		s.Name = "Due Tomorrow"
		s.NextChargeDate = today().AddDays(1)
	})

	var result runResponse
	resp := doJSON(t, http.MethodPost, "/api/v1/reminders/run", nil, &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "UTC", result.Data.Timezone)
	assert.Equal(t, 2, result.Data.WindowsChecked)
	assert.Equal(t, 1, result.Data.Candidates)
	assert.Equal(t, 0, result.Data.Sent)
	assert.Equal(t, 1, result.Data.Skipped)
	assert.Equal(t, 0, result.Data.Failed)
	require.NotEmpty(t, result.Data.Warnings)
	assert.Contains(t, result.Data.Warnings[0], "notifications disabled")

	// Unsent candidates are not ledgered; a later configured sweep still
	// picks them up.
	var count int
	err := testDB.QueryRow(context.Background(), `SELECT COUNT(*) FROM reminder_log`).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRemindersRun_NoCandidates(t *testing.T) {
	cleanDatabase(t)

	var result runResponse
	resp := doJSON(t, http.MethodPost, "/api/v1/reminders/run", nil, &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 0, result.Data.Candidates)
	assert.Equal(t, 0, result.Data.Sent)
}

func TestNotificationsTest_NoConfig(t *testing.T) {
	cleanDatabase(t)

	resp := doJSON(t, http.MethodPost, "/api/v1/notifications/test", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
