//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settingsResponse struct {
	Data []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"data"`
}

func TestSettingsAPI_SecretRedaction(t *testing.T) {
	cleanDatabase(t)

	resp := doJSON(t, http.MethodPut, "/api/v1/settings/ntfy_url",
		map[string]string{"value": "https://ntfy.example.com"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, "/api/v1/settings/ntfy_token",
		map[string]string{"value": "tk_supersecret"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed settingsResponse
	resp = doJSON(t, http.MethodGet, "/api/v1/settings", nil, &listed)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	values := make(map[string]string)
	for _, s := range listed.Data {
		values[s.Key] = s.Value
	}
	assert.Equal(t, "https://ntfy.example.com", values["ntfy_url"])
	assert.Equal(t, "********", values["ntfy_token"], "token must never leave the API in clear")
}

func TestRatesAPI_UpsertAndDelete(t *testing.T) {
	cleanDatabase(t)

	resp := doJSON(t, http.MethodPut, "/api/v1/rates/usd",
		map[string]float64{"rate_to_eur": 0.92}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Second PUT replaces the stored rate.
	resp = doJSON(t, http.MethodPut, "/api/v1/rates/USD",
		map[string]float64{"rate_to_eur": 0.94}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed struct {
		Data []struct {
			Currency  string  `json:"currency"`
			RateToEUR float64 `json:"rate_to_eur"`
		} `json:"data"`
	}
	resp = doJSON(t, http.MethodGet, "/api/v1/rates", nil, &listed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, listed.Data, 1)
	assert.Equal(t, "USD", listed.Data[0].Currency)
	assert.Equal(t, 0.94, listed.Data[0].RateToEUR)

	resp = doJSON(t, http.MethodDelete, "/api/v1/rates/USD", nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, "/api/v1/rates/USD", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRatesAPI_RejectsInvalidRate(t *testing.T) {
	cleanDatabase(t)

	resp := doJSON(t, http.MethodPut, "/api/v1/rates/USD",
		map[string]float64{"rate_to_eur": -1}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
