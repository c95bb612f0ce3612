package reminders

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(settings map[string]string, sender *mockSender) *Handler {
	runner := newTestRunner(&mockSubscriptionStore{}, &mockSettingsStore{values: settings}, newMockLedger(), sender)
	scheduler := NewScheduler(runner, time.UTC, runAt)
	return NewHandler(scheduler, runner)
}

func TestHandler_SendTest_NoConfig(t *testing.T) {
	h := newTestHandler(map[string]string{}, &mockSender{})

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/notifications/test", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "gateway configuration")
}

func TestHandler_SendTest_WithOverride(t *testing.T) {
	sender := &mockSender{}
	h := newTestHandler(map[string]string{}, sender)

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	body := `{"url": "https://override.example.com", "topic": "probe"}`
	req := httptest.NewRequest(http.MethodPost, "/notifications/test", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "https://override.example.com/probe", sender.sent[0].target.URL)
}

func TestHandler_SendTest_DeliveryFailure(t *testing.T) {
	sender := &mockSender{failFor: map[string]error{
		testTitle: &DeliveryError{Status: 500, Body: "boom"},
	}}
	h := newTestHandler(gatewayValues(), sender)

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/notifications/test", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "gateway returned 500")
}

func TestHandler_Run(t *testing.T) {
	h := newTestHandler(gatewayValues(), &mockSender{})

	r := chi.NewRouter()
	h.RegisterDevRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/reminders/run", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"windows_checked":2`)
	assert.Contains(t, rec.Body.String(), `"timezone":"UTC"`)
}
