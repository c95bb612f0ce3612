package reminders

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chargeminder/chargeminder/internal/pkg/httputil"
)

// Handler exposes the reminder engine over HTTP: a manual sweep trigger and a
// test-notification endpoint.
type Handler struct {
	scheduler *Scheduler
	runner    *Runner
}

// NewHandler creates a new reminders handler.
func NewHandler(scheduler *Scheduler, runner *Runner) *Handler {
	return &Handler{scheduler: scheduler, runner: runner}
}

// RegisterRoutes registers the test-notification route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/notifications/test", h.SendTest)
}

// RegisterDevRoutes registers routes that expose engine internals. Kept off
// the router unless dev endpoints are enabled in config.
func (h *Handler) RegisterDevRoutes(r chi.Router) {
	r.Post("/reminders/run", h.Run)
}

// Run handles POST /reminders/run. It triggers a sweep through the scheduler
// so a manual run landing during the daily run shares its result instead of
// double-sending.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	result := h.scheduler.RunNow(r.Context())
	httputil.Success(w, http.StatusOK, result)
}

// TestRequest optionally overrides stored gateway settings for one test send.
type TestRequest struct {
	URL   string `json:"url"`
	Topic string `json:"topic"`
	Token string `json:"token"`
}

// TestResponse reports where the test notification went.
type TestResponse struct {
	Target string `json:"target"`
}

// SendTest handles POST /notifications/test.
func (h *Handler) SendTest(w http.ResponseWriter, r *http.Request) {
	var override *GatewaySettings

	if r.ContentLength != 0 {
		var req TestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if req.URL != "" || req.Topic != "" || req.Token != "" {
			override = &GatewaySettings{URL: req.URL, Topic: req.Topic, Token: req.Token}
		}
	}

	target, err := h.runner.SendTest(r.Context(), override)
	if err != nil {
		var cfgErr *ConfigError
		var delErr *DeliveryError
		switch {
		case errors.As(err, &cfgErr):
			httputil.Error(w, http.StatusBadRequest, cfgErr.Error())
		case errors.As(err, &delErr):
			httputil.Error(w, http.StatusBadGateway, delErr.Error())
		default:
			httputil.HandleError(r.Context(), w, err, nil)
		}
		return
	}

	httputil.Success(w, http.StatusOK, TestResponse{Target: maskTargetURL(target.URL)})
}
