package settings

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chargeminder/chargeminder/internal/pkg/httputil"
)

const redactedValue = "********"

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrNotFound, Status: http.StatusNotFound, Message: "setting not found"},
	{Error: ErrInvalidKey, Status: http.StatusBadRequest},
}

// Handler handles HTTP requests for the settings module.
type Handler struct {
	service *Service
}

// NewHandler creates a new settings handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers settings routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.List)
		r.Put("/{key}", h.Set)
		r.Delete("/{key}", h.Delete)
	})
}

// SetSettingRequest represents request body for storing a setting.
type SetSettingRequest struct {
	Value string `json:"value"`
}

// SettingResponse is the JSON form of a setting. Credential values are
// redacted.
type SettingResponse struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// List handles GET /settings.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.List(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	out := make([]SettingResponse, 0, len(all))
	for _, s := range all {
		value := s.Value
		if IsSecret(s.Key) && value != "" {
			value = redactedValue
		}
		out = append(out, SettingResponse{
			Key:       s.Key,
			Value:     value,
			UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
		})
	}
	httputil.Success(w, http.StatusOK, out)
}

// Set handles PUT /settings/{key}.
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	var req SetSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	key := chi.URLParam(r, "key")
	if err := h.service.Set(r.Context(), key, req.Value); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	value := req.Value
	if IsSecret(key) && value != "" {
		value = redactedValue
	}
	httputil.Success(w, http.StatusOK, SettingResponse{Key: key, Value: value})
}

// Delete handles DELETE /settings/{key}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
