package rates

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/chargeminder/chargeminder/internal/pkg/httputil"
)

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrNotFound, Status: http.StatusNotFound, Message: "fx rate not found"},
	{Error: ErrInvalidCurrency, Status: http.StatusBadRequest},
	{Error: ErrInvalidRate, Status: http.StatusBadRequest},
}

// Handler handles HTTP requests for the rates module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new rates handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers FX rate routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/rates", func(r chi.Router) {
		r.Get("/", h.List)
		r.Put("/{currency}", h.Set)
		r.Delete("/{currency}", h.Delete)
	})
}

// SetRateRequest represents request body for setting a rate.
type SetRateRequest struct {
	RateToEUR float64 `json:"rate_to_eur" validate:"required,gt=0"`
}

// RateResponse is the JSON form of an FX rate.
type RateResponse struct {
	Currency  string  `json:"currency"`
	RateToEUR float64 `json:"rate_to_eur"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

// List handles GET /rates.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.List(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	out := make([]RateResponse, 0, len(all))
	for _, rate := range all {
		out = append(out, RateResponse{
			Currency:  rate.Currency,
			RateToEUR: rate.RateToEUR,
			UpdatedAt: rate.UpdatedAt.Format(time.RFC3339),
		})
	}
	httputil.Success(w, http.StatusOK, out)
}

// Set handles PUT /rates/{currency}.
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	var req SetRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	rate, err := h.service.Set(r.Context(), chi.URLParam(r, "currency"), req.RateToEUR)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, RateResponse{
		Currency:  rate.Currency,
		RateToEUR: rate.RateToEUR,
	})
}

// Delete handles DELETE /rates/{currency}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "currency")); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
