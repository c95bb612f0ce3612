package subscriptions

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/chargeminder/chargeminder/internal/domain"
	"github.com/chargeminder/chargeminder/internal/pkg/civil"
	"github.com/chargeminder/chargeminder/internal/pkg/httputil"
)

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrNotFound, Status: http.StatusNotFound, Message: "subscription not found"},
	{Error: ErrInvalidCurrency, Status: http.StatusBadRequest},
	{Error: ErrInvalidCadence, Status: http.StatusBadRequest},
	{Error: ErrInvalidAmount, Status: http.StatusBadRequest},
}

// Handler handles HTTP requests for the subscriptions module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new subscriptions handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers subscription routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/subscriptions", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// CreateRequest represents request body for creating a subscription.
type CreateRequest struct {
	Name           string  `json:"name" validate:"required"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	Currency       string  `json:"currency" validate:"required,len=3"`
	CadenceMonths  int     `json:"cadence_months" validate:"required,gt=0"`
	NextChargeDate string  `json:"next_charge_date" validate:"required"`
	NotifyEnabled  *bool   `json:"notify_enabled"`
	CancelURL      *string `json:"cancel_url" validate:"omitempty,url"`
}

// UpdateRequest represents request body for a partial subscription update.
type UpdateRequest struct {
	Name           *string  `json:"name"`
	Amount         *float64 `json:"amount" validate:"omitempty,gt=0"`
	Currency       *string  `json:"currency" validate:"omitempty,len=3"`
	CadenceMonths  *int     `json:"cadence_months" validate:"omitempty,gt=0"`
	NextChargeDate *string  `json:"next_charge_date"`
	NotifyEnabled  *bool    `json:"notify_enabled"`
	Archived       *bool    `json:"archived"`
	CancelURL      *string  `json:"cancel_url" validate:"omitempty,url"`
}

// SubscriptionResponse is the JSON form of a subscription.
type SubscriptionResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	CadenceMonths  int     `json:"cadence_months"`
	NextChargeDate string  `json:"next_charge_date"`
	NotifyEnabled  bool    `json:"notify_enabled"`
	Archived       bool    `json:"archived"`
	CancelURL      *string `json:"cancel_url,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func toResponse(sub *domain.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:             sub.ID,
		Name:           sub.Name,
		Amount:         sub.Amount,
		Currency:       sub.Currency,
		CadenceMonths:  sub.CadenceMonths,
		NextChargeDate: sub.NextChargeDate.String(),
		NotifyEnabled:  sub.NotifyEnabled,
		Archived:       sub.Archived,
		CancelURL:      sub.CancelURL,
		CreatedAt:      sub.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      sub.UpdatedAt.Format(time.RFC3339),
	}
}

// List handles GET /subscriptions.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("archived") == "true"

	subs, err := h.service.List(r.Context(), includeArchived)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	out := make([]SubscriptionResponse, 0, len(subs))
	for i := range subs {
		out = append(out, toResponse(&subs[i]))
	}
	httputil.Success(w, http.StatusOK, out)
}

// Get handles GET /subscriptions/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sub, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.Success(w, http.StatusOK, toResponse(sub))
}

// Create handles POST /subscriptions.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	chargeDate, err := civil.ParseDate(req.NextChargeDate)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	notify := true
	if req.NotifyEnabled != nil {
		notify = *req.NotifyEnabled
	}

	sub, err := h.service.Create(r.Context(), CreateInput{
		Name:           req.Name,
		Amount:         req.Amount,
		Currency:       req.Currency,
		CadenceMonths:  req.CadenceMonths,
		NextChargeDate: chargeDate,
		NotifyEnabled:  notify,
		CancelURL:      req.CancelURL,
	})
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusCreated, toResponse(sub))
}

// Update handles PATCH /subscriptions/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	input := UpdateInput{
		Name:          req.Name,
		Amount:        req.Amount,
		Currency:      req.Currency,
		CadenceMonths: req.CadenceMonths,
		NotifyEnabled: req.NotifyEnabled,
		Archived:      req.Archived,
	}

	if req.NextChargeDate != nil {
		chargeDate, err := civil.ParseDate(*req.NextChargeDate)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		input.NextChargeDate = &chargeDate
	}

	if req.CancelURL != nil {
		if *req.CancelURL == "" {
			input.ClearCancelURL = true
		} else {
			input.CancelURL = req.CancelURL
		}
	}

	sub, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, toResponse(sub))
}

// Delete handles DELETE /subscriptions/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
