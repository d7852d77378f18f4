package handler

import (
	"encoding/json"
	"net/http"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/api/v1/dto"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/middleware"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/service"

	"github.com/go-playground/validator/v10"
)

// SubscriptionHandler handles the billing surface. Its routes run behind
// authentication only, never behind the subscription gate: an expired
// tenant must still be able to see and fix their subscription.
type SubscriptionHandler struct {
	subSvc   service.SubscriptionService
	validate *validator.Validate
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subSvc service.SubscriptionService, validate *validator.Validate) *SubscriptionHandler {
	return &SubscriptionHandler{subSvc: subSvc, validate: validate}
}

// RegisterRoutes mounts the subscription endpoints.
func (h *SubscriptionHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/subscription", authMw(http.HandlerFunc(h.getSubscription)))
	mux.Handle("/subscription/checkout", authMw(http.HandlerFunc(h.checkout)))
}

func (h *SubscriptionHandler) getSubscription(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sub, err := h.subSvc.EnsureSubscription(r.Context(), middleware.TenantID(r.Context()), middleware.UserID(r.Context()))
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, dto.NewSubscriptionDTO(sub))
}

func (h *SubscriptionHandler) checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dto.CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		dto.WriteError(w, apperror.Validation("payload inválido: %v", err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		dto.WriteError(w, apperror.Validation("dados inválidos: %v", err))
		return
	}
	sub, err := h.subSvc.CreateCheckout(r.Context(), middleware.TenantID(r.Context()), middleware.UserID(r.Context()), req.CPF)
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, dto.NewSubscriptionDTO(sub))
}
