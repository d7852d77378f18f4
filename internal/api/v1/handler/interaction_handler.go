package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/api/v1/dto"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/middleware"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/service"

	"github.com/go-playground/validator/v10"
)

// InteractionHandler handles client interaction endpoints.
type InteractionHandler struct {
	interactionSvc service.InteractionService
	validate       *validator.Validate
}

// NewInteractionHandler creates a new InteractionHandler.
func NewInteractionHandler(interactionSvc service.InteractionService, validate *validator.Validate) *InteractionHandler {
	return &InteractionHandler{interactionSvc: interactionSvc, validate: validate}
}

// RegisterRoutes mounts interaction routes.
func (h *InteractionHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/interactions", authMw(http.HandlerFunc(h.handleCollection)))
	mux.Handle("/interactions/", authMw(http.HandlerFunc(h.handleInteraction)))
}

func (h *InteractionHandler) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createInteraction(w, r)
	case http.MethodGet:
		h.listInteractions(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *InteractionHandler) handleInteraction(w http.ResponseWriter, r *http.Request) {
	interactionID := strings.TrimPrefix(r.URL.Path, "/interactions/")
	if interactionID == "" || strings.Contains(interactionID, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.getInteraction(w, r, interactionID)
	case http.MethodPut:
		h.updateInteraction(w, r, interactionID)
	case http.MethodDelete:
		h.deleteInteraction(w, r, interactionID)
	default:
		http.NotFound(w, r)
	}
}

func (h *InteractionHandler) createInteraction(w http.ResponseWriter, r *http.Request) {
	var req dto.InteractionCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		dto.WriteError(w, apperror.Validation("payload inválido: %v", err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		dto.WriteError(w, apperror.Validation("dados inválidos: %v", err))
		return
	}
	interaction := &model.Interaction{
		TenantID:  middleware.TenantID(r.Context()),
		ClienteID: req.ClienteID,
		Tipo:      req.Tipo,
		Descricao: req.Descricao,
		Data:      req.Data,
	}
	created, err := h.interactionSvc.Create(r.Context(), interaction)
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusCreated, created)
}

func (h *InteractionHandler) listInteractions(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantID(r.Context())
	page := pageFromQuery(r)

	if clienteID := r.URL.Query().Get("clienteId"); clienteID != "" {
		interactions, next, err := h.interactionSvc.ListByClient(r.Context(), tenantID, clienteID, page)
		if err != nil {
			dto.WriteError(w, err)
			return
		}
		dto.WriteSuccess(w, http.StatusOK, dto.ListData{Items: interactions, NextToken: next})
		return
	}

	interactions, next, err := h.interactionSvc.List(r.Context(), tenantID, page)
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, dto.ListData{Items: interactions, NextToken: next})
}

func (h *InteractionHandler) getInteraction(w http.ResponseWriter, r *http.Request, interactionID string) {
	interaction, err := h.interactionSvc.Get(r.Context(), middleware.TenantID(r.Context()), interactionID)
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, interaction)
}

func (h *InteractionHandler) updateInteraction(w http.ResponseWriter, r *http.Request, interactionID string) {
	var req dto.InteractionUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		dto.WriteError(w, apperror.Validation("payload inválido: %v", err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		dto.WriteError(w, apperror.Validation("dados inválidos: %v", err))
		return
	}
	updated, err := h.interactionSvc.Update(r.Context(), middleware.TenantID(r.Context()), interactionID, service.InteractionUpdate{
		Tipo:      req.Tipo,
		Descricao: req.Descricao,
		Data:      req.Data,
	})
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, updated)
}

func (h *InteractionHandler) deleteInteraction(w http.ResponseWriter, r *http.Request, interactionID string) {
	if err := h.interactionSvc.Delete(r.Context(), middleware.TenantID(r.Context()), interactionID); err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteMessage(w, http.StatusOK, "Interação removida com sucesso.")
}
