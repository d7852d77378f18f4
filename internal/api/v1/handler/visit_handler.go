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

// VisitHandler handles field visit endpoints.
type VisitHandler struct {
	visitSvc service.VisitService
	validate *validator.Validate
}

// NewVisitHandler creates a new VisitHandler.
func NewVisitHandler(visitSvc service.VisitService, validate *validator.Validate) *VisitHandler {
	return &VisitHandler{visitSvc: visitSvc, validate: validate}
}

// RegisterRoutes mounts visit routes.
func (h *VisitHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/visits", authMw(http.HandlerFunc(h.handleCollection)))
	mux.Handle("/visits/", authMw(http.HandlerFunc(h.handleVisit)))
}

func (h *VisitHandler) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createVisit(w, r)
	case http.MethodGet:
		h.listVisits(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *VisitHandler) handleVisit(w http.ResponseWriter, r *http.Request) {
	visitID := strings.TrimPrefix(r.URL.Path, "/visits/")
	if visitID == "" || strings.Contains(visitID, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.getVisit(w, r, visitID)
	case http.MethodPut:
		h.updateVisit(w, r, visitID)
	case http.MethodDelete:
		h.deleteVisit(w, r, visitID)
	default:
		http.NotFound(w, r)
	}
}

func (h *VisitHandler) createVisit(w http.ResponseWriter, r *http.Request) {
	var req dto.VisitCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		dto.WriteError(w, apperror.Validation("payload inválido: %v", err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		dto.WriteError(w, apperror.Validation("dados inválidos: %v", err))
		return
	}
	visit := &model.Visit{
		TenantID:    middleware.TenantID(r.Context()),
		ClienteID:   req.ClienteID,
		Propriedade: req.Propriedade,
		Data:        req.Data,
		Observacoes: req.Observacoes,
	}
	created, err := h.visitSvc.Create(r.Context(), visit)
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusCreated, created)
}

// listVisits answers the collection, optionally filtered by clienteId in
// chronological order through the by-client index.
func (h *VisitHandler) listVisits(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantID(r.Context())
	page := pageFromQuery(r)

	if clienteID := r.URL.Query().Get("clienteId"); clienteID != "" {
		visits, next, err := h.visitSvc.ListByClient(r.Context(), tenantID, clienteID, page)
		if err != nil {
			dto.WriteError(w, err)
			return
		}
		dto.WriteSuccess(w, http.StatusOK, dto.ListData{Items: visits, NextToken: next})
		return
	}

	visits, next, err := h.visitSvc.List(r.Context(), tenantID, page)
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, dto.ListData{Items: visits, NextToken: next})
}

func (h *VisitHandler) getVisit(w http.ResponseWriter, r *http.Request, visitID string) {
	visit, err := h.visitSvc.Get(r.Context(), middleware.TenantID(r.Context()), visitID)
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, visit)
}

func (h *VisitHandler) updateVisit(w http.ResponseWriter, r *http.Request, visitID string) {
	var req dto.VisitUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		dto.WriteError(w, apperror.Validation("payload inválido: %v", err))
		return
	}
	updated, err := h.visitSvc.Update(r.Context(), middleware.TenantID(r.Context()), visitID, service.VisitUpdate{
		Propriedade: req.Propriedade,
		Data:        req.Data,
		Status:      req.Status,
		Observacoes: req.Observacoes,
	})
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, updated)
}

func (h *VisitHandler) deleteVisit(w http.ResponseWriter, r *http.Request, visitID string) {
	if err := h.visitSvc.Delete(r.Context(), middleware.TenantID(r.Context()), visitID); err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteMessage(w, http.StatusOK, "Visita removida com sucesso.")
}
