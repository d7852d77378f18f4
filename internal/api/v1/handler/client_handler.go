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

// ClientHandler handles client endpoints.
type ClientHandler struct {
	clientSvc service.ClientService
	validate  *validator.Validate
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientSvc service.ClientService, validate *validator.Validate) *ClientHandler {
	return &ClientHandler{clientSvc: clientSvc, validate: validate}
}

// RegisterRoutes mounts client routes.
func (h *ClientHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/clients", authMw(http.HandlerFunc(h.handleCollection)))
	mux.Handle("/clients/", authMw(http.HandlerFunc(h.handleClient)))
}

func (h *ClientHandler) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createClient(w, r)
	case http.MethodGet:
		h.listClients(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *ClientHandler) handleClient(w http.ResponseWriter, r *http.Request) {
	clientID := strings.TrimPrefix(r.URL.Path, "/clients/")
	if clientID == "" || strings.Contains(clientID, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.getClient(w, r, clientID)
	case http.MethodPut:
		h.updateClient(w, r, clientID)
	case http.MethodDelete:
		h.deleteClient(w, r, clientID)
	default:
		http.NotFound(w, r)
	}
}

func (h *ClientHandler) createClient(w http.ResponseWriter, r *http.Request) {
	var req dto.ClientCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		dto.WriteError(w, apperror.Validation("payload inválido: %v", err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		dto.WriteError(w, apperror.Validation("dados inválidos: %v", err))
		return
	}
	client := &model.Client{
		TenantID:    middleware.TenantID(r.Context()),
		Nome:        req.Nome,
		CPFCNPJ:     req.CPFCNPJ,
		Email:       req.Email,
		Telefone:    req.Telefone,
		Propriedade: req.Propriedade,
		Municipio:   req.Municipio,
		Estado:      req.Estado,
	}
	created, err := h.clientSvc.Create(r.Context(), client)
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusCreated, created)
}

func (h *ClientHandler) listClients(w http.ResponseWriter, r *http.Request) {
	clients, next, err := h.clientSvc.List(r.Context(), middleware.TenantID(r.Context()), pageFromQuery(r))
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, dto.ListData{Items: clients, NextToken: next})
}

func (h *ClientHandler) getClient(w http.ResponseWriter, r *http.Request, clientID string) {
	client, err := h.clientSvc.Get(r.Context(), middleware.TenantID(r.Context()), clientID)
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, client)
}

func (h *ClientHandler) updateClient(w http.ResponseWriter, r *http.Request, clientID string) {
	var req dto.ClientUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		dto.WriteError(w, apperror.Validation("payload inválido: %v", err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		dto.WriteError(w, apperror.Validation("dados inválidos: %v", err))
		return
	}
	updated, err := h.clientSvc.Update(r.Context(), middleware.TenantID(r.Context()), clientID, service.ClientUpdate{
		Nome:        req.Nome,
		CPFCNPJ:     req.CPFCNPJ,
		Email:       req.Email,
		Telefone:    req.Telefone,
		Propriedade: req.Propriedade,
		Municipio:   req.Municipio,
		Estado:      req.Estado,
	})
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, updated)
}

func (h *ClientHandler) deleteClient(w http.ResponseWriter, r *http.Request, clientID string) {
	if err := h.clientSvc.Delete(r.Context(), middleware.TenantID(r.Context()), clientID); err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteMessage(w, http.StatusOK, "Cliente removido com sucesso.")
}
