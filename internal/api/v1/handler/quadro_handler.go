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

// QuadroHandler handles the Kanban board hierarchy: boards, their lists and
// the tasks inside each list.
type QuadroHandler struct {
	quadroSvc service.QuadroService
	validate  *validator.Validate
}

// NewQuadroHandler creates a new QuadroHandler.
func NewQuadroHandler(quadroSvc service.QuadroService, validate *validator.Validate) *QuadroHandler {
	return &QuadroHandler{quadroSvc: quadroSvc, validate: validate}
}

// RegisterRoutes mounts board routes.
func (h *QuadroHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/quadros", authMw(http.HandlerFunc(h.handleCollection)))
	mux.Handle("/quadros/", authMw(http.HandlerFunc(h.handleQuadro)))
}

func (h *QuadroHandler) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createQuadro(w, r)
	case http.MethodGet:
		h.listQuadros(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleQuadro dispatches the nested paths:
//
//	/quadros/{id}
//	/quadros/{id}/listas[/{listaId}]
//	/quadros/{id}/listas/{listaId}/tarefas[/{tarefaId}]
func (h *QuadroHandler) handleQuadro(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/quadros/"), "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		h.handleQuadroItem(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "listas":
		h.handleListas(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "listas" && parts[2] != "":
		h.handleListaItem(w, r, parts[0], parts[2])
	case len(parts) == 4 && parts[1] == "listas" && parts[3] == "tarefas":
		h.handleTarefas(w, r, parts[0], parts[2])
	case len(parts) == 5 && parts[1] == "listas" && parts[3] == "tarefas" && parts[4] != "":
		h.handleTarefaItem(w, r, parts[0], parts[2], parts[4])
	default:
		http.NotFound(w, r)
	}
}

func (h *QuadroHandler) handleQuadroItem(w http.ResponseWriter, r *http.Request, quadroID string) {
	switch r.Method {
	case http.MethodGet:
		h.getQuadro(w, r, quadroID)
	case http.MethodPut:
		h.renameQuadro(w, r, quadroID)
	case http.MethodDelete:
		h.deleteQuadro(w, r, quadroID)
	default:
		http.NotFound(w, r)
	}
}

func (h *QuadroHandler) handleListas(w http.ResponseWriter, r *http.Request, quadroID string) {
	switch r.Method {
	case http.MethodPost:
		h.createLista(w, r, quadroID)
	case http.MethodGet:
		h.listListas(w, r, quadroID)
	default:
		http.NotFound(w, r)
	}
}

func (h *QuadroHandler) handleListaItem(w http.ResponseWriter, r *http.Request, quadroID, listaID string) {
	switch r.Method {
	case http.MethodPut:
		h.updateLista(w, r, quadroID, listaID)
	case http.MethodDelete:
		h.deleteLista(w, r, quadroID, listaID)
	default:
		http.NotFound(w, r)
	}
}

func (h *QuadroHandler) handleTarefas(w http.ResponseWriter, r *http.Request, quadroID, listaID string) {
	switch r.Method {
	case http.MethodPost:
		h.createTarefa(w, r, quadroID, listaID)
	case http.MethodGet:
		h.listTarefas(w, r, quadroID, listaID)
	default:
		http.NotFound(w, r)
	}
}

func (h *QuadroHandler) handleTarefaItem(w http.ResponseWriter, r *http.Request, quadroID, listaID, tarefaID string) {
	switch r.Method {
	case http.MethodGet:
		h.getTarefa(w, r, quadroID, listaID, tarefaID)
	case http.MethodPut:
		h.updateTarefa(w, r, quadroID, listaID, tarefaID)
	case http.MethodDelete:
		h.deleteTarefa(w, r, quadroID, listaID, tarefaID)
	default:
		http.NotFound(w, r)
	}
}

func (h *QuadroHandler) createQuadro(w http.ResponseWriter, r *http.Request) {
	var req dto.QuadroCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		dto.WriteError(w, apperror.Validation("payload inválido: %v", err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		dto.WriteError(w, apperror.Validation("dados inválidos: %v", err))
		return
	}
	created, err := h.quadroSvc.CreateQuadro(r.Context(), &model.Quadro{
		TenantID: middleware.TenantID(r.Context()),
		Titulo:   req.Titulo,
	})
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusCreated, created)
}

func (h *QuadroHandler) listQuadros(w http.ResponseWriter, r *http.Request) {
	quadros, next, err := h.quadroSvc.ListQuadros(r.Context(), middleware.TenantID(r.Context()), pageFromQuery(r))
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, dto.ListData{Items: quadros, NextToken: next})
}

func (h *QuadroHandler) getQuadro(w http.ResponseWriter, r *http.Request, quadroID string) {
	quadro, err := h.quadroSvc.GetQuadro(r.Context(), middleware.TenantID(r.Context()), quadroID)
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, quadro)
}

func (h *QuadroHandler) renameQuadro(w http.ResponseWriter, r *http.Request, quadroID string) {
	var req dto.QuadroUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		dto.WriteError(w, apperror.Validation("payload inválido: %v", err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		dto.WriteError(w, apperror.Validation("dados inválidos: %v", err))
		return
	}
	updated, err := h.quadroSvc.RenameQuadro(r.Context(), middleware.TenantID(r.Context()), quadroID, req.Titulo)
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, updated)
}

func (h *QuadroHandler) deleteQuadro(w http.ResponseWriter, r *http.Request, quadroID string) {
	if err := h.quadroSvc.DeleteQuadro(r.Context(), middleware.TenantID(r.Context()), quadroID); err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteMessage(w, http.StatusOK, "Quadro removido com sucesso.")
}

func (h *QuadroHandler) createLista(w http.ResponseWriter, r *http.Request, quadroID string) {
	var req dto.ListaCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		dto.WriteError(w, apperror.Validation("payload inválido: %v", err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		dto.WriteError(w, apperror.Validation("dados inválidos: %v", err))
		return
	}
	created, err := h.quadroSvc.CreateLista(r.Context(), &model.Lista{
		TenantID: middleware.TenantID(r.Context()),
		QuadroID: quadroID,
		Titulo:   req.Titulo,
		Ordem:    req.Ordem,
	})
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusCreated, created)
}

func (h *QuadroHandler) listListas(w http.ResponseWriter, r *http.Request, quadroID string) {
	listas, next, err := h.quadroSvc.ListListas(r.Context(), middleware.TenantID(r.Context()), quadroID, pageFromQuery(r))
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, dto.ListData{Items: listas, NextToken: next})
}

func (h *QuadroHandler) updateLista(w http.ResponseWriter, r *http.Request, quadroID, listaID string) {
	var req dto.ListaUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		dto.WriteError(w, apperror.Validation("payload inválido: %v", err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		dto.WriteError(w, apperror.Validation("dados inválidos: %v", err))
		return
	}
	updated, err := h.quadroSvc.UpdateLista(r.Context(), middleware.TenantID(r.Context()), quadroID, listaID, service.ListaUpdate{
		Titulo: req.Titulo,
		Ordem:  req.Ordem,
	})
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, updated)
}

func (h *QuadroHandler) deleteLista(w http.ResponseWriter, r *http.Request, quadroID, listaID string) {
	if err := h.quadroSvc.DeleteLista(r.Context(), middleware.TenantID(r.Context()), quadroID, listaID); err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteMessage(w, http.StatusOK, "Lista removida com sucesso.")
}

func (h *QuadroHandler) createTarefa(w http.ResponseWriter, r *http.Request, quadroID, listaID string) {
	var req dto.TarefaCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		dto.WriteError(w, apperror.Validation("payload inválido: %v", err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		dto.WriteError(w, apperror.Validation("dados inválidos: %v", err))
		return
	}
	created, err := h.quadroSvc.CreateTarefa(r.Context(), &model.Tarefa{
		TenantID:  middleware.TenantID(r.Context()),
		QuadroID:  quadroID,
		ListaID:   listaID,
		Titulo:    req.Titulo,
		Descricao: req.Descricao,
		Ordem:     req.Ordem,
	})
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusCreated, created)
}

func (h *QuadroHandler) listTarefas(w http.ResponseWriter, r *http.Request, quadroID, listaID string) {
	tarefas, next, err := h.quadroSvc.ListTarefas(r.Context(), middleware.TenantID(r.Context()), quadroID, listaID, pageFromQuery(r))
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, dto.ListData{Items: tarefas, NextToken: next})
}

func (h *QuadroHandler) getTarefa(w http.ResponseWriter, r *http.Request, quadroID, listaID, tarefaID string) {
	tarefa, err := h.quadroSvc.GetTarefa(r.Context(), middleware.TenantID(r.Context()), quadroID, listaID, tarefaID)
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, tarefa)
}

func (h *QuadroHandler) updateTarefa(w http.ResponseWriter, r *http.Request, quadroID, listaID, tarefaID string) {
	var req dto.TarefaUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		dto.WriteError(w, apperror.Validation("payload inválido: %v", err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		dto.WriteError(w, apperror.Validation("dados inválidos: %v", err))
		return
	}
	updated, err := h.quadroSvc.UpdateTarefa(r.Context(), middleware.TenantID(r.Context()), quadroID, listaID, tarefaID, service.TarefaUpdate{
		Titulo:    req.Titulo,
		Descricao: req.Descricao,
		Concluida: req.Concluida,
		Ordem:     req.Ordem,
		ListaID:   req.ListaID,
	})
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, updated)
}

func (h *QuadroHandler) deleteTarefa(w http.ResponseWriter, r *http.Request, quadroID, listaID, tarefaID string) {
	if err := h.quadroSvc.DeleteTarefa(r.Context(), middleware.TenantID(r.Context()), quadroID, listaID, tarefaID); err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteMessage(w, http.StatusOK, "Tarefa removida com sucesso.")
}
