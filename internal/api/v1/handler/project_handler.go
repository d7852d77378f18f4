package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/api/v1/dto"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/middleware"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/service"

	"github.com/go-playground/validator/v10"
)

// ProjectHandler handles project endpoints, including the documents nested
// under each project.
type ProjectHandler struct {
	projectSvc  service.ProjectService
	documentSvc service.DocumentService
	validate    *validator.Validate
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectSvc service.ProjectService, documentSvc service.DocumentService, validate *validator.Validate) *ProjectHandler {
	return &ProjectHandler{projectSvc: projectSvc, documentSvc: documentSvc, validate: validate}
}

// RegisterRoutes mounts project and document routes.
func (h *ProjectHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/projects", authMw(http.HandlerFunc(h.handleCollection)))
	mux.Handle("/projects/", authMw(http.HandlerFunc(h.handleProject)))
}

func (h *ProjectHandler) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createProject(w, r)
	case http.MethodGet:
		h.listProjects(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleProject dispatches /projects/{id} and /projects/{id}/documents[/{docId}].
func (h *ProjectHandler) handleProject(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/projects/")
	parts := strings.Split(rest, "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		h.handleProjectItem(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "documents":
		h.handleDocuments(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "documents" && parts[2] != "":
		h.handleDocumentItem(w, r, parts[0], parts[2])
	default:
		http.NotFound(w, r)
	}
}

func (h *ProjectHandler) handleProjectItem(w http.ResponseWriter, r *http.Request, projectID string) {
	switch r.Method {
	case http.MethodGet:
		h.getProject(w, r, projectID)
	case http.MethodPut:
		h.updateProject(w, r, projectID)
	default:
		http.NotFound(w, r)
	}
}

func (h *ProjectHandler) handleDocuments(w http.ResponseWriter, r *http.Request, projectID string) {
	switch r.Method {
	case http.MethodPost:
		h.uploadDocument(w, r, projectID)
	case http.MethodGet:
		h.listDocuments(w, r, projectID)
	default:
		http.NotFound(w, r)
	}
}

func (h *ProjectHandler) handleDocumentItem(w http.ResponseWriter, r *http.Request, projectID, documentID string) {
	switch r.Method {
	case http.MethodGet:
		h.downloadDocument(w, r, projectID, documentID)
	case http.MethodDelete:
		h.deleteDocument(w, r, projectID, documentID)
	default:
		http.NotFound(w, r)
	}
}

func (h *ProjectHandler) createProject(w http.ResponseWriter, r *http.Request) {
	var req dto.ProjectCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		dto.WriteError(w, apperror.Validation("payload inválido: %v", err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		dto.WriteError(w, apperror.Validation("dados inválidos: %v", err))
		return
	}
	created, err := h.projectSvc.Create(r.Context(), middleware.TenantID(r.Context()), service.ProjectCreate{
		ClienteID:    req.ClienteID,
		Titulo:       req.Titulo,
		Descricao:    req.Descricao,
		Valor:        req.Valor,
		LinhaCredito: req.LinhaCredito,
		Finalidade:   req.Finalidade,
		Status:       req.Status,
		Localizacao:  req.Localizacao,
	})
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusCreated, created)
}

// listProjects answers the collection, optionally filtered by clienteId or
// linhaCredito through the secondary indexes.
func (h *ProjectHandler) listProjects(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantID(r.Context())
	page := pageFromQuery(r)

	var (
		projects any
		next     string
		err      error
	)
	switch {
	case r.URL.Query().Get("clienteId") != "":
		projects, next, err = h.projectSvc.ListByClient(r.Context(), tenantID, r.URL.Query().Get("clienteId"), page)
	case r.URL.Query().Get("linhaCredito") != "":
		projects, next, err = h.projectSvc.ListByCreditLine(r.Context(), tenantID, r.URL.Query().Get("linhaCredito"), page)
	default:
		projects, next, err = h.projectSvc.List(r.Context(), tenantID, page)
	}
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, dto.ListData{Items: projects, NextToken: next})
}

func (h *ProjectHandler) getProject(w http.ResponseWriter, r *http.Request, projectID string) {
	project, err := h.projectSvc.Get(r.Context(), middleware.TenantID(r.Context()), projectID)
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, project)
}

func (h *ProjectHandler) updateProject(w http.ResponseWriter, r *http.Request, projectID string) {
	var req dto.ProjectUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		dto.WriteError(w, apperror.Validation("payload inválido: %v", err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		dto.WriteError(w, apperror.Validation("dados inválidos: %v", err))
		return
	}
	updated, err := h.projectSvc.Update(r.Context(), middleware.TenantID(r.Context()), projectID, service.ProjectUpdate{
		Titulo:       req.Titulo,
		Descricao:    req.Descricao,
		Valor:        req.Valor,
		LinhaCredito: req.LinhaCredito,
		Finalidade:   req.Finalidade,
		Status:       req.Status,
		Localizacao:  req.Localizacao,
	})
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, updated)
}

// maxUploadBytes bounds a single document upload.
const maxUploadBytes = 50 << 20

func (h *ProjectHandler) uploadDocument(w http.ResponseWriter, r *http.Request, projectID string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		dto.WriteError(w, apperror.Validation("upload inválido: %v", err))
		return
	}
	file, header, err := r.FormFile("arquivo")
	if err != nil {
		dto.WriteError(w, apperror.Validation("campo de arquivo ausente"))
		return
	}
	defer file.Close()

	categoria := r.FormValue("categoria")
	if categoria == "" {
		categoria = "geral"
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	doc, err := h.documentSvc.Upload(r.Context(), middleware.TenantID(r.Context()), service.DocumentUpload{
		ProjetoID:   projectID,
		Filename:    header.Filename,
		ContentType: contentType,
		Categoria:   categoria,
		Tamanho:     header.Size,
		Body:        file,
	})
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusCreated, doc)
}

func (h *ProjectHandler) listDocuments(w http.ResponseWriter, r *http.Request, projectID string) {
	tenantID := middleware.TenantID(r.Context())
	page := pageFromQuery(r)

	if categoria := r.URL.Query().Get("categoria"); categoria != "" {
		docs, next, err := h.documentSvc.ListByCategory(r.Context(), tenantID, categoria, page)
		if err != nil {
			dto.WriteError(w, err)
			return
		}
		dto.WriteSuccess(w, http.StatusOK, dto.ListData{Items: docs, NextToken: next})
		return
	}

	docs, next, err := h.documentSvc.ListByProject(r.Context(), tenantID, projectID, page)
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, dto.ListData{Items: docs, NextToken: next})
}

// downloadDocument streams the object straight to the response.
func (h *ProjectHandler) downloadDocument(w http.ResponseWriter, r *http.Request, projectID, documentID string) {
	stream, err := h.documentSvc.Download(r.Context(), middleware.TenantID(r.Context()), projectID, documentID)
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	defer stream.Body.Close()

	w.Header().Set("Content-Type", stream.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+stream.Filename+`"`)
	if stream.Tamanho > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(stream.Tamanho, 10))
	}
	// Headers are already out if the copy fails midway; nothing to answer.
	io.Copy(w, stream.Body)
}

func (h *ProjectHandler) deleteDocument(w http.ResponseWriter, r *http.Request, projectID, documentID string) {
	if err := h.documentSvc.Delete(r.Context(), middleware.TenantID(r.Context()), projectID, documentID); err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteMessage(w, http.StatusOK, "Documento removido com sucesso.")
}
