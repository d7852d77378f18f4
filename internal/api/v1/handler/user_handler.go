package handler

import (
	"encoding/json"
	"net/http"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/api/v1/dto"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/middleware"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/service"

	"github.com/go-playground/validator/v10"
)

// UserHandler handles account endpoints.
type UserHandler struct {
	userSvc  service.UserService
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userSvc service.UserService, validate *validator.Validate) *UserHandler {
	return &UserHandler{userSvc: userSvc, validate: validate}
}

// RegisterRoutes mounts user routes. Registration runs behind
// authentication only; the subscription gate would lock out accounts that
// do not exist yet.
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/users", authMw(http.HandlerFunc(h.registerUser)))
	mux.Handle("/users/me", authMw(http.HandlerFunc(h.getMe)))
}

func (h *UserHandler) registerUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dto.UserRegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		dto.WriteError(w, apperror.Validation("payload inválido: %v", err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		dto.WriteError(w, apperror.Validation("dados inválidos: %v", err))
		return
	}
	user := &model.User{
		TenantID: middleware.TenantID(r.Context()),
		UserID:   middleware.UserID(r.Context()),
		Nome:     req.Nome,
		Email:    req.Email,
	}
	created, err := h.userSvc.Register(r.Context(), user)
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusCreated, dto.NewUserDTO(created))
}

func (h *UserHandler) getMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	user, err := h.userSvc.Get(r.Context(), middleware.TenantID(r.Context()), middleware.UserID(r.Context()))
	if err != nil {
		dto.WriteError(w, err)
		return
	}
	dto.WriteSuccess(w, http.StatusOK, dto.NewUserDTO(user))
}
