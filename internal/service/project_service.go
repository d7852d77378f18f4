package service

import (
	"context"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/repository"

	"github.com/rs/zerolog"
)

// ProjectCreate carries the fields of a new project. Valor accepts either
// a number or a localized currency string; normalization happens in the
// repository layer.
type ProjectCreate struct {
	ClienteID    string
	Titulo       string
	Descricao    string
	Valor        any
	LinhaCredito string
	Finalidade   string
	Status       string
	Localizacao  *model.Localizacao
}

// ProjectUpdate carries the partial fields of a project update.
type ProjectUpdate struct {
	Titulo       *string
	Descricao    *string
	Valor        any
	LinhaCredito *string
	Finalidade   *string
	Status       *string
	Localizacao  *model.Localizacao
}

// ProjectService defines business operations over rural-credit projects.
// Projects are never hard-deleted; status changes mark their lifecycle.
type ProjectService interface {
	Create(ctx context.Context, tenantID string, in ProjectCreate) (*model.Project, error)
	Get(ctx context.Context, tenantID, projectID string) (*model.Project, error)
	List(ctx context.Context, tenantID string, page repository.Page) ([]model.Project, string, error)
	ListByClient(ctx context.Context, tenantID, clientID string, page repository.Page) ([]model.Project, string, error)
	ListByCreditLine(ctx context.Context, tenantID, creditLine string, page repository.Page) ([]model.Project, string, error)
	Update(ctx context.Context, tenantID, projectID string, upd ProjectUpdate) (*model.Project, error)
}

type projectService struct {
	repo   repository.ProjectRepository
	logger zerolog.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(repo repository.ProjectRepository, logger zerolog.Logger) ProjectService {
	return &projectService{repo: repo, logger: logger.With().Str("service", "ProjectService").Logger()}
}

func (s *projectService) Create(ctx context.Context, tenantID string, in ProjectCreate) (*model.Project, error) {
	valor, err := repository.ParseValorBRL(in.Valor)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = "Em análise"
	}
	p := &model.Project{
		TenantID:     tenantID,
		ClienteID:    in.ClienteID,
		Titulo:       in.Titulo,
		Descricao:    in.Descricao,
		Valor:        valor,
		LinhaCredito: in.LinhaCredito,
		Finalidade:   in.Finalidade,
		Status:       status,
		Localizacao:  in.Localizacao,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("tenant_id", tenantID).Msg("Failed to create project")
		return nil, err
	}
	return p, nil
}

func (s *projectService) Get(ctx context.Context, tenantID, projectID string) (*model.Project, error) {
	p, err := s.repo.GetByID(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("projeto", projectID)
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context, tenantID string, page repository.Page) ([]model.Project, string, error) {
	return s.repo.List(ctx, tenantID, page)
}

func (s *projectService) ListByClient(ctx context.Context, tenantID, clientID string, page repository.Page) ([]model.Project, string, error) {
	return s.repo.ListByClient(ctx, tenantID, clientID, page)
}

func (s *projectService) ListByCreditLine(ctx context.Context, tenantID, creditLine string, page repository.Page) ([]model.Project, string, error) {
	return s.repo.ListByCreditLine(ctx, tenantID, creditLine, page)
}

func (s *projectService) Update(ctx context.Context, tenantID, projectID string, upd ProjectUpdate) (*model.Project, error) {
	p, err := s.Get(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	applyString(&p.Titulo, upd.Titulo)
	applyString(&p.Descricao, upd.Descricao)
	applyString(&p.LinhaCredito, upd.LinhaCredito)
	applyString(&p.Finalidade, upd.Finalidade)
	applyString(&p.Status, upd.Status)
	if upd.Localizacao != nil {
		p.Localizacao = upd.Localizacao
	}
	if upd.Valor != nil {
		valor, err := repository.ParseValorBRL(upd.Valor)
		if err != nil {
			return nil, err
		}
		p.Valor = valor
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("tenant_id", tenantID).Str("project_id", projectID).Msg("Failed to update project")
		return nil, err
	}
	return p, nil
}
