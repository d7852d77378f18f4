package service

import (
	"context"
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/repository"

	"github.com/rs/zerolog"
)

// VisitUpdate carries the partial fields of a visit update. A non-empty
// Status must be a legal transition from the stored one.
type VisitUpdate struct {
	Propriedade *string
	Data        *time.Time
	Status      *model.VisitStatus
	Observacoes *string
}

// VisitService defines business operations over field visits.
type VisitService interface {
	Create(ctx context.Context, v *model.Visit) (*model.Visit, error)
	Get(ctx context.Context, tenantID, visitID string) (*model.Visit, error)
	List(ctx context.Context, tenantID string, page repository.Page) ([]model.Visit, string, error)
	ListByClient(ctx context.Context, tenantID, clientID string, page repository.Page) ([]model.Visit, string, error)
	Update(ctx context.Context, tenantID, visitID string, upd VisitUpdate) (*model.Visit, error)
	Delete(ctx context.Context, tenantID, visitID string) error
}

type visitService struct {
	repo   repository.VisitRepository
	logger zerolog.Logger
}

// NewVisitService creates a new VisitService.
func NewVisitService(repo repository.VisitRepository, logger zerolog.Logger) VisitService {
	return &visitService{repo: repo, logger: logger.With().Str("service", "VisitService").Logger()}
}

func (s *visitService) Create(ctx context.Context, v *model.Visit) (*model.Visit, error) {
	if v.Status == "" {
		v.Status = model.VisitAgendada
	}
	if !model.ValidVisitStatus(v.Status) {
		return nil, apperror.Validation("status de visita inválido: %s", v.Status)
	}
	if err := s.repo.Create(ctx, v); err != nil {
		s.logger.Error().Err(err).Str("tenant_id", v.TenantID).Msg("Failed to create visit")
		return nil, err
	}
	return v, nil
}

func (s *visitService) Get(ctx context.Context, tenantID, visitID string) (*model.Visit, error) {
	v, err := s.repo.GetByID(ctx, tenantID, visitID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperror.NotFound("visita", visitID)
	}
	return v, nil
}

func (s *visitService) List(ctx context.Context, tenantID string, page repository.Page) ([]model.Visit, string, error) {
	return s.repo.List(ctx, tenantID, page)
}

func (s *visitService) ListByClient(ctx context.Context, tenantID, clientID string, page repository.Page) ([]model.Visit, string, error) {
	return s.repo.ListByClient(ctx, tenantID, clientID, page)
}

func (s *visitService) Update(ctx context.Context, tenantID, visitID string, upd VisitUpdate) (*model.Visit, error) {
	v, err := s.Get(ctx, tenantID, visitID)
	if err != nil {
		return nil, err
	}
	if upd.Status != nil && *upd.Status != v.Status {
		if !model.ValidVisitStatus(*upd.Status) {
			return nil, apperror.Validation("status de visita inválido: %s", *upd.Status)
		}
		if !v.Status.CanTransitionTo(*upd.Status) {
			return nil, apperror.Validation("transição de status não permitida: %s para %s", v.Status, *upd.Status)
		}
		v.Status = *upd.Status
	}
	applyString(&v.Propriedade, upd.Propriedade)
	applyString(&v.Observacoes, upd.Observacoes)
	if upd.Data != nil {
		v.Data = *upd.Data
	}

	if err := s.repo.Update(ctx, v); err != nil {
		s.logger.Error().Err(err).Str("tenant_id", tenantID).Str("visit_id", visitID).Msg("Failed to update visit")
		return nil, err
	}
	return v, nil
}

func (s *visitService) Delete(ctx context.Context, tenantID, visitID string) error {
	return s.repo.Delete(ctx, tenantID, visitID)
}
