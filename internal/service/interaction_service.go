package service

import (
	"context"
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/repository"

	"github.com/rs/zerolog"
)

// InteractionUpdate carries the partial fields of an interaction update.
type InteractionUpdate struct {
	Tipo      *string
	Descricao *string
	Data      *time.Time
}

// InteractionService defines business operations over client interactions.
type InteractionService interface {
	Create(ctx context.Context, i *model.Interaction) (*model.Interaction, error)
	Get(ctx context.Context, tenantID, interactionID string) (*model.Interaction, error)
	List(ctx context.Context, tenantID string, page repository.Page) ([]model.Interaction, string, error)
	ListByClient(ctx context.Context, tenantID, clientID string, page repository.Page) ([]model.Interaction, string, error)
	Update(ctx context.Context, tenantID, interactionID string, upd InteractionUpdate) (*model.Interaction, error)
	Delete(ctx context.Context, tenantID, interactionID string) error
}

type interactionService struct {
	repo   repository.InteractionRepository
	logger zerolog.Logger
}

// NewInteractionService creates a new InteractionService.
func NewInteractionService(repo repository.InteractionRepository, logger zerolog.Logger) InteractionService {
	return &interactionService{repo: repo, logger: logger.With().Str("service", "InteractionService").Logger()}
}

func (s *interactionService) Create(ctx context.Context, i *model.Interaction) (*model.Interaction, error) {
	if i.Data.IsZero() {
		i.Data = time.Now().UTC()
	}
	if err := s.repo.Create(ctx, i); err != nil {
		s.logger.Error().Err(err).Str("tenant_id", i.TenantID).Msg("Failed to create interaction")
		return nil, err
	}
	return i, nil
}

func (s *interactionService) Get(ctx context.Context, tenantID, interactionID string) (*model.Interaction, error) {
	i, err := s.repo.GetByID(ctx, tenantID, interactionID)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, apperror.NotFound("interação", interactionID)
	}
	return i, nil
}

func (s *interactionService) List(ctx context.Context, tenantID string, page repository.Page) ([]model.Interaction, string, error) {
	return s.repo.List(ctx, tenantID, page)
}

func (s *interactionService) ListByClient(ctx context.Context, tenantID, clientID string, page repository.Page) ([]model.Interaction, string, error) {
	return s.repo.ListByClient(ctx, tenantID, clientID, page)
}

func (s *interactionService) Update(ctx context.Context, tenantID, interactionID string, upd InteractionUpdate) (*model.Interaction, error) {
	i, err := s.Get(ctx, tenantID, interactionID)
	if err != nil {
		return nil, err
	}
	applyString(&i.Tipo, upd.Tipo)
	applyString(&i.Descricao, upd.Descricao)
	if upd.Data != nil {
		i.Data = *upd.Data
	}

	if err := s.repo.Update(ctx, i); err != nil {
		s.logger.Error().Err(err).Str("tenant_id", tenantID).Str("interaction_id", interactionID).Msg("Failed to update interaction")
		return nil, err
	}
	return i, nil
}

func (s *interactionService) Delete(ctx context.Context, tenantID, interactionID string) error {
	return s.repo.Delete(ctx, tenantID, interactionID)
}
