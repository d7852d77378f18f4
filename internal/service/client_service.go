package service

import (
	"context"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/repository"

	"github.com/rs/zerolog"
)

// ClientUpdate carries the partial fields of a client update.
type ClientUpdate struct {
	Nome        *string
	CPFCNPJ     *string
	Email       *string
	Telefone    *string
	Propriedade *string
	Municipio   *string
	Estado      *string
}

// ClientService defines business operations over clients.
type ClientService interface {
	Create(ctx context.Context, c *model.Client) (*model.Client, error)
	Get(ctx context.Context, tenantID, clientID string) (*model.Client, error)
	List(ctx context.Context, tenantID string, page repository.Page) ([]model.Client, string, error)
	Update(ctx context.Context, tenantID, clientID string, upd ClientUpdate) (*model.Client, error)
	Delete(ctx context.Context, tenantID, clientID string) error
}

type clientService struct {
	repo   repository.ClientRepository
	logger zerolog.Logger
}

// NewClientService creates a new ClientService.
func NewClientService(repo repository.ClientRepository, logger zerolog.Logger) ClientService {
	return &clientService{repo: repo, logger: logger.With().Str("service", "ClientService").Logger()}
}

func (s *clientService) Create(ctx context.Context, c *model.Client) (*model.Client, error) {
	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("tenant_id", c.TenantID).Msg("Failed to create client")
		return nil, err
	}
	return c, nil
}

func (s *clientService) Get(ctx context.Context, tenantID, clientID string) (*model.Client, error) {
	c, err := s.repo.GetByID(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NotFound("cliente", clientID)
	}
	return c, nil
}

func (s *clientService) List(ctx context.Context, tenantID string, page repository.Page) ([]model.Client, string, error) {
	return s.repo.List(ctx, tenantID, page)
}

func (s *clientService) Update(ctx context.Context, tenantID, clientID string, upd ClientUpdate) (*model.Client, error) {
	c, err := s.Get(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	applyString(&c.Nome, upd.Nome)
	applyString(&c.CPFCNPJ, upd.CPFCNPJ)
	applyString(&c.Email, upd.Email)
	applyString(&c.Telefone, upd.Telefone)
	applyString(&c.Propriedade, upd.Propriedade)
	applyString(&c.Municipio, upd.Municipio)
	applyString(&c.Estado, upd.Estado)

	if err := s.repo.Update(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("tenant_id", tenantID).Str("client_id", clientID).Msg("Failed to update client")
		return nil, err
	}
	return c, nil
}

func (s *clientService) Delete(ctx context.Context, tenantID, clientID string) error {
	return s.repo.Delete(ctx, tenantID, clientID)
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
