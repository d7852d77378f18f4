package service

import (
	"context"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/repository"

	"github.com/rs/zerolog"
)

// UserService exposes the authenticated user's own account record.
type UserService interface {
	Register(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, tenantID, userID string) (*model.User, error)
}

type userService struct {
	repo   repository.UserRepository
	logger zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{repo: repo, logger: logger.With().Str("service", "UserService").Logger()}
}

func (s *userService) Register(ctx context.Context, u *model.User) (*model.User, error) {
	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.Error().Err(err).Str("tenant_id", u.TenantID).Str("user_id", u.UserID).Msg("Failed to register user")
		return nil, err
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, tenantID, userID string) (*model.User, error) {
	u, err := s.repo.Get(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NotFound("usuário", userID)
	}
	return u, nil
}
