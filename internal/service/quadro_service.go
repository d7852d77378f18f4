package service

import (
	"context"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/repository"

	"github.com/rs/zerolog"
)

// ListaUpdate carries the partial fields of a list update.
type ListaUpdate struct {
	Titulo *string
	Ordem  *int
}

// TarefaUpdate carries the partial fields of a task update. A non-empty
// ListaID moves the task to another list on the same board.
type TarefaUpdate struct {
	Titulo    *string
	Descricao *string
	Concluida *bool
	Ordem     *int
	ListaID   *string
}

// QuadroService defines business operations over the Kanban hierarchy.
type QuadroService interface {
	CreateQuadro(ctx context.Context, q *model.Quadro) (*model.Quadro, error)
	GetQuadro(ctx context.Context, tenantID, quadroID string) (*model.Quadro, error)
	ListQuadros(ctx context.Context, tenantID string, page repository.Page) ([]model.Quadro, string, error)
	RenameQuadro(ctx context.Context, tenantID, quadroID, titulo string) (*model.Quadro, error)
	DeleteQuadro(ctx context.Context, tenantID, quadroID string) error

	CreateLista(ctx context.Context, l *model.Lista) (*model.Lista, error)
	ListListas(ctx context.Context, tenantID, quadroID string, page repository.Page) ([]model.Lista, string, error)
	UpdateLista(ctx context.Context, tenantID, quadroID, listaID string, upd ListaUpdate) (*model.Lista, error)
	DeleteLista(ctx context.Context, tenantID, quadroID, listaID string) error

	CreateTarefa(ctx context.Context, t *model.Tarefa) (*model.Tarefa, error)
	GetTarefa(ctx context.Context, tenantID, quadroID, listaID, tarefaID string) (*model.Tarefa, error)
	ListTarefas(ctx context.Context, tenantID, quadroID, listaID string, page repository.Page) ([]model.Tarefa, string, error)
	UpdateTarefa(ctx context.Context, tenantID, quadroID, listaID, tarefaID string, upd TarefaUpdate) (*model.Tarefa, error)
	DeleteTarefa(ctx context.Context, tenantID, quadroID, listaID, tarefaID string) error
}

type quadroService struct {
	repo   repository.QuadroRepository
	logger zerolog.Logger
}

// NewQuadroService creates a new QuadroService.
func NewQuadroService(repo repository.QuadroRepository, logger zerolog.Logger) QuadroService {
	return &quadroService{repo: repo, logger: logger.With().Str("service", "QuadroService").Logger()}
}

func (s *quadroService) CreateQuadro(ctx context.Context, q *model.Quadro) (*model.Quadro, error) {
	if err := s.repo.CreateQuadro(ctx, q); err != nil {
		s.logger.Error().Err(err).Str("tenant_id", q.TenantID).Msg("Failed to create board")
		return nil, err
	}
	return q, nil
}

func (s *quadroService) GetQuadro(ctx context.Context, tenantID, quadroID string) (*model.Quadro, error) {
	q, err := s.repo.GetQuadro(ctx, tenantID, quadroID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, apperror.NotFound("quadro", quadroID)
	}
	return q, nil
}

func (s *quadroService) ListQuadros(ctx context.Context, tenantID string, page repository.Page) ([]model.Quadro, string, error) {
	return s.repo.ListQuadros(ctx, tenantID, page)
}

func (s *quadroService) RenameQuadro(ctx context.Context, tenantID, quadroID, titulo string) (*model.Quadro, error) {
	q, err := s.GetQuadro(ctx, tenantID, quadroID)
	if err != nil {
		return nil, err
	}
	q.Titulo = titulo
	if err := s.repo.UpdateQuadro(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *quadroService) DeleteQuadro(ctx context.Context, tenantID, quadroID string) error {
	return s.repo.DeleteQuadro(ctx, tenantID, quadroID)
}

func (s *quadroService) CreateLista(ctx context.Context, l *model.Lista) (*model.Lista, error) {
	if _, err := s.GetQuadro(ctx, l.TenantID, l.QuadroID); err != nil {
		return nil, err
	}
	if err := s.repo.CreateLista(ctx, l); err != nil {
		s.logger.Error().Err(err).Str("tenant_id", l.TenantID).Str("quadro_id", l.QuadroID).Msg("Failed to create list")
		return nil, err
	}
	return l, nil
}

func (s *quadroService) ListListas(ctx context.Context, tenantID, quadroID string, page repository.Page) ([]model.Lista, string, error) {
	return s.repo.ListListas(ctx, tenantID, quadroID, page)
}

func (s *quadroService) UpdateLista(ctx context.Context, tenantID, quadroID, listaID string, upd ListaUpdate) (*model.Lista, error) {
	listas, _, err := s.repo.ListListas(ctx, tenantID, quadroID, repository.Page{Limit: 200})
	if err != nil {
		return nil, err
	}
	var lista *model.Lista
	for idx := range listas {
		if listas[idx].ID == listaID {
			lista = &listas[idx]
			break
		}
	}
	if lista == nil {
		return nil, apperror.NotFound("lista", listaID)
	}
	applyString(&lista.Titulo, upd.Titulo)
	if upd.Ordem != nil {
		lista.Ordem = *upd.Ordem
	}
	if err := s.repo.UpdateLista(ctx, lista); err != nil {
		return nil, err
	}
	return lista, nil
}

func (s *quadroService) DeleteLista(ctx context.Context, tenantID, quadroID, listaID string) error {
	return s.repo.DeleteLista(ctx, tenantID, quadroID, listaID)
}

func (s *quadroService) CreateTarefa(ctx context.Context, t *model.Tarefa) (*model.Tarefa, error) {
	if err := s.repo.CreateTarefa(ctx, t); err != nil {
		s.logger.Error().Err(err).Str("tenant_id", t.TenantID).Str("lista_id", t.ListaID).Msg("Failed to create task")
		return nil, err
	}
	return t, nil
}

func (s *quadroService) GetTarefa(ctx context.Context, tenantID, quadroID, listaID, tarefaID string) (*model.Tarefa, error) {
	t, err := s.repo.GetTarefa(ctx, tenantID, quadroID, listaID, tarefaID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperror.NotFound("tarefa", tarefaID)
	}
	return t, nil
}

func (s *quadroService) ListTarefas(ctx context.Context, tenantID, quadroID, listaID string, page repository.Page) ([]model.Tarefa, string, error) {
	return s.repo.ListTarefas(ctx, tenantID, quadroID, listaID, page)
}

// UpdateTarefa mutates a task in place; when the target list changes, the
// task is rewritten under the new list's sort key and removed from the old
// one.
func (s *quadroService) UpdateTarefa(ctx context.Context, tenantID, quadroID, listaID, tarefaID string, upd TarefaUpdate) (*model.Tarefa, error) {
	t, err := s.GetTarefa(ctx, tenantID, quadroID, listaID, tarefaID)
	if err != nil {
		return nil, err
	}
	applyString(&t.Titulo, upd.Titulo)
	applyString(&t.Descricao, upd.Descricao)
	if upd.Concluida != nil {
		t.Concluida = *upd.Concluida
	}
	if upd.Ordem != nil {
		t.Ordem = *upd.Ordem
	}

	if upd.ListaID != nil && *upd.ListaID != listaID {
		moved := *t
		moved.ListaID = *upd.ListaID
		if err := s.repo.CreateTarefa(ctx, &moved); err != nil {
			return nil, err
		}
		if err := s.repo.DeleteTarefa(ctx, tenantID, quadroID, listaID, tarefaID); err != nil {
			s.logger.Warn().Err(err).Str("tarefa_id", tarefaID).Msg("Failed to remove task from source list after move")
		}
		return &moved, nil
	}

	if err := s.repo.UpdateTarefa(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *quadroService) DeleteTarefa(ctx context.Context, tenantID, quadroID, listaID, tarefaID string) error {
	return s.repo.DeleteTarefa(ctx, tenantID, quadroID, listaID, tarefaID)
}
