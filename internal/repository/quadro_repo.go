package repository

import (
	"context"
	"strings"
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// QuadroRepository persists the Kanban hierarchy (board, list, task) under
// hierarchical sort keys, so one prefix query walks an entire board and
// board deletion cascades over the same prefix.
type QuadroRepository interface {
	CreateQuadro(ctx context.Context, q *model.Quadro) error
	GetQuadro(ctx context.Context, tenantID, quadroID string) (*model.Quadro, error)
	ListQuadros(ctx context.Context, tenantID string, page Page) ([]model.Quadro, string, error)
	UpdateQuadro(ctx context.Context, q *model.Quadro) error
	DeleteQuadro(ctx context.Context, tenantID, quadroID string) error

	CreateLista(ctx context.Context, l *model.Lista) error
	ListListas(ctx context.Context, tenantID, quadroID string, page Page) ([]model.Lista, string, error)
	UpdateLista(ctx context.Context, l *model.Lista) error
	DeleteLista(ctx context.Context, tenantID, quadroID, listaID string) error

	CreateTarefa(ctx context.Context, t *model.Tarefa) error
	GetTarefa(ctx context.Context, tenantID, quadroID, listaID, tarefaID string) (*model.Tarefa, error)
	ListTarefas(ctx context.Context, tenantID, quadroID, listaID string, page Page) ([]model.Tarefa, string, error)
	UpdateTarefa(ctx context.Context, t *model.Tarefa) error
	DeleteTarefa(ctx context.Context, tenantID, quadroID, listaID, tarefaID string) error
}

type quadroItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"entityType"`
	model.Quadro
}

type listaItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"entityType"`
	model.Lista
}

type tarefaItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"entityType"`
	model.Tarefa
}

type quadroRepo struct {
	db     DynamoDBAPI
	tables Tables
	logger zerolog.Logger
}

// NewQuadroRepo creates a new QuadroRepository.
func NewQuadroRepo(db DynamoDBAPI, tables Tables, logger zerolog.Logger) QuadroRepository {
	return &quadroRepo{db: db, tables: tables, logger: logger.With().Str("repository", "QuadroRepository").Logger()}
}

func (r *quadroRepo) CreateQuadro(ctx context.Context, q *model.Quadro) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now

	av, err := attributevalue.MarshalMap(quadroItem{
		PK:         model.TenantPK(q.TenantID),
		SK:         model.QuadroSK(q.ID),
		EntityType: "QUADRO",
		Quadro:     *q,
	})
	if err != nil {
		return storeError(err)
	}
	return putNew(ctx, r.db, r.tables.Table, av, "quadro", q.ID)
}

func (r *quadroRepo) GetQuadro(ctx context.Context, tenantID, quadroID string) (*model.Quadro, error) {
	item, err := getByKey(ctx, r.db, r.tables.Table, model.TenantPK(tenantID), model.QuadroSK(quadroID))
	if err != nil || item == nil {
		return nil, err
	}
	var q model.Quadro
	if err := attributevalue.UnmarshalMap(item, &q); err != nil {
		return nil, storeError(err)
	}
	return &q, nil
}

func (r *quadroRepo) ListQuadros(ctx context.Context, tenantID string, page Page) ([]model.Quadro, string, error) {
	items, next, err := queryByPrefix(ctx, r.db, r.tables.Table, "", "PK", model.TenantPK(tenantID), "SK", "QUADRO#", page)
	if err != nil {
		return nil, "", err
	}
	// The prefix also matches lists and tasks; keep board items only.
	quadros := make([]model.Quadro, 0, len(items))
	for _, item := range items {
		sk, ok := stringAttr(item, "SK")
		if !ok || strings.Contains(strings.TrimPrefix(sk, "QUADRO#"), "#") {
			continue
		}
		var q model.Quadro
		if err := attributevalue.UnmarshalMap(item, &q); err != nil {
			return nil, "", storeError(err)
		}
		quadros = append(quadros, q)
	}
	return quadros, next, nil
}

func (r *quadroRepo) UpdateQuadro(ctx context.Context, q *model.Quadro) error {
	q.UpdatedAt = time.Now().UTC()
	av, err := attributevalue.MarshalMap(quadroItem{
		PK:         model.TenantPK(q.TenantID),
		SK:         model.QuadroSK(q.ID),
		EntityType: "QUADRO",
		Quadro:     *q,
	})
	if err != nil {
		return storeError(err)
	}
	return putExisting(ctx, r.db, r.tables.Table, av, "quadro", q.ID)
}

// DeleteQuadro removes the board and everything nested under it.
func (r *quadroRepo) DeleteQuadro(ctx context.Context, tenantID, quadroID string) error {
	prefix := model.QuadroSK(quadroID)
	for {
		items, next, err := queryByPrefix(ctx, r.db, r.tables.Table, "", "PK", model.TenantPK(tenantID), "SK", prefix, Page{Limit: 100})
		if err != nil {
			return err
		}
		for _, item := range items {
			sk, ok := stringAttr(item, "SK")
			if !ok {
				continue
			}
			if err := deleteByKey(ctx, r.db, r.tables.Table, model.TenantPK(tenantID), sk); err != nil {
				return err
			}
		}
		if next == "" {
			return nil
		}
	}
}

func (r *quadroRepo) CreateLista(ctx context.Context, l *model.Lista) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	av, err := attributevalue.MarshalMap(listaItem{
		PK:         model.TenantPK(l.TenantID),
		SK:         model.ListaSK(l.QuadroID, l.ID),
		EntityType: "LISTA",
		Lista:      *l,
	})
	if err != nil {
		return storeError(err)
	}
	return putNew(ctx, r.db, r.tables.Table, av, "lista", l.ID)
}

func (r *quadroRepo) ListListas(ctx context.Context, tenantID, quadroID string, page Page) ([]model.Lista, string, error) {
	prefix := model.QuadroSK(quadroID) + "#LISTA#"
	items, next, err := queryByPrefix(ctx, r.db, r.tables.Table, "", "PK", model.TenantPK(tenantID), "SK", prefix, page)
	if err != nil {
		return nil, "", err
	}
	listas := make([]model.Lista, 0, len(items))
	for _, item := range items {
		sk, ok := stringAttr(item, "SK")
		if !ok || strings.Contains(strings.TrimPrefix(sk, prefix), "#") {
			continue
		}
		var l model.Lista
		if err := attributevalue.UnmarshalMap(item, &l); err != nil {
			return nil, "", storeError(err)
		}
		listas = append(listas, l)
	}
	return listas, next, nil
}

func (r *quadroRepo) UpdateLista(ctx context.Context, l *model.Lista) error {
	l.UpdatedAt = time.Now().UTC()
	av, err := attributevalue.MarshalMap(listaItem{
		PK:         model.TenantPK(l.TenantID),
		SK:         model.ListaSK(l.QuadroID, l.ID),
		EntityType: "LISTA",
		Lista:      *l,
	})
	if err != nil {
		return storeError(err)
	}
	return putExisting(ctx, r.db, r.tables.Table, av, "lista", l.ID)
}

// DeleteLista removes the list and its tasks.
func (r *quadroRepo) DeleteLista(ctx context.Context, tenantID, quadroID, listaID string) error {
	prefix := model.ListaSK(quadroID, listaID)
	for {
		items, next, err := queryByPrefix(ctx, r.db, r.tables.Table, "", "PK", model.TenantPK(tenantID), "SK", prefix, Page{Limit: 100})
		if err != nil {
			return err
		}
		for _, item := range items {
			sk, ok := stringAttr(item, "SK")
			if !ok {
				continue
			}
			if err := deleteByKey(ctx, r.db, r.tables.Table, model.TenantPK(tenantID), sk); err != nil {
				return err
			}
		}
		if next == "" {
			return nil
		}
	}
}

func (r *quadroRepo) CreateTarefa(ctx context.Context, t *model.Tarefa) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	av, err := attributevalue.MarshalMap(tarefaItem{
		PK:         model.TenantPK(t.TenantID),
		SK:         model.TarefaSK(t.QuadroID, t.ListaID, t.ID),
		EntityType: "TAREFA",
		Tarefa:     *t,
	})
	if err != nil {
		return storeError(err)
	}
	return putNew(ctx, r.db, r.tables.Table, av, "tarefa", t.ID)
}

func (r *quadroRepo) GetTarefa(ctx context.Context, tenantID, quadroID, listaID, tarefaID string) (*model.Tarefa, error) {
	item, err := getByKey(ctx, r.db, r.tables.Table, model.TenantPK(tenantID), model.TarefaSK(quadroID, listaID, tarefaID))
	if err != nil || item == nil {
		return nil, err
	}
	var t model.Tarefa
	if err := attributevalue.UnmarshalMap(item, &t); err != nil {
		return nil, storeError(err)
	}
	return &t, nil
}

func (r *quadroRepo) ListTarefas(ctx context.Context, tenantID, quadroID, listaID string, page Page) ([]model.Tarefa, string, error) {
	prefix := model.ListaSK(quadroID, listaID) + "#TAREFA#"
	items, next, err := queryByPrefix(ctx, r.db, r.tables.Table, "", "PK", model.TenantPK(tenantID), "SK", prefix, page)
	if err != nil {
		return nil, "", err
	}
	tarefas := make([]model.Tarefa, 0, len(items))
	for _, item := range items {
		var t model.Tarefa
		if err := attributevalue.UnmarshalMap(item, &t); err != nil {
			return nil, "", storeError(err)
		}
		tarefas = append(tarefas, t)
	}
	return tarefas, next, nil
}

func (r *quadroRepo) UpdateTarefa(ctx context.Context, t *model.Tarefa) error {
	t.UpdatedAt = time.Now().UTC()
	av, err := attributevalue.MarshalMap(tarefaItem{
		PK:         model.TenantPK(t.TenantID),
		SK:         model.TarefaSK(t.QuadroID, t.ListaID, t.ID),
		EntityType: "TAREFA",
		Tarefa:     *t,
	})
	if err != nil {
		return storeError(err)
	}
	return putExisting(ctx, r.db, r.tables.Table, av, "tarefa", t.ID)
}

func (r *quadroRepo) DeleteTarefa(ctx context.Context, tenantID, quadroID, listaID, tarefaID string) error {
	return deleteByKey(ctx, r.db, r.tables.Table, model.TenantPK(tenantID), model.TarefaSK(quadroID, listaID, tarefaID))
}
