package repository

import (
	"context"
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProjectRepository persists rural-credit projects. Besides the primary
// tenant partition, projects are reachable by client (GSI1) and by credit
// line (GSI2).
type ProjectRepository interface {
	Create(ctx context.Context, p *model.Project) error
	GetByID(ctx context.Context, tenantID, projectID string) (*model.Project, error)
	List(ctx context.Context, tenantID string, page Page) ([]model.Project, string, error)
	ListByClient(ctx context.Context, tenantID, clientID string, page Page) ([]model.Project, string, error)
	ListByCreditLine(ctx context.Context, tenantID, creditLine string, page Page) ([]model.Project, string, error)
	Update(ctx context.Context, p *model.Project) error
}

type projectItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"entityType"`
	GSI1PK     string `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK     string `dynamodbav:"GSI1SK,omitempty"`
	GSI2PK     string `dynamodbav:"GSI2PK,omitempty"`
	GSI2SK     string `dynamodbav:"GSI2SK,omitempty"`
	model.Project
}

type projectRepo struct {
	db     DynamoDBAPI
	tables Tables
	logger zerolog.Logger
}

// NewProjectRepo creates a new ProjectRepository.
func NewProjectRepo(db DynamoDBAPI, tables Tables, logger zerolog.Logger) ProjectRepository {
	return &projectRepo{db: db, tables: tables, logger: logger.With().Str("repository", "ProjectRepository").Logger()}
}

func (r *projectRepo) item(p *model.Project) projectItem {
	item := projectItem{
		PK:         model.TenantPK(p.TenantID),
		SK:         model.ProjectSK(p.ID),
		EntityType: "PROJECT",
		Project:    *p,
	}
	if p.ClienteID != "" {
		item.GSI1PK = model.ByClientPK(p.TenantID, p.ClienteID)
		item.GSI1SK = model.ProjectSK(p.ID)
	}
	if p.LinhaCredito != "" {
		item.GSI2PK = model.ByCreditLinePK(p.TenantID, p.LinhaCredito)
		item.GSI2SK = model.ProjectSK(p.ID)
	}
	return item
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	item, err := attributevalue.MarshalMap(r.item(p))
	if err != nil {
		return storeError(err)
	}
	return putNew(ctx, r.db, r.tables.Table, item, "projeto", p.ID)
}

func (r *projectRepo) GetByID(ctx context.Context, tenantID, projectID string) (*model.Project, error) {
	item, err := getByKey(ctx, r.db, r.tables.Table, model.TenantPK(tenantID), model.ProjectSK(projectID))
	if err != nil || item == nil {
		return nil, err
	}
	var p model.Project
	if err := attributevalue.UnmarshalMap(item, &p); err != nil {
		return nil, storeError(err)
	}
	return &p, nil
}

func (r *projectRepo) List(ctx context.Context, tenantID string, page Page) ([]model.Project, string, error) {
	items, next, err := queryByPrefix(ctx, r.db, r.tables.Table, "", "PK", model.TenantPK(tenantID), "SK", "PROJECT#", page)
	if err != nil {
		return nil, "", err
	}
	return r.unmarshalPage(items, next)
}

func (r *projectRepo) ListByClient(ctx context.Context, tenantID, clientID string, page Page) ([]model.Project, string, error) {
	items, next, err := queryByPrefix(ctx, r.db, r.tables.Table, r.tables.ByClientIndex,
		"GSI1PK", model.ByClientPK(tenantID, clientID), "GSI1SK", "PROJECT#", page)
	if err != nil {
		return nil, "", err
	}
	return r.unmarshalPage(items, next)
}

func (r *projectRepo) ListByCreditLine(ctx context.Context, tenantID, creditLine string, page Page) ([]model.Project, string, error) {
	items, next, err := queryByPrefix(ctx, r.db, r.tables.Table, r.tables.ByGroupIndex,
		"GSI2PK", model.ByCreditLinePK(tenantID, creditLine), "GSI2SK", "PROJECT#", page)
	if err != nil {
		return nil, "", err
	}
	return r.unmarshalPage(items, next)
}

func (r *projectRepo) unmarshalPage(items []map[string]dynamoAttr, next string) ([]model.Project, string, error) {
	projects := make([]model.Project, 0, len(items))
	for _, item := range items {
		var p model.Project
		if err := attributevalue.UnmarshalMap(item, &p); err != nil {
			return nil, "", storeError(err)
		}
		projects = append(projects, p)
	}
	return projects, next, nil
}

func (r *projectRepo) Update(ctx context.Context, p *model.Project) error {
	p.UpdatedAt = time.Now().UTC()
	item, err := attributevalue.MarshalMap(r.item(p))
	if err != nil {
		return storeError(err)
	}
	return putExisting(ctx, r.db, r.tables.Table, item, "projeto", p.ID)
}
