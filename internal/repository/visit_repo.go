package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// VisitRepository persists field visits. GSI1 groups visits by client with
// a date-prefixed sort key, so per-client listings come back chronological.
type VisitRepository interface {
	Create(ctx context.Context, v *model.Visit) error
	GetByID(ctx context.Context, tenantID, visitID string) (*model.Visit, error)
	List(ctx context.Context, tenantID string, page Page) ([]model.Visit, string, error)
	ListByClient(ctx context.Context, tenantID, clientID string, page Page) ([]model.Visit, string, error)
	Update(ctx context.Context, v *model.Visit) error
	Delete(ctx context.Context, tenantID, visitID string) error
}

type visitItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"entityType"`
	GSI1PK     string `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK     string `dynamodbav:"GSI1SK,omitempty"`
	model.Visit
}

type visitRepo struct {
	db     DynamoDBAPI
	tables Tables
	logger zerolog.Logger
}

// NewVisitRepo creates a new VisitRepository.
func NewVisitRepo(db DynamoDBAPI, tables Tables, logger zerolog.Logger) VisitRepository {
	return &visitRepo{db: db, tables: tables, logger: logger.With().Str("repository", "VisitRepository").Logger()}
}

func (r *visitRepo) item(v *model.Visit) visitItem {
	item := visitItem{
		PK:         model.TenantPK(v.TenantID),
		SK:         model.VisitSK(v.ID),
		EntityType: "VISIT",
		Visit:      *v,
	}
	if v.ClienteID != "" {
		item.GSI1PK = model.ByClientPK(v.TenantID, v.ClienteID)
		item.GSI1SK = fmt.Sprintf("VISIT#%s#%s", v.Data.UTC().Format(time.RFC3339), v.ID)
	}
	return item
}

func (r *visitRepo) Create(ctx context.Context, v *model.Visit) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now

	av, err := attributevalue.MarshalMap(r.item(v))
	if err != nil {
		return storeError(err)
	}
	return putNew(ctx, r.db, r.tables.Table, av, "visita", v.ID)
}

func (r *visitRepo) GetByID(ctx context.Context, tenantID, visitID string) (*model.Visit, error) {
	item, err := getByKey(ctx, r.db, r.tables.Table, model.TenantPK(tenantID), model.VisitSK(visitID))
	if err != nil || item == nil {
		return nil, err
	}
	var v model.Visit
	if err := attributevalue.UnmarshalMap(item, &v); err != nil {
		return nil, storeError(err)
	}
	return &v, nil
}

func (r *visitRepo) List(ctx context.Context, tenantID string, page Page) ([]model.Visit, string, error) {
	items, next, err := queryByPrefix(ctx, r.db, r.tables.Table, "", "PK", model.TenantPK(tenantID), "SK", "VISIT#", page)
	if err != nil {
		return nil, "", err
	}
	return r.unmarshalPage(items, next)
}

func (r *visitRepo) ListByClient(ctx context.Context, tenantID, clientID string, page Page) ([]model.Visit, string, error) {
	items, next, err := queryByPrefix(ctx, r.db, r.tables.Table, r.tables.ByClientIndex,
		"GSI1PK", model.ByClientPK(tenantID, clientID), "GSI1SK", "VISIT#", page)
	if err != nil {
		return nil, "", err
	}
	return r.unmarshalPage(items, next)
}

func (r *visitRepo) unmarshalPage(items []map[string]dynamoAttr, next string) ([]model.Visit, string, error) {
	visits := make([]model.Visit, 0, len(items))
	for _, item := range items {
		var v model.Visit
		if err := attributevalue.UnmarshalMap(item, &v); err != nil {
			return nil, "", storeError(err)
		}
		visits = append(visits, v)
	}
	return visits, next, nil
}

func (r *visitRepo) Update(ctx context.Context, v *model.Visit) error {
	v.UpdatedAt = time.Now().UTC()
	av, err := attributevalue.MarshalMap(r.item(v))
	if err != nil {
		return storeError(err)
	}
	return putExisting(ctx, r.db, r.tables.Table, av, "visita", v.ID)
}

func (r *visitRepo) Delete(ctx context.Context, tenantID, visitID string) error {
	return deleteByKey(ctx, r.db, r.tables.Table, model.TenantPK(tenantID), model.VisitSK(visitID))
}
