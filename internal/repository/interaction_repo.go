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

// InteractionRepository persists client contact records.
type InteractionRepository interface {
	Create(ctx context.Context, i *model.Interaction) error
	GetByID(ctx context.Context, tenantID, interactionID string) (*model.Interaction, error)
	List(ctx context.Context, tenantID string, page Page) ([]model.Interaction, string, error)
	ListByClient(ctx context.Context, tenantID, clientID string, page Page) ([]model.Interaction, string, error)
	Update(ctx context.Context, i *model.Interaction) error
	Delete(ctx context.Context, tenantID, interactionID string) error
}

type interactionItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"entityType"`
	GSI1PK     string `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK     string `dynamodbav:"GSI1SK,omitempty"`
	model.Interaction
}

type interactionRepo struct {
	db     DynamoDBAPI
	tables Tables
	logger zerolog.Logger
}

// NewInteractionRepo creates a new InteractionRepository.
func NewInteractionRepo(db DynamoDBAPI, tables Tables, logger zerolog.Logger) InteractionRepository {
	return &interactionRepo{db: db, tables: tables, logger: logger.With().Str("repository", "InteractionRepository").Logger()}
}

func (r *interactionRepo) item(i *model.Interaction) interactionItem {
	item := interactionItem{
		PK:          model.TenantPK(i.TenantID),
		SK:          model.InteractionSK(i.ID),
		EntityType:  "INTERACTION",
		Interaction: *i,
	}
	if i.ClienteID != "" {
		item.GSI1PK = model.ByClientPK(i.TenantID, i.ClienteID)
		item.GSI1SK = fmt.Sprintf("INTERACTION#%s#%s", i.Data.UTC().Format(time.RFC3339), i.ID)
	}
	return item
}

func (r *interactionRepo) Create(ctx context.Context, i *model.Interaction) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	i.CreatedAt = now
	i.UpdatedAt = now
	if i.Data.IsZero() {
		i.Data = now
	}

	av, err := attributevalue.MarshalMap(r.item(i))
	if err != nil {
		return storeError(err)
	}
	return putNew(ctx, r.db, r.tables.Table, av, "interação", i.ID)
}

func (r *interactionRepo) GetByID(ctx context.Context, tenantID, interactionID string) (*model.Interaction, error) {
	item, err := getByKey(ctx, r.db, r.tables.Table, model.TenantPK(tenantID), model.InteractionSK(interactionID))
	if err != nil || item == nil {
		return nil, err
	}
	var i model.Interaction
	if err := attributevalue.UnmarshalMap(item, &i); err != nil {
		return nil, storeError(err)
	}
	return &i, nil
}

func (r *interactionRepo) List(ctx context.Context, tenantID string, page Page) ([]model.Interaction, string, error) {
	items, next, err := queryByPrefix(ctx, r.db, r.tables.Table, "", "PK", model.TenantPK(tenantID), "SK", "INTERACTION#", page)
	if err != nil {
		return nil, "", err
	}
	return r.unmarshalPage(items, next)
}

func (r *interactionRepo) ListByClient(ctx context.Context, tenantID, clientID string, page Page) ([]model.Interaction, string, error) {
	items, next, err := queryByPrefix(ctx, r.db, r.tables.Table, r.tables.ByClientIndex,
		"GSI1PK", model.ByClientPK(tenantID, clientID), "GSI1SK", "INTERACTION#", page)
	if err != nil {
		return nil, "", err
	}
	return r.unmarshalPage(items, next)
}

func (r *interactionRepo) unmarshalPage(items []map[string]dynamoAttr, next string) ([]model.Interaction, string, error) {
	interactions := make([]model.Interaction, 0, len(items))
	for _, item := range items {
		var i model.Interaction
		if err := attributevalue.UnmarshalMap(item, &i); err != nil {
			return nil, "", storeError(err)
		}
		interactions = append(interactions, i)
	}
	return interactions, next, nil
}

func (r *interactionRepo) Update(ctx context.Context, i *model.Interaction) error {
	i.UpdatedAt = time.Now().UTC()
	av, err := attributevalue.MarshalMap(r.item(i))
	if err != nil {
		return storeError(err)
	}
	return putExisting(ctx, r.db, r.tables.Table, av, "interação", i.ID)
}

func (r *interactionRepo) Delete(ctx context.Context, tenantID, interactionID string) error {
	return deleteByKey(ctx, r.db, r.tables.Table, model.TenantPK(tenantID), model.InteractionSK(interactionID))
}
