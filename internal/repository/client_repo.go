package repository

import (
	"context"
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ClientRepository persists clients under their tenant partition.
type ClientRepository interface {
	Create(ctx context.Context, c *model.Client) error
	GetByID(ctx context.Context, tenantID, clientID string) (*model.Client, error)
	List(ctx context.Context, tenantID string, page Page) ([]model.Client, string, error)
	Update(ctx context.Context, c *model.Client) error
	Delete(ctx context.Context, tenantID, clientID string) error
}

type clientItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"entityType"`
	model.Client
}

type clientRepo struct {
	db     DynamoDBAPI
	tables Tables
	logger zerolog.Logger
}

// NewClientRepo creates a new ClientRepository.
func NewClientRepo(db DynamoDBAPI, tables Tables, logger zerolog.Logger) ClientRepository {
	return &clientRepo{db: db, tables: tables, logger: logger.With().Str("repository", "ClientRepository").Logger()}
}

func (r *clientRepo) Create(ctx context.Context, c *model.Client) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	item, err := attributevalue.MarshalMap(clientItem{
		PK:         model.TenantPK(c.TenantID),
		SK:         model.ClientSK(c.ID),
		EntityType: "CLIENT",
		Client:     *c,
	})
	if err != nil {
		return storeError(err)
	}
	return putNew(ctx, r.db, r.tables.Table, item, "cliente", c.ID)
}

func (r *clientRepo) GetByID(ctx context.Context, tenantID, clientID string) (*model.Client, error) {
	item, err := getByKey(ctx, r.db, r.tables.Table, model.TenantPK(tenantID), model.ClientSK(clientID))
	if err != nil || item == nil {
		return nil, err
	}
	var c model.Client
	if err := attributevalue.UnmarshalMap(item, &c); err != nil {
		return nil, storeError(err)
	}
	return &c, nil
}

func (r *clientRepo) List(ctx context.Context, tenantID string, page Page) ([]model.Client, string, error) {
	items, next, err := queryByPrefix(ctx, r.db, r.tables.Table, "", "PK", model.TenantPK(tenantID), "SK", "CLIENT#", page)
	if err != nil {
		return nil, "", err
	}
	clients := make([]model.Client, 0, len(items))
	for _, item := range items {
		var c model.Client
		if err := attributevalue.UnmarshalMap(item, &c); err != nil {
			return nil, "", storeError(err)
		}
		clients = append(clients, c)
	}
	return clients, next, nil
}

func (r *clientRepo) Update(ctx context.Context, c *model.Client) error {
	c.UpdatedAt = time.Now().UTC()
	item, err := attributevalue.MarshalMap(clientItem{
		PK:         model.TenantPK(c.TenantID),
		SK:         model.ClientSK(c.ID),
		EntityType: "CLIENT",
		Client:     *c,
	})
	if err != nil {
		return storeError(err)
	}
	return putExisting(ctx, r.db, r.tables.Table, item, "cliente", c.ID)
}

func (r *clientRepo) Delete(ctx context.Context, tenantID, clientID string) error {
	return deleteByKey(ctx, r.db, r.tables.Table, model.TenantPK(tenantID), model.ClientSK(clientID))
}
