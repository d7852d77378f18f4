package repository

import (
	"context"
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/rs/zerolog"
)

// DocumentRepository persists document metadata. The stored object itself
// is owned by the transfer coordinator; this layer only tracks the record.
// Documents nest under their project in the sort key and are reachable by
// category through GSI2.
type DocumentRepository interface {
	Create(ctx context.Context, d *model.Document) error
	GetByID(ctx context.Context, tenantID, projectID, documentID string) (*model.Document, error)
	ListByProject(ctx context.Context, tenantID, projectID string, page Page) ([]model.Document, string, error)
	ListByCategory(ctx context.Context, tenantID, category string, page Page) ([]model.Document, string, error)
	Delete(ctx context.Context, tenantID, projectID, documentID string) error
}

type documentItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"entityType"`
	GSI2PK     string `dynamodbav:"GSI2PK,omitempty"`
	GSI2SK     string `dynamodbav:"GSI2SK,omitempty"`
	model.Document
}

type documentRepo struct {
	db     DynamoDBAPI
	tables Tables
	logger zerolog.Logger
}

// NewDocumentRepo creates a new DocumentRepository.
func NewDocumentRepo(db DynamoDBAPI, tables Tables, logger zerolog.Logger) DocumentRepository {
	return &documentRepo{db: db, tables: tables, logger: logger.With().Str("repository", "DocumentRepository").Logger()}
}

func (r *documentRepo) Create(ctx context.Context, d *model.Document) error {
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	item := documentItem{
		PK:         model.TenantPK(d.TenantID),
		SK:         model.ProjectDocSK(d.ProjetoID, d.ID),
		EntityType: "DOCUMENT",
		Document:   *d,
	}
	if d.Categoria != "" {
		item.GSI2PK = model.ByCategoryPK(d.TenantID, d.Categoria)
		item.GSI2SK = "DOC#" + d.ID
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return storeError(err)
	}
	return putNew(ctx, r.db, r.tables.Table, av, "documento", d.ID)
}

func (r *documentRepo) GetByID(ctx context.Context, tenantID, projectID, documentID string) (*model.Document, error) {
	item, err := getByKey(ctx, r.db, r.tables.Table, model.TenantPK(tenantID), model.ProjectDocSK(projectID, documentID))
	if err != nil || item == nil {
		return nil, err
	}
	var d model.Document
	if err := attributevalue.UnmarshalMap(item, &d); err != nil {
		return nil, storeError(err)
	}
	return &d, nil
}

func (r *documentRepo) ListByProject(ctx context.Context, tenantID, projectID string, page Page) ([]model.Document, string, error) {
	items, next, err := queryByPrefix(ctx, r.db, r.tables.Table, "",
		"PK", model.TenantPK(tenantID), "SK", model.ProjectDocPrefix(projectID), page)
	if err != nil {
		return nil, "", err
	}
	return r.unmarshalPage(items, next)
}

func (r *documentRepo) ListByCategory(ctx context.Context, tenantID, category string, page Page) ([]model.Document, string, error) {
	items, next, err := queryByPrefix(ctx, r.db, r.tables.Table, r.tables.ByGroupIndex,
		"GSI2PK", model.ByCategoryPK(tenantID, category), "GSI2SK", "DOC#", page)
	if err != nil {
		return nil, "", err
	}
	return r.unmarshalPage(items, next)
}

func (r *documentRepo) unmarshalPage(items []map[string]dynamoAttr, next string) ([]model.Document, string, error) {
	docs := make([]model.Document, 0, len(items))
	for _, item := range items {
		var d model.Document
		if err := attributevalue.UnmarshalMap(item, &d); err != nil {
			return nil, "", storeError(err)
		}
		docs = append(docs, d)
	}
	return docs, next, nil
}

func (r *documentRepo) Delete(ctx context.Context, tenantID, projectID, documentID string) error {
	return deleteByKey(ctx, r.db, r.tables.Table, model.TenantPK(tenantID), model.ProjectDocSK(projectID, documentID))
}
