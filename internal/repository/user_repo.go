package repository

import (
	"context"
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog"
)

// SubscriptionCAS is the expected prior state of a subscription update.
// Transitions driven by the sweep compare both status and the expiry
// timestamp that was read, so a concurrent webhook reactivation wins the
// race instead of being demoted.
type SubscriptionCAS struct {
	Status    model.SubscriptionStatus
	ExpiresAt *time.Time
}

// UserRepository persists user accounts and their embedded subscription.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	Get(ctx context.Context, tenantID, userID string) (*model.User, error)
	GetByGatewaySubscriptionID(ctx context.Context, gatewaySubscriptionID string) (*model.User, error)

	// InitSubscription sets the subscription only if none is stored yet.
	// When another writer got there first, the stored subscription is
	// returned instead, so lazy trial creation is idempotent.
	InitSubscription(ctx context.Context, tenantID, userID string, sub model.Subscription) (*model.Subscription, error)

	// UpdateSubscription replaces the embedded subscription. A non-nil cas
	// makes the write conditional on the expected prior state; a lost
	// condition surfaces as WriteConflictError.
	UpdateSubscription(ctx context.Context, tenantID, userID string, sub model.Subscription, cas *SubscriptionCAS) error

	// SetBillingProfile stores the tax id collected at checkout.
	SetBillingProfile(ctx context.Context, tenantID, userID, cpf string) error

	// ListWithSubscription pages through every user carrying a
	// subscription attribute, for the sweep.
	ListWithSubscription(ctx context.Context, page Page) ([]model.User, string, error)
}

type userItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"entityType"`
	model.User
}

type userRepo struct {
	db     DynamoDBAPI
	tables Tables
	logger zerolog.Logger
}

// NewUserRepo creates a new UserRepository.
func NewUserRepo(db DynamoDBAPI, tables Tables, logger zerolog.Logger) UserRepository {
	return &userRepo{db: db, tables: tables, logger: logger.With().Str("repository", "UserRepository").Logger()}
}

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	av, err := attributevalue.MarshalMap(userItem{
		PK:         model.TenantPK(u.TenantID),
		SK:         model.UserSK(u.UserID),
		EntityType: "USER",
		User:       *u,
	})
	if err != nil {
		return storeError(err)
	}
	return putNew(ctx, r.db, r.tables.Table, av, "usuário", u.UserID)
}

func (r *userRepo) Get(ctx context.Context, tenantID, userID string) (*model.User, error) {
	item, err := getByKey(ctx, r.db, r.tables.Table, model.TenantPK(tenantID), model.UserSK(userID))
	if err != nil || item == nil {
		return nil, err
	}
	var u model.User
	if err := attributevalue.UnmarshalMap(item, &u); err != nil {
		return nil, storeError(err)
	}
	return &u, nil
}

func (r *userRepo) GetByGatewaySubscriptionID(ctx context.Context, gatewaySubscriptionID string) (*model.User, error) {
	items, _, err := queryByPrefix(ctx, r.db, r.tables.Table, r.tables.ByGroupIndex,
		"GSI2PK", model.ByGatewaySubscriptionPK(gatewaySubscriptionID), "", "", Page{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	var u model.User
	if err := attributevalue.UnmarshalMap(items[0], &u); err != nil {
		return nil, storeError(err)
	}
	return &u, nil
}

func (r *userRepo) InitSubscription(ctx context.Context, tenantID, userID string, sub model.Subscription) (*model.Subscription, error) {
	cond := expression.And(
		expression.AttributeExists(expression.Name("PK")),
		expression.AttributeNotExists(expression.Name("subscription")),
	)
	update := expression.
		Set(expression.Name("subscription"), expression.Value(sub)).
		Set(expression.Name("updatedAt"), expression.Value(time.Now().UTC()))
	expr, err := expression.NewBuilder().WithCondition(cond).WithUpdate(update).Build()
	if err != nil {
		return nil, storeError(err)
	}

	_, err = r.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.tables.Table,
		Key:                       key(model.TenantPK(tenantID), model.UserSK(userID)),
		ConditionExpression:       expr.Condition(),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err == nil {
		return &sub, nil
	}
	if !isConditionalCheckFailed(err) {
		return nil, storeError(err)
	}

	// Lost the race or the user item is missing. Re-read to tell which.
	u, err := r.Get(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NotFound("usuário", userID)
	}
	if u.Subscription == nil {
		return nil, &apperror.WriteConflictError{Resource: "assinatura", ID: userID}
	}
	return u.Subscription, nil
}

func (r *userRepo) UpdateSubscription(ctx context.Context, tenantID, userID string, sub model.Subscription, cas *SubscriptionCAS) error {
	cond := expression.AttributeExists(expression.Name("subscription"))
	if cas != nil {
		cond = expression.And(cond,
			expression.Equal(expression.Name("subscription.status"), expression.Value(cas.Status)))
		if cas.ExpiresAt != nil {
			name := "subscription.subscriptionEndsAt"
			if cas.Status == model.SubscriptionTrial {
				name = "subscription.trialEndsAt"
			}
			cond = expression.And(cond,
				expression.Equal(expression.Name(name), expression.Value(*cas.ExpiresAt)))
		}
	}

	update := expression.
		Set(expression.Name("subscription"), expression.Value(sub)).
		Set(expression.Name("updatedAt"), expression.Value(time.Now().UTC()))
	if sub.GatewaySubscriptionID != "" {
		// Keep the GSI2 lookup by gateway subscription id in sync.
		update = update.
			Set(expression.Name("GSI2PK"), expression.Value(model.ByGatewaySubscriptionPK(sub.GatewaySubscriptionID))).
			Set(expression.Name("GSI2SK"), expression.Value(model.UserSK(userID)))
	}

	expr, err := expression.NewBuilder().WithCondition(cond).WithUpdate(update).Build()
	if err != nil {
		return storeError(err)
	}

	_, err = r.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.tables.Table,
		Key:                       key(model.TenantPK(tenantID), model.UserSK(userID)),
		ConditionExpression:       expr.Condition(),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return &apperror.WriteConflictError{Resource: "assinatura", ID: userID}
		}
		return storeError(err)
	}
	return nil
}

func (r *userRepo) SetBillingProfile(ctx context.Context, tenantID, userID, cpf string) error {
	cond := expression.AttributeExists(expression.Name("PK"))
	update := expression.
		Set(expression.Name("cpf"), expression.Value(cpf)).
		Set(expression.Name("updatedAt"), expression.Value(time.Now().UTC()))
	expr, err := expression.NewBuilder().WithCondition(cond).WithUpdate(update).Build()
	if err != nil {
		return storeError(err)
	}

	_, err = r.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.tables.Table,
		Key:                       key(model.TenantPK(tenantID), model.UserSK(userID)),
		ConditionExpression:       expr.Condition(),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return apperror.NotFound("usuário", userID)
		}
		return storeError(err)
	}
	return nil
}

func (r *userRepo) ListWithSubscription(ctx context.Context, page Page) ([]model.User, string, error) {
	start, err := decodePageToken(page.Token)
	if err != nil {
		return nil, "", err
	}

	filter := expression.And(
		expression.Equal(expression.Name("entityType"), expression.Value("USER")),
		expression.AttributeExists(expression.Name("subscription")),
	)
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, "", storeError(err)
	}

	out, err := r.db.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 &r.tables.Table,
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     awsInt32(page.limit()),
		ExclusiveStartKey:         start,
	})
	if err != nil {
		return nil, "", storeError(err)
	}

	users := make([]model.User, 0, len(out.Items))
	for _, item := range out.Items {
		var u model.User
		if err := attributevalue.UnmarshalMap(item, &u); err != nil {
			return nil, "", storeError(err)
		}
		users = append(users, u)
	}
	next, err := encodePageToken(out.LastEvaluatedKey)
	if err != nil {
		return nil, "", err
	}
	return users, next, nil
}
