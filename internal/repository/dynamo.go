package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// DynamoDBAPI is the subset of the DynamoDB client the repositories use.
// Declared here so tests can supply an in-memory fake.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// dynamoAttr shortens the attribute value type in signatures.
type dynamoAttr = types.AttributeValue

// Tables names the single table and its secondary indexes.
type Tables struct {
	Table         string
	ByClientIndex string
	ByGroupIndex  string
}

// Page is the cursor-based pagination contract of every list operation.
type Page struct {
	Limit int32
	Token string
}

const defaultPageLimit = int32(50)

func (p Page) limit() int32 {
	if p.Limit <= 0 || p.Limit > 200 {
		return defaultPageLimit
	}
	return p.Limit
}

// encodePageToken turns DynamoDB's LastEvaluatedKey into an opaque cursor.
// All key attributes in this table are strings.
func encodePageToken(lek map[string]types.AttributeValue) (string, error) {
	if len(lek) == 0 {
		return "", nil
	}
	plain := make(map[string]string, len(lek))
	if err := attributevalue.UnmarshalMap(lek, &plain); err != nil {
		return "", fmt.Errorf("encode page token: %w", err)
	}
	raw, err := json.Marshal(plain)
	if err != nil {
		return "", fmt.Errorf("encode page token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodePageToken(token string) (map[string]types.AttributeValue, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, apperror.Validation("token de página inválido")
	}
	var plain map[string]string
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, apperror.Validation("token de página inválido")
	}
	lek, err := attributevalue.MarshalMap(plain)
	if err != nil {
		return nil, apperror.Validation("token de página inválido")
	}
	return lek, nil
}

// isConditionalCheckFailed reports whether err is a failed conditional write.
func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// storeError wraps a raw DynamoDB failure as an ExternalServiceError,
// keeping the API error code when one is present.
func storeError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apperror.External("dynamodb", fmt.Errorf("%s: %w", apiErr.ErrorCode(), err))
	}
	return apperror.External("dynamodb", err)
}

// key builds the primary key attribute map for one item.
func key(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

// getByKey fetches one item by exact primary key. Absent items return
// (nil, nil): not found is not an error at this layer.
func getByKey(ctx context.Context, db DynamoDBAPI, table, pk, sk string) (map[string]types.AttributeValue, error) {
	out, err := db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &table,
		Key:       key(pk, sk),
	})
	if err != nil {
		return nil, storeError(err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	return out.Item, nil
}

// putNew writes an item that must not exist yet. A lost conditional check
// surfaces as a WriteConflictError so creation stays idempotent-safe.
func putNew(ctx context.Context, db DynamoDBAPI, table string, item map[string]types.AttributeValue, resource, id string) error {
	_, err := db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &table,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return &apperror.WriteConflictError{Resource: resource, ID: id}
		}
		return storeError(err)
	}
	return nil
}

// putExisting replaces an item that must already exist.
func putExisting(ctx context.Context, db DynamoDBAPI, table string, item map[string]types.AttributeValue, resource, id string) error {
	_, err := db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &table,
		Item:                item,
		ConditionExpression: awsString("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return apperror.NotFound(resource, id)
		}
		return storeError(err)
	}
	return nil
}

// deleteByKey removes an item. Deleting an absent item succeeds.
func deleteByKey(ctx context.Context, db DynamoDBAPI, table, pk, sk string) error {
	_, err := db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &table,
		Key:       key(pk, sk),
	})
	if err != nil {
		return storeError(err)
	}
	return nil
}

// queryByPrefix runs a partition query with a begins_with sort-key filter,
// optionally against a secondary index, honoring the page cursor.
func queryByPrefix(ctx context.Context, db DynamoDBAPI, table, index, pkName, pk, skName, skPrefix string, page Page) ([]map[string]types.AttributeValue, string, error) {
	start, err := decodePageToken(page.Token)
	if err != nil {
		return nil, "", err
	}

	keyCond := expression.Key(pkName).Equal(expression.Value(pk))
	if skPrefix != "" {
		keyCond = keyCond.And(expression.Key(skName).BeginsWith(skPrefix))
	}
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, "", fmt.Errorf("build query expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 &table,
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     awsInt32(page.limit()),
		ExclusiveStartKey:         start,
	}
	if index != "" {
		input.IndexName = &index
	}

	out, err := db.Query(ctx, input)
	if err != nil {
		return nil, "", storeError(err)
	}
	next, err := encodePageToken(out.LastEvaluatedKey)
	if err != nil {
		return nil, "", err
	}
	return out.Items, next, nil
}

// stringAttr extracts a string attribute from a raw item.
func stringAttr(item map[string]dynamoAttr, name string) (string, bool) {
	av, ok := item[name].(*types.AttributeValueMemberS)
	if !ok {
		return "", false
	}
	return av.Value, true
}

func awsString(s string) *string { return &s }

func awsInt32(n int32) *int32 { return &n }
