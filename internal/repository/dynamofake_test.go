package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory single-table stand-in. It understands the
// subset of DynamoDB the repositories rely on: key lookups, conditional
// puts on PK existence, deletes, and partition queries with a begins_with
// sort-key condition.
type fakeDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]dynamoAttr
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]dynamoAttr)}
}

func itemKey(item map[string]dynamoAttr) string {
	pk, _ := stringAttr(item, "PK")
	sk, _ := stringAttr(item, "SK")
	return pk + "|" + sk
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemKey(params.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := itemKey(params.Item)
	_, exists := f.items[k]
	if params.ConditionExpression != nil {
		switch {
		case strings.Contains(*params.ConditionExpression, "attribute_not_exists") && exists:
			return nil, &types.ConditionalCheckFailedException{}
		case strings.Contains(*params.ConditionExpression, "attribute_exists") && !exists:
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	f.items[k] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, itemKey(params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

// Query resolves the expression-builder placeholders (#0/:0 for the
// partition equality, #1/:1 for the begins_with sort condition).
func (f *fakeDynamo) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pkName := params.ExpressionAttributeNames["#0"]
	pkVal := attrString(params.ExpressionAttributeValues[":0"])
	skName := params.ExpressionAttributeNames["#1"]
	skPrefix := attrString(params.ExpressionAttributeValues[":1"])

	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []map[string]dynamoAttr
	for _, k := range keys {
		item := f.items[k]
		got, _ := stringAttr(item, pkName)
		if got != pkVal {
			continue
		}
		if skName != "" {
			sk, _ := stringAttr(item, skName)
			if !strings.HasPrefix(sk, skPrefix) {
				continue
			}
		}
		out = append(out, item)
	}
	return &dynamodb.QueryOutput{Items: out}, nil
}

func (f *fakeDynamo) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []map[string]dynamoAttr
	for _, item := range f.items {
		out = append(out, item)
	}
	return &dynamodb.ScanOutput{Items: out}, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	// The repositories that use UpdateItem are exercised through fakes at
	// the service layer instead.
	return &dynamodb.UpdateItemOutput{}, nil
}

func attrString(av dynamoAttr) string {
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return ""
	}
	return s.Value
}
