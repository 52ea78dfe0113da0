package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"schoolhub-backend/application/ports"
	"schoolhub-backend/domain/school"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// batchGetRetries bounds the re-drive of UnprocessedKeys before the whole
// batch get is reported as failed, which sends callers down their
// individual-get fallback.
const batchGetRetries = 3

// TableStore implements ports.RecordStore on DynamoDB. One instance serves
// all tables; the table and its key attribute travel with every call.
type TableStore struct {
	client *dynamodb.Client
	logger *zap.Logger
}

// NewTableStore creates a TableStore.
func NewTableStore(client *dynamodb.Client, logger *zap.Logger) *TableStore {
	return &TableStore{client: client, logger: logger}
}

// Get fetches one record, returning (nil, nil) when the key is absent.
func (s *TableStore) Get(ctx context.Context, table ports.Table, key string) (school.Record, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table.Name),
		Key:       keyAttribute(table, key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %q: %w", table.Name, key, err)
	}
	if len(result.Item) == 0 {
		return nil, nil
	}
	return unmarshalRecord(result.Item)
}

// BatchGet fetches up to the batch limit of keys in one call, re-driving
// unprocessed keys a bounded number of times.
func (s *TableStore) BatchGet(ctx context.Context, table ports.Table, keys []string) (map[string]school.Record, error) {
	found := make(map[string]school.Record, len(keys))
	if len(keys) == 0 {
		return found, nil
	}

	pending := make([]map[string]types.AttributeValue, 0, len(keys))
	for _, key := range keys {
		pending = append(pending, keyAttribute(table, key))
	}

	for attempt := 0; len(pending) > 0; attempt++ {
		if attempt >= batchGetRetries {
			return nil, fmt.Errorf("%d keys still unprocessed after %d attempts", len(pending), attempt)
		}

		result, err := s.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: map[string]types.KeysAndAttributes{
				table.Name: {Keys: pending},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("batch get on %s failed: %w", table.Name, err)
		}

		for _, item := range result.Responses[table.Name] {
			record, err := unmarshalRecord(item)
			if err != nil {
				return nil, err
			}
			found[record.String(table.Key)] = record
		}

		pending = result.UnprocessedKeys[table.Name].Keys
		if len(pending) > 0 {
			s.logger.Debug("Retrying unprocessed batch-get keys",
				zap.String("table", table.Name),
				zap.Int("remaining", len(pending)),
			)
		}
	}

	return found, nil
}

// Put writes one record.
func (s *TableStore) Put(ctx context.Context, table ports.Table, record school.Record) error {
	item, err := attributevalue.MarshalMap(map[string]any(record))
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table.Name),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("failed to put %s %q: %w", table.Name, record.String(table.Key), err)
	}
	return nil
}

// BatchPut writes up to the batch limit of records in one call and returns
// whatever the store reported as unprocessed.
func (s *TableStore) BatchPut(ctx context.Context, table ports.Table, records []school.Record) ([]school.Record, error) {
	if len(records) == 0 {
		return nil, nil
	}

	requests := make([]types.WriteRequest, 0, len(records))
	for _, record := range records {
		item, err := attributevalue.MarshalMap(map[string]any(record))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal record %q: %w", record.String(table.Key), err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	result, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{
			table.Name: requests,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("batch write on %s failed: %w", table.Name, err)
	}

	var unprocessed []school.Record
	for _, request := range result.UnprocessedItems[table.Name] {
		if request.PutRequest == nil {
			continue
		}
		record, err := unmarshalRecord(request.PutRequest.Item)
		if err != nil {
			return nil, err
		}
		unprocessed = append(unprocessed, record)
	}
	if len(unprocessed) > 0 {
		s.logger.Warn("Batch write left unprocessed items",
			zap.String("table", table.Name),
			zap.Int("unprocessed", len(unprocessed)),
		)
	}
	return unprocessed, nil
}

// Add atomically adds delta to a numeric attribute of an existing record,
// returning the record's new state. The attribute_exists condition turns a
// missing key into ports.ErrRecordNotFound instead of creating a phantom
// record.
func (s *TableStore) Add(ctx context.Context, table ports.Table, key, attribute string, delta int) (school.Record, error) {
	update := expression.Add(expression.Name(attribute), expression.Value(delta))
	condition := expression.AttributeExists(expression.Name(table.Key))
	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(condition).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build add expression: %w", err)
	}

	result, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table.Name),
		Key:                       keyAttribute(table, key),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return nil, ports.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to add %d to %s.%s %q: %w", delta, table.Name, attribute, key, err)
	}

	return unmarshalRecord(result.Attributes)
}

// Scan reads the whole table, following pagination.
func (s *TableStore) Scan(ctx context.Context, table ports.Table) ([]school.Record, error) {
	var records []school.Record
	var startKey map[string]types.AttributeValue

	for {
		result, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(table.Name),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan on %s failed: %w", table.Name, err)
		}

		for _, item := range result.Items {
			record, err := unmarshalRecord(item)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return records, nil
}

func keyAttribute(table ports.Table, key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		table.Key: &types.AttributeValueMemberS{Value: key},
	}
}

func unmarshalRecord(item map[string]types.AttributeValue) (school.Record, error) {
	record := make(map[string]any, len(item))
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return school.Record(record), nil
}
