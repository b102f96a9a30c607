package tableservice

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
)

// DynamoAPI is the slice of the DynamoDB client used by DynamoTable.
// Satisfied by both *dynamodb.Client and test doubles.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *ddb.PutItemInput, optFns ...func(*ddb.Options)) (*ddb.PutItemOutput, error)
	GetItem(ctx context.Context, params *ddb.GetItemInput, optFns ...func(*ddb.Options)) (*ddb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *ddb.UpdateItemInput, optFns ...func(*ddb.Options)) (*ddb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *ddb.DeleteItemInput, optFns ...func(*ddb.Options)) (*ddb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *ddb.ScanInput, optFns ...func(*ddb.Options)) (*ddb.ScanOutput, error)
}

// DynamoTable is the TableService implementation backed by a managed
// DynamoDB table. Service errors are returned to the caller unmodified.
type DynamoTable struct {
	client DynamoAPI
	name   string
	logger *logrus.Logger
}

// NewDynamoTable creates a handle for the named DynamoDB table.
func NewDynamoTable(client DynamoAPI, name string, logger *logrus.Logger) *DynamoTable {
	if logger == nil {
		logger = logrus.New()
	}
	return &DynamoTable{
		client: client,
		name:   name,
		logger: logger,
	}
}

// Put implements TableService.Put
func (t *DynamoTable) Put(ctx context.Context, item Record) (Record, error) {
	if len(item) == 0 {
		return nil, NewTableError("Put", t.name, ErrMissingItem)
	}

	av, err := attributevalue.MarshalMap(map[string]any(item))
	if err != nil {
		return nil, err
	}

	_, err = t.client.PutItem(ctx, &ddb.PutItemInput{
		TableName: aws.String(t.name),
		Item:      av,
	})
	if err != nil {
		return nil, err
	}

	t.logger.WithFields(logrus.Fields{
		"table": t.name,
	}).Debug("put item")

	// DynamoDB returns no attributes for a plain put.
	return Record{}, nil
}

// Get implements TableService.Get
func (t *DynamoTable) Get(ctx context.Context, key Record) (Record, error) {
	av, err := t.marshalKey("Get", key)
	if err != nil {
		return nil, err
	}

	out, err := t.client.GetItem(ctx, &ddb.GetItemInput{
		TableName: aws.String(t.name),
		Key:       av,
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return Record{}, nil
	}
	return unmarshalRecord(out.Item)
}

// Update implements TableService.Update. Changes are compiled into a SET
// update expression and the post-update record is returned.
func (t *DynamoTable) Update(ctx context.Context, key Record, changes Record) (Record, error) {
	av, err := t.marshalKey("Update", key)
	if err != nil {
		return nil, err
	}

	expr, names, values, err := buildSetExpression(changes)
	if err != nil {
		return nil, err
	}

	out, err := t.client.UpdateItem(ctx, &ddb.UpdateItemInput{
		TableName:                 aws.String(t.name),
		Key:                       av,
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              ddbtypes.ReturnValueAllNew,
	})
	if err != nil {
		return nil, err
	}
	return unmarshalRecord(out.Attributes)
}

// Delete implements TableService.Delete
func (t *DynamoTable) Delete(ctx context.Context, key Record) (Record, error) {
	av, err := t.marshalKey("Delete", key)
	if err != nil {
		return nil, err
	}

	out, err := t.client.DeleteItem(ctx, &ddb.DeleteItemInput{
		TableName:    aws.String(t.name),
		Key:          av,
		ReturnValues: ddbtypes.ReturnValueAllOld,
	})
	if err != nil {
		return nil, err
	}
	if len(out.Attributes) == 0 {
		return Record{}, nil
	}
	return unmarshalRecord(out.Attributes)
}

// Scan implements TableService.Scan, following pagination until the
// table is exhausted.
func (t *DynamoTable) Scan(ctx context.Context) ([]Record, error) {
	var records []Record
	var startKey map[string]ddbtypes.AttributeValue

	for {
		out, err := t.client.Scan(ctx, &ddb.ScanInput{
			TableName:         aws.String(t.name),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		for _, item := range out.Items {
			rec, err := unmarshalRecord(item)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (t *DynamoTable) marshalKey(op string, key Record) (map[string]ddbtypes.AttributeValue, error) {
	if len(key) == 0 {
		return nil, NewTableError(op, t.name, ErrMissingKey)
	}
	return attributevalue.MarshalMap(map[string]any(key))
}

func unmarshalRecord(item map[string]ddbtypes.AttributeValue) (Record, error) {
	var m map[string]any
	if err := attributevalue.UnmarshalMap(item, &m); err != nil {
		return nil, err
	}
	return Record(m), nil
}

// buildSetExpression compiles a flat changes map into a SET update
// expression with placeholder names and values. Attribute order is
// sorted so the expression is deterministic.
func buildSetExpression(changes Record) (string, map[string]string, map[string]ddbtypes.AttributeValue, error) {
	if len(changes) == 0 {
		return "", nil, nil, ErrMissingItem
	}

	attrs := make([]string, 0, len(changes))
	for attr := range changes {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)

	names := make(map[string]string, len(attrs))
	values := make(map[string]ddbtypes.AttributeValue, len(attrs))
	clauses := make([]string, 0, len(attrs))

	for i, attr := range attrs {
		namePh := fmt.Sprintf("#n%d", i)
		valuePh := fmt.Sprintf(":v%d", i)

		av, err := attributevalue.Marshal(changes[attr])
		if err != nil {
			return "", nil, nil, err
		}
		names[namePh] = attr
		values[valuePh] = av
		clauses = append(clauses, fmt.Sprintf("%s = %s", namePh, valuePh))
	}

	return "SET " + strings.Join(clauses, ", "), names, values, nil
}

// DynamoResolver hands out DynamoTable handles sharing a single client.
type DynamoResolver struct {
	client DynamoAPI
	logger *logrus.Logger
}

// NewDynamoResolver creates a resolver over the given client.
func NewDynamoResolver(client DynamoAPI, logger *logrus.Logger) *DynamoResolver {
	return &DynamoResolver{
		client: client,
		logger: logger,
	}
}

// Resolve implements Resolver.Resolve
func (r *DynamoResolver) Resolve(tableName string) TableService {
	return NewDynamoTable(r.client, tableName, r.logger)
}
