package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Item is a stored record in the store's tagged wire representation.
type Item = map[string]types.AttributeValue

// ScanOptions narrows a table scan.
type ScanOptions struct {
	FilterExpression     string
	ProjectionExpression string
	ExpressionValues     Item
}

// QueryOptions describes an index or key-condition query.
type QueryOptions struct {
	IndexName              string
	KeyConditionExpression string
	FilterExpression       string
	ProjectionExpression   string
	ExpressionValues       Item
}

// UpdateOptions carries an update expression and its bound values.
type UpdateOptions struct {
	UpdateExpression string
	ExpressionValues Item
}

// Gateway is the narrow contract the repositories consume. It carries no
// business logic; every method maps to a single store command.
type Gateway interface {
	Put(ctx context.Context, table string, item Item) error
	Get(ctx context.Context, table string, key Item) (Item, error)
	Scan(ctx context.Context, table string, opts ScanOptions) ([]Item, error)
	Query(ctx context.Context, table string, opts QueryOptions) ([]Item, error)
	Update(ctx context.Context, table string, key Item, opts UpdateOptions) error
}

type gateway struct {
	client *dynamodb.Client
}

// NewGateway wraps a DynamoDB client in the Gateway contract.
func NewGateway(client *dynamodb.Client) Gateway {
	return &gateway{client: client}
}

func (g *gateway) Put(ctx context.Context, table string, item Item) error {
	_, err := g.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", table, err)
	}
	return nil
}

func (g *gateway) Get(ctx context.Context, table string, key Item) (Item, error) {
	out, err := g.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	return out.Item, nil
}

func (g *gateway) Scan(ctx context.Context, table string, opts ScanOptions) ([]Item, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(table),
	}
	if opts.FilterExpression != "" {
		input.FilterExpression = aws.String(opts.FilterExpression)
	}
	if opts.ProjectionExpression != "" {
		input.ProjectionExpression = aws.String(opts.ProjectionExpression)
	}
	if len(opts.ExpressionValues) > 0 {
		input.ExpressionAttributeValues = opts.ExpressionValues
	}

	var items []Item
	for {
		out, err := g.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		items = append(items, out.Items...)
		if out.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (g *gateway) Query(ctx context.Context, table string, opts QueryOptions) ([]Item, error) {
	input := &dynamodb.QueryInput{
		TableName:                 aws.String(table),
		KeyConditionExpression:    aws.String(opts.KeyConditionExpression),
		ExpressionAttributeValues: opts.ExpressionValues,
	}
	if opts.IndexName != "" {
		input.IndexName = aws.String(opts.IndexName)
	}
	if opts.FilterExpression != "" {
		input.FilterExpression = aws.String(opts.FilterExpression)
	}
	if opts.ProjectionExpression != "" {
		input.ProjectionExpression = aws.String(opts.ProjectionExpression)
	}

	var items []Item
	for {
		out, err := g.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", table, err)
		}
		items = append(items, out.Items...)
		if out.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (g *gateway) Update(ctx context.Context, table string, key Item, opts UpdateOptions) error {
	_, err := g.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       key,
		UpdateExpression:          aws.String(opts.UpdateExpression),
		ExpressionAttributeValues: opts.ExpressionValues,
	})
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return nil
}
