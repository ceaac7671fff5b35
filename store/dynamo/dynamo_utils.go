package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/zlnvch/markwiki/store"
)

func newDynamoDBClient(ctx context.Context, devMode bool, dynamodbEndpoint string) (*dynamodb.Client, error) {
	var cfg aws.Config
	var err error

	if devMode {
		// Load config with dummy credentials and region for local/dev
		cfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion("us-east-1"),
			config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider("dummy", "dummy", ""),
			),
		)
		if err != nil {
			return nil, err
		}

		// Override endpoint for DynamoDB locally
		return dynamodb.New(dynamodb.Options{
			Credentials:      cfg.Credentials,
			Region:           cfg.Region,
			EndpointResolver: dynamodb.EndpointResolverFromURL(dynamodbEndpoint),
		}), nil
	}

	// Production: default config (uses task role and AWS endpoints)
	cfg, err = config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(cfg), nil
}

func getTables(client *dynamodb.Client, ctx context.Context) ([]string, error) {
	output, err := client.ListTables(ctx, &dynamodb.ListTablesInput{})
	if err != nil {
		return nil, err
	}

	return output.TableNames, nil
}

// getItem retrieves an item of type T from DynamoDB by PK and SK
func getItem[T any](dynamoStore *DynamoUserStore, ctx context.Context, pk string, sk string, consistentRead bool) (T, error) {
	var zero T

	key := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}

	resp, err := dynamoStore.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(dynamoStore.tableName),
		Key:            key,
		ConsistentRead: aws.Bool(consistentRead),
	})
	if err != nil {
		return zero, fmt.Errorf("GetItem failed: %w", err)
	}
	if resp.Item == nil {
		return zero, store.ErrUserNotFound
	}

	var item T
	if err := attributevalue.UnmarshalMap(resp.Item, &item); err != nil {
		return zero, fmt.Errorf("failed to unmarshal item: %w", err)
	}

	return item, nil
}

// putNewItem inserts an item only if its PK+SK is not already present.
func putNewItem[T any](dynamoStore *DynamoUserStore, ctx context.Context, item T) error {
	avMap, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	_, err = dynamoStore.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(dynamoStore.tableName),
		Item:                avMap,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			return store.ErrUserExists
		}
		return fmt.Errorf("failed to put item: %w", err)
	}

	return nil
}

// putItem writes an item unconditionally, creating or replacing it.
func putItem[T any](dynamoStore *DynamoUserStore, ctx context.Context, item T) error {
	avMap, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	_, err = dynamoStore.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(dynamoStore.tableName),
		Item:      avMap,
	})
	if err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}

	return nil
}

// deleteItem removes an item by PK and SK, failing if it does not exist.
func deleteItem(dynamoStore *DynamoUserStore, ctx context.Context, pk string, sk string) error {
	key := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}

	_, err := dynamoStore.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(dynamoStore.tableName),
		Key:                 key,
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			return store.ErrUserNotFound
		}
		return fmt.Errorf("delete failed: %w", err)
	}

	return nil
}
