package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/zlnvch/markwiki/models"
)

// DynamoUserStore is the DynamoDB-backed implementation of store.UserStore.
// The JSON file store is the default; this backend exists so deployments can
// swap in a real key-value store without touching callers.
type DynamoUserStore struct {
	client    *dynamodb.Client
	tableName string
}

func NewDynamoUserStore(ctx context.Context, devMode bool, dynamodbEndpoint string, tableName string) (*DynamoUserStore, error) {
	client, err := newDynamoDBClient(ctx, devMode, dynamodbEndpoint)
	if err != nil {
		return nil, err
	}

	tables, err := getTables(client, ctx)
	if err != nil {
		return nil, err
	}

	foundTable := false
	for _, table := range tables {
		if table == tableName {
			foundTable = true
			break
		}
	}
	if !foundTable {
		return nil, fmt.Errorf("given table name '%s' not found in dynamodb", tableName)
	}

	return &DynamoUserStore{client: client, tableName: tableName}, nil
}

func (dynamoStore *DynamoUserStore) CreateUser(ctx context.Context, name string, user models.User) (models.User, error) {
	du := userToDynamo(name, user)
	if err := putNewItem(dynamoStore, ctx, du); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (dynamoStore *DynamoUserStore) GetUser(ctx context.Context, name string) (models.User, error) {
	du, err := getItem[dynamoUser](dynamoStore, ctx, userPK(name), userSK, true)
	if err != nil {
		return models.User{}, err
	}
	return userFromDynamo(du), nil
}

func (dynamoStore *DynamoUserStore) UpdateUser(ctx context.Context, name string, user models.User) error {
	// Unconditional put, mirroring the file store's whole-record overwrite.
	return putItem(dynamoStore, ctx, userToDynamo(name, user))
}

func (dynamoStore *DynamoUserStore) DeleteUser(ctx context.Context, name string) error {
	return deleteItem(dynamoStore, ctx, userPK(name), userSK)
}
