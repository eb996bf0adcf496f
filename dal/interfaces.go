package dal

import (
	"context"

	"bizdesk-backend/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DatabaseClientInterface is the persistence seam the repositories depend
// on; the single production implementation is the DynamoDB client, tests
// substitute a mock.
type DatabaseClientInterface interface {
	// Item operations
	GetItem(ctx context.Context, config models.QueryConfig, result interface{}) error
	PutItem(ctx context.Context, tableName string, item interface{}) error
	UpdateItem(ctx context.Context, tableName, key, keyValue string, updates map[string]interface{}) error
	DeleteItem(ctx context.Context, tableName, key, value string) error

	// Query and scan
	QueryByIndex(ctx context.Context, tableName, indexName, keyName, keyValue string, results interface{}) error
	Scan(ctx context.Context, tableName string, results interface{}) error

	// Table management, used by the bootstrap worker
	CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error
	DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error)
}

// DALContainerInterface exposes the database client to the upper layers
type DALContainerInterface interface {
	GetDatabaseClient() DatabaseClientInterface
}
