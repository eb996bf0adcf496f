package worker

import (
	"bizdesk-backend/dal"
	"bizdesk-backend/infrastructure"
	"bizdesk-backend/models"
	"bizdesk-backend/utils/logger"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/smithy-go"
)

// TableBootstrap ensures the DynamoDB tables backing the identity store
// exist before the API starts serving sessions
type TableBootstrap struct {
	Config   *models.Config
	Logger   logger.Logger
	DBClient *dal.DynamoDBClient
}

// NewTableBootstrap creates a new table bootstrap handler
func NewTableBootstrap(cfg *models.Config, log logger.Logger) (*TableBootstrap, error) {
	dbClient, err := dal.NewDynamoDBClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}

	return &TableBootstrap{
		Config:   cfg,
		Logger:   log,
		DBClient: dbClient,
	}, nil
}

// Execute creates every required table that does not already exist.
// Tables are created sequentially to avoid throttling.
func (tb *TableBootstrap) Execute(ctx context.Context, requiredTables []string) error {
	tb.Logger.Info("Starting table bootstrap...")

	for _, tableName := range requiredTables {
		fullName := tb.Config.DynamoDBTablePrefix + "_" + tableName
		if err := tb.ensureTableWithRetry(ctx, fullName); err != nil {
			tb.Logger.Errorf("Failed to ensure table %s: %v", fullName, err)
			return err
		}
		tb.Logger.Infof("Table %s is ready", fullName)
	}

	return nil
}

// ensureTableWithRetry creates a table with retry logic
func (tb *TableBootstrap) ensureTableWithRetry(ctx context.Context, tableName string) error {
	maxRetries := 3
	baseDelay := 5 * time.Second

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * baseDelay
			tb.Logger.Infof("Retrying table creation for %s in %v (attempt %d/%d)", tableName, delay, attempt+1, maxRetries+1)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if exists, err := tb.tableExists(ctx, tableName); err != nil {
			tb.Logger.Errorf("Failed to check if table exists: %v", err)
			continue
		} else if exists {
			tb.Logger.Infof("Table %s already exists, skipping creation", tableName)
			return nil
		}

		if err := tb.createTableFromSchema(ctx, tableName); err != nil {
			tb.Logger.Errorf("Attempt %d failed to create table %s: %v", attempt+1, tableName, err)

			if attempt == maxRetries {
				return fmt.Errorf("failed to create table %s after %d attempts: %w", tableName, maxRetries+1, err)
			}
			continue
		}

		return tb.waitForTableActive(ctx, tableName)
	}

	return fmt.Errorf("exhausted all retry attempts for table %s", tableName)
}

func (tb *TableBootstrap) createTableFromSchema(ctx context.Context, tableName string) error {
	input, err := infrastructure.GetTables(tableName)
	if err != nil {
		return fmt.Errorf("failed to get table input: %w", err)
	}
	if err := tb.DBClient.CreateTable(ctx, input); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// waitForTableActive polls until the table reports ACTIVE status
func (tb *TableBootstrap) waitForTableActive(ctx context.Context, tableName string) error {
	deadline := time.Now().Add(5 * time.Minute)

	for time.Now().Before(deadline) {
		output, err := tb.DBClient.DescribeTable(ctx, tableName)
		if err == nil && output.Table != nil && string(output.Table.TableStatus) == "ACTIVE" {
			return nil
		}

		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("table %s did not become active in time", tableName)
}

// tableExists checks if a table already exists
func (tb *TableBootstrap) tableExists(ctx context.Context, tableName string) (bool, error) {
	_, err := tb.DBClient.DescribeTable(ctx, tableName)
	if err != nil {
		if isTableNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// isTableNotFoundError checks if error indicates table not found
func isTableNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ResourceNotFoundException"
	}

	// Fallback to string matching for wrapped or local errors
	errorStr := err.Error()
	return strings.Contains(errorStr, "ResourceNotFoundException") ||
		strings.Contains(errorStr, "Table not found") ||
		strings.Contains(errorStr, "Requested resource not found")
}
