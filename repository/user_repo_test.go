package repository

import (
	"context"
	"errors"
	"testing"

	"bizdesk-backend/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockLogger is a mock implementation of logger.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(args ...interface{}) { m.Called(args...) }
func (m *MockLogger) Info(args ...interface{})  { m.Called(args...) }
func (m *MockLogger) Warn(args ...interface{})  { m.Called(args...) }
func (m *MockLogger) Error(args ...interface{}) { m.Called(args...) }
func (m *MockLogger) Fatal(args ...interface{}) { m.Called(args...) }
func (m *MockLogger) Debugf(format string, args ...interface{}) { m.Called(format, args) }
func (m *MockLogger) Infof(format string, args ...interface{})  { m.Called(format, args) }
func (m *MockLogger) Warnf(format string, args ...interface{})  { m.Called(format, args) }
func (m *MockLogger) Errorf(format string, args ...interface{}) { m.Called(format, args) }
func (m *MockLogger) Fatalf(format string, args ...interface{}) { m.Called(format, args) }

func newPermissiveMockLogger() *MockLogger {
	log := &MockLogger{}
	log.On("Debug", mock.Anything).Return().Maybe()
	log.On("Info", mock.Anything).Return().Maybe()
	log.On("Warn", mock.Anything).Return().Maybe()
	log.On("Error", mock.Anything).Return().Maybe()
	log.On("Debugf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	log.On("Infof", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	log.On("Warnf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	log.On("Errorf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	return log
}

// MockDatabaseClient is a mock implementation of dal.DatabaseClientInterface
type MockDatabaseClient struct {
	mock.Mock
}

func (m *MockDatabaseClient) GetItem(ctx context.Context, config models.QueryConfig, result interface{}) error {
	args := m.Called(ctx, config, result)
	return args.Error(0)
}

func (m *MockDatabaseClient) PutItem(ctx context.Context, tableName string, item interface{}) error {
	args := m.Called(ctx, tableName, item)
	return args.Error(0)
}

func (m *MockDatabaseClient) UpdateItem(ctx context.Context, tableName, key, keyValue string, updates map[string]interface{}) error {
	args := m.Called(ctx, tableName, key, keyValue, updates)
	return args.Error(0)
}

func (m *MockDatabaseClient) DeleteItem(ctx context.Context, tableName, key, value string) error {
	args := m.Called(ctx, tableName, key, value)
	return args.Error(0)
}

func (m *MockDatabaseClient) QueryByIndex(ctx context.Context, tableName, indexName, keyName, keyValue string, results interface{}) error {
	args := m.Called(ctx, tableName, indexName, keyName, keyValue, results)
	return args.Error(0)
}

func (m *MockDatabaseClient) Scan(ctx context.Context, tableName string, results interface{}) error {
	args := m.Called(ctx, tableName, results)
	return args.Error(0)
}

func (m *MockDatabaseClient) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockDatabaseClient) DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error) {
	args := m.Called(ctx, tableName)
	if out := args.Get(0); out != nil {
		return out.(*dynamodb.DescribeTableOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

type UserRepositoryTestSuite struct {
	suite.Suite
	mockDB *MockDatabaseClient
	repo   *UserRepository
}

func (suite *UserRepositoryTestSuite) SetupTest() {
	suite.mockDB = &MockDatabaseClient{}
	cfg := &models.Config{DynamoDBTablePrefix: "bizdesk_test"}
	suite.repo = NewUserRepository(suite.mockDB, cfg, newPermissiveMockLogger())
}

func (suite *UserRepositoryTestSuite) TestDetermineKeyType() {
	tests := []struct {
		key       string
		keyType   string
		indexName string
	}{
		{"550e8400-e29b-41d4-a716-446655440000", "id", ""},
		{"550E8400-E29B-41D4-A716-446655440000", "id", ""},
		{"admin@acme.com", "email", "email-index"},
		{"jdoe", "username", "username-index"},
		{"not-a-uuid-550e8400", "username", "username-index"},
	}

	for _, tt := range tests {
		keyType, indexName, _ := suite.repo.determineKeyType(tt.key)
		assert.Equal(suite.T(), tt.keyType, keyType, "key %q", tt.key)
		assert.Equal(suite.T(), tt.indexName, indexName, "key %q", tt.key)
	}
}

func (suite *UserRepositoryTestSuite) TestGetUserByID() {
	id := "550e8400-e29b-41d4-a716-446655440000"

	suite.mockDB.On("GetItem", mock.Anything, mock.MatchedBy(func(cfg models.QueryConfig) bool {
		return cfg.TableName == "bizdesk_test_users" && cfg.KeyName == "id" && cfg.KeyValue == id && cfg.IndexName == ""
	}), mock.Anything).Run(func(args mock.Arguments) {
		user := args.Get(2).(*models.User)
		user.ID = id
		user.Email = "admin@acme.com"
		user.Role = models.UserRoleAdmin
	}).Return(nil)

	users, err := suite.repo.GetUser(id)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), users, 1)
	assert.Equal(suite.T(), "admin@acme.com", users[0].Email)
}

func (suite *UserRepositoryTestSuite) TestGetUserByEmailUsesIndex() {
	suite.mockDB.On("GetItem", mock.Anything, mock.MatchedBy(func(cfg models.QueryConfig) bool {
		return cfg.IndexName == "email-index" && cfg.KeyName == "email" && cfg.KeyValue == "admin@acme.com"
	}), mock.Anything).Run(func(args mock.Arguments) {
		user := args.Get(2).(*models.User)
		user.ID = "user-1"
		user.Email = "admin@acme.com"
	}).Return(nil)

	users, err := suite.repo.GetUser("admin@acme.com")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), users, 1)
	suite.mockDB.AssertExpectations(suite.T())
}

func (suite *UserRepositoryTestSuite) TestGetUserNotFoundReturnsEmpty() {
	suite.mockDB.On("GetItem", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	users, err := suite.repo.GetUser("ghost")
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), users)
}

func (suite *UserRepositoryTestSuite) TestGetUserEmptyKeyScansTable() {
	suite.mockDB.On("Scan", mock.Anything, "bizdesk_test_users", mock.Anything).Run(func(args mock.Arguments) {
		users := args.Get(2).(*[]*models.User)
		*users = []*models.User{{ID: "user-1"}, {ID: "user-2"}}
	}).Return(nil)

	users, err := suite.repo.GetUser("")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), users, 2)
}

func (suite *UserRepositoryTestSuite) TestGetCompanyAdminPicksAdminRole() {
	suite.mockDB.On("QueryByIndex", mock.Anything, "bizdesk_test_users", "company_id-index", "company_id", "company-789", mock.Anything).
		Run(func(args mock.Arguments) {
			users := args.Get(5).(*[]*models.User)
			*users = []*models.User{
				{ID: "staff-1", Role: models.UserRoleStaff},
				{ID: "admin-1", Role: models.UserRoleAdmin, Email: "admin@acme.com"},
				{ID: "admin-2", Role: models.UserRoleAdmin},
			}
		}).Return(nil)

	admin, err := suite.repo.GetCompanyAdmin(context.Background(), "company-789")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "admin-1", admin.ID)
	assert.Equal(suite.T(), "admin@acme.com", admin.Email)
}

func (suite *UserRepositoryTestSuite) TestGetCompanyAdminNoAdmin() {
	suite.mockDB.On("QueryByIndex", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			users := args.Get(5).(*[]*models.User)
			*users = []*models.User{
				{ID: "staff-1", Role: models.UserRoleStaff},
				{ID: "emp-1", Role: models.UserRoleEmployee},
			}
		}).Return(nil)

	admin, err := suite.repo.GetCompanyAdmin(context.Background(), "company-789")
	assert.ErrorIs(suite.T(), err, ErrAdminNotFound)
	assert.Nil(suite.T(), admin)
}

func (suite *UserRepositoryTestSuite) TestGetCompanyAdminEmptyCompanyID() {
	admin, err := suite.repo.GetCompanyAdmin(context.Background(), "")
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), admin)
	suite.mockDB.AssertNotCalled(suite.T(), "QueryByIndex")
}

func (suite *UserRepositoryTestSuite) TestGetCompanyAdminQueryError() {
	suite.mockDB.On("QueryByIndex", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("dynamodb unavailable"))

	admin, err := suite.repo.GetCompanyAdmin(context.Background(), "company-789")
	assert.Error(suite.T(), err)
	assert.NotErrorIs(suite.T(), err, ErrAdminNotFound)
	assert.Nil(suite.T(), admin)
}

func (suite *UserRepositoryTestSuite) TestCreateUserAssignsIdentityFields() {
	// No existing user under either index
	suite.mockDB.On("GetItem", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.mockDB.On("PutItem", mock.Anything, "bizdesk_test_users", mock.Anything).Return(nil)

	user := &models.User{
		Email:    "new@acme.com",
		Username: "newbie",
		Role:     models.UserRoleEmployee,
	}
	created, err := suite.repo.CreateUser(context.Background(), user)
	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), created.ID)
	assert.Equal(suite.T(), models.UserStatusActive, created.Status)
	assert.False(suite.T(), created.CreatedAt.IsZero())
}

func (suite *UserRepositoryTestSuite) TestCreateUserDuplicateEmail() {
	suite.mockDB.On("GetItem", mock.Anything, mock.MatchedBy(func(cfg models.QueryConfig) bool {
		return cfg.IndexName == "email-index"
	}), mock.Anything).Run(func(args mock.Arguments) {
		user := args.Get(2).(*models.User)
		user.ID = "existing-1"
	}).Return(nil)

	created, err := suite.repo.CreateUser(context.Background(), &models.User{
		Email:    "taken@acme.com",
		Username: "whoever",
	})
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "email already exists")
	assert.Nil(suite.T(), created)
	suite.mockDB.AssertNotCalled(suite.T(), "PutItem")
}

func (suite *UserRepositoryTestSuite) TestCreateUserDuplicateUsername() {
	suite.mockDB.On("GetItem", mock.Anything, mock.MatchedBy(func(cfg models.QueryConfig) bool {
		return cfg.IndexName == "email-index"
	}), mock.Anything).Return(nil)
	suite.mockDB.On("GetItem", mock.Anything, mock.MatchedBy(func(cfg models.QueryConfig) bool {
		return cfg.IndexName == "username-index"
	}), mock.Anything).Run(func(args mock.Arguments) {
		user := args.Get(2).(*models.User)
		user.ID = "existing-2"
	}).Return(nil)

	created, err := suite.repo.CreateUser(context.Background(), &models.User{
		Email:    "fresh@acme.com",
		Username: "taken",
	})
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "username already exists")
	assert.Nil(suite.T(), created)
}

func TestUserRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}
