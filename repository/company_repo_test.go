package repository

import (
	"context"
	"errors"
	"testing"

	"bizdesk-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CompanyRepositoryTestSuite struct {
	suite.Suite
	mockDB *MockDatabaseClient
	repo   *CompanyRepository
}

func (suite *CompanyRepositoryTestSuite) SetupTest() {
	suite.mockDB = &MockDatabaseClient{}
	cfg := &models.Config{DynamoDBTablePrefix: "bizdesk_test"}
	suite.repo = NewCompanyRepository(suite.mockDB, cfg, newPermissiveMockLogger())
}

func (suite *CompanyRepositoryTestSuite) TestGetCompanyByID() {
	id := "6fa459ea-ee8a-4ca4-894e-db77e160355e"

	suite.mockDB.On("GetItem", mock.Anything, mock.MatchedBy(func(cfg models.QueryConfig) bool {
		return cfg.TableName == "bizdesk_test_companies" && cfg.KeyName == "id" && cfg.KeyValue == id
	}), mock.Anything).Run(func(args mock.Arguments) {
		company := args.Get(2).(*models.Company)
		company.ID = id
		company.Name = "Acme Corp"
	}).Return(nil)

	companies, err := suite.repo.GetCompany(id)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), companies, 1)
	assert.Equal(suite.T(), "Acme Corp", companies[0].Name)
}

func (suite *CompanyRepositoryTestSuite) TestGetCompanyByNameUsesIndex() {
	suite.mockDB.On("GetItem", mock.Anything, mock.MatchedBy(func(cfg models.QueryConfig) bool {
		return cfg.IndexName == "name-index" && cfg.KeyName == "name" && cfg.KeyValue == "Acme Corp"
	}), mock.Anything).Run(func(args mock.Arguments) {
		company := args.Get(2).(*models.Company)
		company.ID = "company-789"
		company.Name = "Acme Corp"
	}).Return(nil)

	companies, err := suite.repo.GetCompany("Acme Corp")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), companies, 1)
	suite.mockDB.AssertExpectations(suite.T())
}

func (suite *CompanyRepositoryTestSuite) TestGetCompanyNotFound() {
	suite.mockDB.On("GetItem", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	companies, err := suite.repo.GetCompany("Ghost Inc")
	assert.ErrorIs(suite.T(), err, ErrCompanyNotFound)
	assert.Nil(suite.T(), companies)
}

func (suite *CompanyRepositoryTestSuite) TestGetCompanyEmptyKey() {
	companies, err := suite.repo.GetCompany("")
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), companies)
	suite.mockDB.AssertNotCalled(suite.T(), "GetItem")
}

func (suite *CompanyRepositoryTestSuite) TestCreateCompanyDefaultsStatus() {
	suite.mockDB.On("GetItem", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.mockDB.On("PutItem", mock.Anything, "bizdesk_test_companies", mock.Anything).Return(nil)

	created, err := suite.repo.CreateCompany(context.Background(), &models.Company{Name: "Acme Corp"})
	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), created.ID)
	assert.Equal(suite.T(), models.CompanyStatusActive, created.Status)
	assert.False(suite.T(), created.CreatedAt.IsZero())
}

func (suite *CompanyRepositoryTestSuite) TestCreateCompanyDuplicateName() {
	suite.mockDB.On("GetItem", mock.Anything, mock.MatchedBy(func(cfg models.QueryConfig) bool {
		return cfg.IndexName == "name-index" && cfg.KeyValue == "Acme Corp"
	}), mock.Anything).Run(func(args mock.Arguments) {
		company := args.Get(2).(*models.Company)
		company.ID = "existing-company"
	}).Return(nil)

	created, err := suite.repo.CreateCompany(context.Background(), &models.Company{Name: "Acme Corp"})
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "already exists")
	assert.Nil(suite.T(), created)
	suite.mockDB.AssertNotCalled(suite.T(), "PutItem")
}

func (suite *CompanyRepositoryTestSuite) TestGetCompanies() {
	suite.mockDB.On("Scan", mock.Anything, "bizdesk_test_companies", mock.Anything).Run(func(args mock.Arguments) {
		companies := args.Get(2).(*[]*models.Company)
		*companies = []*models.Company{{ID: "c-1"}, {ID: "c-2"}, {ID: "c-3"}}
	}).Return(nil)

	companies, err := suite.repo.GetCompanies(context.Background())
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), companies, 3)
}

func (suite *CompanyRepositoryTestSuite) TestDeleteCompanyNotFound() {
	suite.mockDB.On("GetItem", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	err := suite.repo.DeleteCompany("6fa459ea-ee8a-4ca4-894e-db77e160355e")
	assert.ErrorIs(suite.T(), err, ErrCompanyNotFound)
	suite.mockDB.AssertNotCalled(suite.T(), "DeleteItem")
}

func (suite *CompanyRepositoryTestSuite) TestDeleteCompany() {
	id := "6fa459ea-ee8a-4ca4-894e-db77e160355e"

	suite.mockDB.On("GetItem", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		company := args.Get(2).(*models.Company)
		company.ID = id
	}).Return(nil)
	suite.mockDB.On("DeleteItem", mock.Anything, "bizdesk_test_companies", "id", id).Return(nil)

	err := suite.repo.DeleteCompany(id)
	assert.NoError(suite.T(), err)
	suite.mockDB.AssertExpectations(suite.T())
}

func (suite *CompanyRepositoryTestSuite) TestUpdateCompanyBuildsPartialUpdate() {
	id := "6fa459ea-ee8a-4ca4-894e-db77e160355e"

	suite.mockDB.On("GetItem", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		company := args.Get(2).(*models.Company)
		company.ID = id
		company.Name = "Acme Corp"
	}).Return(nil)
	suite.mockDB.On("UpdateItem", mock.Anything, "bizdesk_test_companies", "id", id,
		mock.MatchedBy(func(updates map[string]interface{}) bool {
			_, hasName := updates["name"]
			_, hasEmail := updates["email"]
			_, hasUpdatedAt := updates["updated_at"]
			return hasName && hasUpdatedAt && !hasEmail
		})).Return(nil)

	updated, err := suite.repo.UpdateCompany(id, &models.Company{Name: "Acme Renamed"})
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), updated)
	suite.mockDB.AssertExpectations(suite.T())
}

func (suite *CompanyRepositoryTestSuite) TestUpdateCompanyDatabaseError() {
	suite.mockDB.On("GetItem", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		company := args.Get(2).(*models.Company)
		company.ID = "c-1"
	}).Return(nil)
	suite.mockDB.On("UpdateItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("conditional check failed"))

	updated, err := suite.repo.UpdateCompany("6fa459ea-ee8a-4ca4-894e-db77e160355e", &models.Company{Name: "X"})
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), updated)
}

func TestCompanyRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(CompanyRepositoryTestSuite))
}
