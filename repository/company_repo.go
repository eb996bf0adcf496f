package repository

import (
	"bizdesk-backend/dal"
	"bizdesk-backend/models"
	"bizdesk-backend/utils"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"bizdesk-backend/utils/logger"
)

// ErrCompanyNotFound is returned when the requested company does not exist
var ErrCompanyNotFound = errors.New("company not found")

// CompanyRepository implements CompanyRepositoryInterface
type CompanyRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewCompanyRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *CompanyRepository {
	return &CompanyRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *CompanyRepository) companiesTable() string {
	return r.config.DynamoDBTablePrefix + "_companies"
}

func (r *CompanyRepository) CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error) {
	r.logger.Infof("Creating company: %s", company.Name)

	existingCompany := &models.Company{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.companiesTable(),
		IndexName: "name-index",
		KeyName:   "name",
		KeyValue:  company.Name,
		KeyType:   models.StringType,
	}, existingCompany)
	if err == nil && existingCompany.ID != "" {
		return nil, errors.New("company with this name already exists")
	}

	now := time.Now()
	company.ID = utils.GenerateUUID()
	company.CreatedAt = now
	company.UpdatedAt = now
	if company.Status == "" {
		company.Status = models.CompanyStatusActive
	}

	err = r.db.PutItem(ctx, r.companiesTable(), company)
	if err != nil {
		r.logger.Errorf("Failed to create company: %v", err)
		return nil, err
	}

	r.logger.Infof("Company created successfully: %s", company.ID)
	return company, nil
}

// GetCompany looks a company up by id or name depending on the key shape.
func (r *CompanyRepository) GetCompany(key string) ([]*models.Company, error) {
	ctx := context.Background()

	if key == "" {
		return nil, errors.New("company ID is required")
	}

	company := models.Company{}
	keyType, indexName, keyName := r.determineKeyType(key)

	var config models.QueryConfig
	if keyType == "id" {
		config = models.QueryConfig{
			TableName: r.companiesTable(),
			KeyName:   "id",
			KeyValue:  key,
			KeyType:   models.StringType,
		}
	} else {
		config = models.QueryConfig{
			TableName: r.companiesTable(),
			IndexName: indexName,
			KeyName:   keyName,
			KeyValue:  key,
			KeyType:   models.StringType,
		}
	}

	r.logger.Debugf("Querying %s with %s: %s", r.companiesTable(), keyName, key)

	err := r.db.GetItem(ctx, config, &company)
	if err != nil {
		r.logger.Errorf("Failed to get company by %s: %v", keyName, err)
		return nil, fmt.Errorf("failed to get company by %s: %w", keyName, err)
	}

	if company.ID == "" {
		return nil, ErrCompanyNotFound
	}

	return []*models.Company{&company}, nil
}

func (r *CompanyRepository) GetCompanies(ctx context.Context) ([]*models.Company, error) {
	companies := []*models.Company{}
	if err := r.db.Scan(ctx, r.companiesTable(), &companies); err != nil {
		r.logger.Errorf("Failed to scan companies: %v", err)
		return nil, err
	}
	return companies, nil
}

func (r *CompanyRepository) UpdateCompany(id string, company *models.Company) (*models.Company, error) {
	ctx := context.Background()

	existing, err := r.GetCompany(id)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, ErrCompanyNotFound
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if company.Name != "" {
		updates["name"] = company.Name
	}
	if company.Description != "" {
		updates["description"] = company.Description
	}
	if company.Status != "" {
		updates["status"] = company.Status
	}
	if company.Email != "" {
		updates["email"] = company.Email
	}
	if company.Phone != "" {
		updates["phone"] = company.Phone
	}
	if company.UpdatedBy != "" {
		updates["updated_by"] = company.UpdatedBy
	}

	if err := r.db.UpdateItem(ctx, r.companiesTable(), "id", id, updates); err != nil {
		r.logger.Errorf("Failed to update company %s: %v", id, err)
		return nil, err
	}

	updated, err := r.GetCompany(id)
	if err != nil {
		return nil, err
	}

	r.logger.Infof("Company updated successfully: %s", id)
	return updated[0], nil
}

func (r *CompanyRepository) DeleteCompany(id string) error {
	ctx := context.Background()

	existing, err := r.GetCompany(id)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return ErrCompanyNotFound
	}

	if err := r.db.DeleteItem(ctx, r.companiesTable(), "id", id); err != nil {
		r.logger.Errorf("Failed to delete company %s: %v", id, err)
		return err
	}

	r.logger.Infof("Company deleted successfully: %s", id)
	return nil
}

func (r *CompanyRepository) determineKeyType(key string) (keyType, indexName, keyName string) {
	uuidPattern := `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`
	isUUID, _ := regexp.MatchString(uuidPattern, strings.ToLower(key))

	if isUUID {
		return "id", "", "id"
	}
	return "name", "name-index", "name"
}
