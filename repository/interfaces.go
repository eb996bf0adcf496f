package repository

import (
	"bizdesk-backend/models"
	"context"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUser(key string) ([]*models.User, error)
	GetCompanyAdmin(ctx context.Context, companyID string) (*models.User, error)
	UpdateUser(id string, user *models.User) (*models.User, error)
}

// CompanyRepositoryInterface defines the contract for company repository operations
type CompanyRepositoryInterface interface {
	CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error)
	GetCompany(key string) ([]*models.Company, error)
	GetCompanies(ctx context.Context) ([]*models.Company, error)
	UpdateCompany(id string, company *models.Company) (*models.Company, error)
	DeleteCompany(id string) error
}

// RepositoryContainerInterface defines the contract for the repository container
type RepositoryContainerInterface interface {
	GetUserRepository() UserRepositoryInterface
	GetCompanyRepository() CompanyRepositoryInterface
}
