package services

import (
	"bizdesk-backend/models"
	"context"
)

// UserServiceInterface defines the contract for user service
type UserServiceInterface interface {
	CreateUser(user *models.User) (*models.User, error)
	GetUser(key string) ([]*models.User, error)
	UpdateUser(id string, user *models.User) (*models.User, error)
}

// CompanyServiceInterface defines the contract for company service
type CompanyServiceInterface interface {
	CreateCompany(ctx context.Context, company *models.Company, createdBy string) (*models.Company, error)
	GetCompany(key string) ([]*models.Company, error)
	GetCompanies(ctx context.Context) ([]*models.Company, error)
	UpdateCompany(id string, company *models.Company, updatedBy string) (*models.Company, error)
	DeleteCompany(id string) error
}

// ImpersonationServiceInterface defines the contract for the impersonation
// token issuer
type ImpersonationServiceInterface interface {
	Impersonate(ctx context.Context, actor *models.Identity, companyID string) (string, *models.ImpersonationSummary, error)
}

// ServiceContainerInterface defines the main service container contract
type ServiceContainerInterface interface {
	GetUserService() UserServiceInterface
	GetCompanyService() CompanyServiceInterface
	GetImpersonationService() ImpersonationServiceInterface
}
