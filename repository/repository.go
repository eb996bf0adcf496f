package repository

import (
	"bizdesk-backend/dal"
	"bizdesk-backend/models"

	"bizdesk-backend/utils/logger"
)

// Repository is the container for all repositories
type Repository struct {
	User    *UserRepository
	Company *CompanyRepository
}

func NewRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, cfg, log),
		Company: NewCompanyRepository(db, cfg, log),
	}
}

// GetUserRepository returns the user repository
func (r *Repository) GetUserRepository() UserRepositoryInterface {
	return r.User
}

// GetCompanyRepository returns the company repository
func (r *Repository) GetCompanyRepository() CompanyRepositoryInterface {
	return r.Company
}
