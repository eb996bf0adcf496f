package services

import (
	"bizdesk-backend/models"
	"bizdesk-backend/repository"
	"bizdesk-backend/utils/logger"
	"context"
)

type CompanyService struct {
	repo   repository.CompanyRepositoryInterface
	logger logger.Logger
}

func NewCompanyService(repo repository.CompanyRepositoryInterface, log logger.Logger) *CompanyService {
	return &CompanyService{
		repo:   repo,
		logger: log,
	}
}

func (s *CompanyService) CreateCompany(ctx context.Context, company *models.Company, createdBy string) (*models.Company, error) {
	company.CreatedBy = createdBy
	return s.repo.CreateCompany(ctx, company)
}

func (s *CompanyService) GetCompany(key string) ([]*models.Company, error) {
	return s.repo.GetCompany(key)
}

func (s *CompanyService) GetCompanies(ctx context.Context) ([]*models.Company, error) {
	return s.repo.GetCompanies(ctx)
}

func (s *CompanyService) UpdateCompany(id string, company *models.Company, updatedBy string) (*models.Company, error) {
	company.UpdatedBy = updatedBy
	return s.repo.UpdateCompany(id, company)
}

func (s *CompanyService) DeleteCompany(id string) error {
	return s.repo.DeleteCompany(id)
}
