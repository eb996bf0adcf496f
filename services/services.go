package services

import (
	"bizdesk-backend/models"
	"bizdesk-backend/repository"
	"bizdesk-backend/utils/logger"
	"bizdesk-backend/utils/token"
	"context"
)

// Service implements ServiceContainerInterface
type Service struct {
	userService          UserServiceInterface
	companyService       CompanyServiceInterface
	impersonationService ImpersonationServiceInterface
}

// NewService creates a new service container with all dependencies injected
func NewService(
	ctx context.Context,
	repoContainer repository.RepositoryContainerInterface,
	signer *token.Signer,
	log logger.Logger,
	config *models.Config,
) ServiceContainerInterface {
	return &Service{
		userService:    NewUserService(ctx, repoContainer.GetUserRepository(), log),
		companyService: NewCompanyService(repoContainer.GetCompanyRepository(), log),
		impersonationService: NewImpersonationService(
			repoContainer.GetUserRepository(),
			repoContainer.GetCompanyRepository(),
			signer,
			config,
			log,
		),
	}
}

// GetUserService returns the user service interface
func (s *Service) GetUserService() UserServiceInterface {
	return s.userService
}

// GetCompanyService returns the company service interface
func (s *Service) GetCompanyService() CompanyServiceInterface {
	return s.companyService
}

// GetImpersonationService returns the impersonation service interface
func (s *Service) GetImpersonationService() ImpersonationServiceInterface {
	return s.impersonationService
}
