package services

import (
	"bizdesk-backend/models"
	"bizdesk-backend/repository"
	"bizdesk-backend/utils/logger"
	"bizdesk-backend/utils/token"
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotAllowed is returned when the acting identity lacks the role
// required for an operation.
var ErrNotAllowed = errors.New("insufficient role for this operation")

// ImpersonationService issues signed, time-boxed impersonation tokens that
// let a super administrator act as a company's administrator.
type ImpersonationService struct {
	userRepo    repository.UserRepositoryInterface
	companyRepo repository.CompanyRepositoryInterface
	signer      *token.Signer
	config      *models.Config
	logger      logger.Logger
}

func NewImpersonationService(
	userRepo repository.UserRepositoryInterface,
	companyRepo repository.CompanyRepositoryInterface,
	signer *token.Signer,
	cfg *models.Config,
	log logger.Logger,
) *ImpersonationService {
	return &ImpersonationService{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		signer:      signer,
		config:      cfg,
		logger:      log,
	}
}

// requireRole is the authorization gate: an exact, case-sensitive match of
// the acting identity's role against the allowed set. Pure function.
func requireRole(identity *models.Identity, allowedRoles ...models.UserRole) error {
	if identity == nil {
		return ErrNotAllowed
	}
	for _, role := range allowedRoles {
		if identity.Role == role {
			return nil
		}
	}
	return ErrNotAllowed
}

// Impersonate resolves the target company's administrator and returns a
// signed impersonation token plus a public summary for UI confirmation.
// The role gate is re-verified server-side on every call; client-supplied
// role claims are never trusted. Issuance is all-or-nothing: nothing is
// signed until both the company and its admin have been resolved.
func (s *ImpersonationService) Impersonate(ctx context.Context, actor *models.Identity, companyID string) (string, *models.ImpersonationSummary, error) {
	if err := requireRole(actor, models.UserRoleSuperAdmin); err != nil {
		if actor != nil {
			s.logger.Warnf("Impersonation denied for %s (role %s)", actor.Email, actor.Role)
		} else {
			s.logger.Warn("Impersonation denied for unauthenticated request")
		}
		return "", nil, err
	}

	companies, err := s.companyRepo.GetCompany(companyID)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return "", nil, repository.ErrCompanyNotFound
		}
		s.logger.Errorf("Failed to resolve company %s: %v", companyID, err)
		return "", nil, fmt.Errorf("failed to resolve company: %w", err)
	}
	if len(companies) == 0 {
		return "", nil, repository.ErrCompanyNotFound
	}
	company := companies[0]

	admin, err := s.userRepo.GetCompanyAdmin(ctx, company.ID)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return "", nil, repository.ErrAdminNotFound
		}
		s.logger.Errorf("Failed to resolve admin for company %s: %v", company.ID, err)
		return "", nil, fmt.Errorf("failed to resolve company admin: %w", err)
	}

	claims := &models.ImpersonationClaims{
		OriginalUserID:     actor.ID,
		OriginalRole:       actor.Role,
		OriginalEmail:      actor.Email,
		ImpersonatedUserID: admin.ID,
		ImpersonatedRole:   admin.Role,
		ImpersonatedEmail:  admin.Email,
		CompanyID:          company.ID,
		CompanyName:        company.Name,
		IsImpersonating:    true,
		Timestamp:          time.Now().UnixMilli(),
	}

	tokenString, err := s.signer.Sign(claims, s.config.ImpersonationTTL)
	if err != nil {
		s.logger.Errorf("Failed to sign impersonation token: %v", err)
		return "", nil, fmt.Errorf("failed to sign impersonation token: %w", err)
	}

	s.logger.Infof("Super admin %s impersonating admin %s of company %s", actor.Email, admin.Email, company.Name)

	summary := &models.ImpersonationSummary{
		CompanyID:       company.ID,
		CompanyName:     company.Name,
		AdminEmail:      admin.Email,
		Role:            admin.Role,
		IsImpersonating: true,
	}
	return tokenString, summary, nil
}
