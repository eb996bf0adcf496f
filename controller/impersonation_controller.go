package controller

import (
	"bizdesk-backend/middelware"
	"bizdesk-backend/models"
	"bizdesk-backend/repository"
	"bizdesk-backend/services"
	"context"
	"errors"
	"net/http"

	"bizdesk-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

type ImpersonationController struct {
	ctx                  context.Context
	impersonationService services.ImpersonationServiceInterface
	propagator           *middelware.ImpersonationPropagator
	logger               logger.Logger
}

func NewImpersonationController(
	ctx context.Context,
	impersonationService services.ImpersonationServiceInterface,
	propagator *middelware.ImpersonationPropagator,
	log logger.Logger,
) *ImpersonationController {
	return &ImpersonationController{
		ctx:                  ctx,
		impersonationService: impersonationService,
		propagator:           propagator,
		logger:               log,
	}
}

// Impersonate handles POST /api/v1/auth/impersonate
// @Summary Impersonate a company administrator
// @Description Issue a signed impersonation token for the target company's administrator and set the impersonation cookie. Super admin only.
// @Tags Impersonation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.ImpersonateRequest true "Impersonation request"
// @Success 200 {object} models.APIResponse "Impersonation started"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid request body"
// @Failure 401 {object} models.APIResponse "Unauthorized - Missing or invalid session"
// @Failure 403 {object} models.APIResponse "Forbidden - Acting identity is not a super admin"
// @Failure 404 {object} models.APIResponse "Not Found - Company or company admin does not exist"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Issuance failed"
// @Router /impersonate [post]
func (h *ImpersonationController) Impersonate(c *gin.Context) {
	var req models.ImpersonateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", err)
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Invalid request",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: err.Error(),
			},
		})
		return
	}

	effective := middelware.EffectiveIdentityFromContext(c)
	if effective == nil {
		c.JSON(http.StatusUnauthorized, models.APIResponse{
			Status:  "error",
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
			Error: &models.APIError{
				Type:    "AuthenticationError",
				Details: "User not authenticated",
			},
		})
		return
	}

	// The effective identity is the actor here, so an already-impersonating
	// session cannot start a nested impersonation.
	actor := &models.Identity{
		ID:        effective.ID,
		Email:     effective.Email,
		FirstName: effective.FirstName,
		LastName:  effective.LastName,
		Role:      effective.Role,
		CompanyID: effective.CompanyID,
	}

	tokenString, summary, err := h.impersonationService.Impersonate(h.ctx, actor, req.CompanyID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotAllowed):
			c.JSON(http.StatusForbidden, models.APIResponse{
				Status:  "error",
				Code:    http.StatusForbidden,
				Message: "Only super administrators may impersonate",
				Error: &models.APIError{
					Type:    "AuthorizationError",
					Details: "Required role: SUPER_ADMIN",
				},
			})
		case errors.Is(err, repository.ErrCompanyNotFound):
			c.JSON(http.StatusNotFound, models.APIResponse{
				Status:  "error",
				Code:    http.StatusNotFound,
				Message: "Company not found",
				Error: &models.APIError{
					Type:    "NotFoundError",
					Details: "The specified company does not exist",
				},
			})
		case errors.Is(err, repository.ErrAdminNotFound):
			c.JSON(http.StatusNotFound, models.APIResponse{
				Status:  "error",
				Code:    http.StatusNotFound,
				Message: "Company admin not found",
				Error: &models.APIError{
					Type:    "NotFoundError",
					Details: "The company has no administrator account",
				},
			})
		default:
			h.logger.Errorf("Impersonation failed: %v", err)
			c.JSON(http.StatusInternalServerError, models.APIResponse{
				Status:  "error",
				Code:    http.StatusInternalServerError,
				Message: "Failed to start impersonation",
				Error: &models.APIError{
					Type:    "DatabaseError",
					Details: "An unexpected error occurred",
				},
			})
		}
		return
	}

	// Token and admin both resolved; only now does the cookie get set
	h.propagator.Store(c, tokenString)

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Impersonation started",
		Data: map[string]interface{}{
			"success":           true,
			"impersonationData": summary,
		},
	})
}

// StopImpersonation handles POST /api/v1/auth/stop-impersonation
// @Summary Stop impersonating
// @Description Clear the impersonation cookie. Safe to call whether or not impersonation is active.
// @Tags Impersonation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Impersonation stopped"
// @Failure 401 {object} models.APIResponse "Unauthorized - Missing or invalid session"
// @Router /stop-impersonation [post]
func (h *ImpersonationController) StopImpersonation(c *gin.Context) {
	effective := middelware.EffectiveIdentityFromContext(c)
	if effective == nil {
		c.JSON(http.StatusUnauthorized, models.APIResponse{
			Status:  "error",
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
			Error: &models.APIError{
				Type:    "AuthenticationError",
				Details: "User not authenticated",
			},
		})
		return
	}

	// Clearing is unconditional; stopping an inactive impersonation is a
	// no-op success.
	h.propagator.Clear(c)

	if effective.IsImpersonating {
		h.logger.Infof("User %s stopped impersonating %s", effective.OriginalEmail, effective.Email)
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Impersonation stopped",
		Data: map[string]interface{}{
			"success": true,
		},
	})
}

// WhoAmI handles GET /api/v1/auth/whoami
// @Summary Get the effective identity
// @Description Return the identity the current request is acting as, including impersonation state.
// @Tags Impersonation
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Effective identity"
// @Failure 401 {object} models.APIResponse "Unauthorized - Missing or invalid session"
// @Router /whoami [get]
func (h *ImpersonationController) WhoAmI(c *gin.Context) {
	effective := middelware.EffectiveIdentityFromContext(c)
	if effective == nil {
		c.JSON(http.StatusUnauthorized, models.APIResponse{
			Status:  "error",
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
			Error: &models.APIError{
				Type:    "AuthenticationError",
				Details: "User not authenticated",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Effective identity resolved",
		Data:    effective,
	})
}
