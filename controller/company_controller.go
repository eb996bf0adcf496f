package controller

import (
	"bizdesk-backend/middelware"
	"bizdesk-backend/models"
	"bizdesk-backend/repository"
	"bizdesk-backend/services"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"bizdesk-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type CompanyController struct {
	ctx            context.Context
	companyService services.CompanyServiceInterface
	logger         logger.Logger
	validator      *validator.Validate
}

func NewCompanyController(ctx context.Context, companyService services.CompanyServiceInterface, log logger.Logger) *CompanyController {
	return &CompanyController{
		ctx:            ctx,
		companyService: companyService,
		logger:         log,
		validator:      validator.New(),
	}
}

// formatValidationErrors formats validation errors into readable messages
func (h *CompanyController) formatValidationErrors(err error) string {
	var errorMessages []string

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			switch fieldError.Tag() {
			case "required":
				errorMessages = append(errorMessages, fieldError.Field()+" is required")
			case "min":
				errorMessages = append(errorMessages, fieldError.Field()+" must be at least "+fieldError.Param()+" characters/items")
			case "max":
				errorMessages = append(errorMessages, fieldError.Field()+" must be at most "+fieldError.Param()+" characters/items")
			case "email":
				errorMessages = append(errorMessages, fieldError.Field()+" must be a valid email address")
			case "oneof":
				errorMessages = append(errorMessages, fieldError.Field()+" must be one of: "+strings.ReplaceAll(fieldError.Param(), " ", ", "))
			default:
				errorMessages = append(errorMessages, fieldError.Field()+" is invalid")
			}
		}
	}

	return strings.Join(errorMessages, "; ")
}

// actorID resolves the acting identity for audit attribution. During an
// impersonation session this is the original operator, not the persona.
func actorID(c *gin.Context) string {
	identity := middelware.EffectiveIdentityFromContext(c)
	if identity == nil {
		return ""
	}
	if identity.IsImpersonating {
		return identity.OriginalUserID
	}
	return identity.ID
}

// CreateCompany handles POST /api/v1/auth/company
// @Summary Create a new company
// @Description Create a new company (tenant) with the specified details
// @Tags Company Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.Company true "Company creation request"
// @Success 201 {object} models.APIResponse "Company created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid company data"
// @Failure 401 {object} models.APIResponse "Unauthorized - Authentication required"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to create company"
// @Router /company [post]
func (h *CompanyController) CreateCompany(c *gin.Context) {
	var req models.Company
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

	if req.Status == "" {
		req.Status = models.CompanyStatusActive
	}

	if err := h.validator.Struct(&req); err != nil {
		h.logger.Error("Validation failed:", err)
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Validation failed",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: h.formatValidationErrors(err),
			},
		})
		return
	}

	created, err := h.companyService.CreateCompany(h.ctx, &req, actorID(c))
	if err != nil {
		h.logger.Error("Failed to create company", fmt.Errorf("error: %v", err))
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to create company",
			Error: &models.APIError{
				Type:    "DatabaseError",
				Details: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Status:  "success",
		Code:    http.StatusCreated,
		Message: "Company created successfully",
		Data:    created,
	})
}

// GetCompany handles GET /api/v1/auth/company/{id}
// @Summary Get company details
// @Description Retrieve company details by ID or name
// @Tags Company Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Company ID or name"
// @Success 200 {object} models.APIResponse "Company details retrieved successfully"
// @Failure 404 {object} models.APIResponse "Not Found - Company does not exist"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to retrieve company"
// @Router /company/{id} [get]
func (h *CompanyController) GetCompany(c *gin.Context) {
	companyID := c.Param("id")

	companies, err := h.companyService.GetCompany(companyID)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			c.JSON(http.StatusNotFound, models.APIResponse{
				Status:  "error",
				Code:    http.StatusNotFound,
				Message: "Company not found",
			})
			return
		}
		h.logger.Error("Failed to get company", fmt.Errorf("error: %v", err))
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to get company",
			Error: &models.APIError{
				Type:    "DatabaseError",
				Details: err.Error(),
			},
		})
		return
	}

	if len(companies) == 0 {
		c.JSON(http.StatusNotFound, models.APIResponse{
			Status:  "error",
			Code:    http.StatusNotFound,
			Message: "Company not found",
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Company details retrieved successfully",
		Data:    companies[0],
	})
}

// GetCompanyList handles GET /api/v1/auth/company/list
// @Summary Get list of companies
// @Description Retrieve a paginated list of all companies
// @Tags Company Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param page query int false "Page number for pagination"
// @Param limit query int false "Number of companies per page"
// @Success 200 {object} models.APIResponse "Company list retrieved successfully"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to retrieve company list"
// @Router /company/list [get]
func (h *CompanyController) GetCompanyList(c *gin.Context) {
	page := 1
	limit := 10

	if pageParam := c.Query("page"); pageParam != "" {
		if p, err := strconv.Atoi(pageParam); err == nil && p > 0 {
			page = p
		}
	}

	if limitParam := c.Query("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	allCompanies, err := h.companyService.GetCompanies(h.ctx)
	if err != nil {
		h.logger.Error("Failed to get company list", fmt.Errorf("error: %v", err))
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to get company list",
			Error: &models.APIError{
				Type:    "DatabaseError",
				Details: err.Error(),
			},
		})
		return
	}

	total := len(allCompanies)
	totalPages := (total + limit - 1) / limit
	offset := (page - 1) * limit

	var paginatedCompanies []*models.Company
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		paginatedCompanies = allCompanies[offset:end]
	} else {
		paginatedCompanies = []*models.Company{}
	}

	responseData := map[string]interface{}{
		"companies": paginatedCompanies,
		"pagination": map[string]interface{}{
			"page":         page,
			"limit":        limit,
			"total":        total,
			"total_pages":  totalPages,
			"has_next":     page < totalPages,
			"has_previous": page > 1,
		},
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Company list retrieved successfully",
		Data:    responseData,
	})
}

// UpdateCompany handles PATCH /api/v1/auth/company/update/{id}
// @Summary Update company details
// @Description Update company information by ID
// @Tags Company Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Company ID"
// @Param request body models.Company true "Update company request"
// @Success 200 {object} models.APIResponse "Company updated successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid company ID or data"
// @Failure 404 {object} models.APIResponse "Not Found - Company does not exist"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to update company"
// @Router /company/update/{id} [patch]
func (h *CompanyController) UpdateCompany(c *gin.Context) {
	var req models.Company
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

	companyID := c.Param("id")
	if companyID == "" {
		h.logger.Error("Missing company ID")
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Missing company ID",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Company ID is required",
			},
		})
		return
	}

	updated, err := h.companyService.UpdateCompany(companyID, &req, actorID(c))
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			c.JSON(http.StatusNotFound, models.APIResponse{
				Status:  "error",
				Code:    http.StatusNotFound,
				Message: "Company not found",
			})
			return
		}
		h.logger.Error("Failed to update company", fmt.Errorf("error: %v", err))
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to update company",
			Error: &models.APIError{
				Type:    "DatabaseError",
				Details: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Company updated successfully",
		Data:    updated,
	})
}

// DeleteCompany handles DELETE /api/v1/auth/company/{id}
// @Summary Delete a company
// @Description Delete a company by ID
// @Tags Company Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} models.APIResponse "Company deleted successfully"
// @Failure 404 {object} models.APIResponse "Not Found - Company does not exist"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to delete company"
// @Router /company/{id} [delete]
func (h *CompanyController) DeleteCompany(c *gin.Context) {
	companyID := c.Param("id")

	if err := h.companyService.DeleteCompany(companyID); err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			c.JSON(http.StatusNotFound, models.APIResponse{
				Status:  "error",
				Code:    http.StatusNotFound,
				Message: "Company not found",
			})
			return
		}
		h.logger.Error("Failed to delete company", fmt.Errorf("error: %v", err))
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to delete company",
			Error: &models.APIError{
				Type:    "DatabaseError",
				Details: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Company deleted successfully",
		Data: map[string]interface{}{
			"deleted_id": companyID,
		},
	})
}
