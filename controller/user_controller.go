package controller

import (
	"bizdesk-backend/middelware"
	"bizdesk-backend/models"
	"bizdesk-backend/repository"
	"bizdesk-backend/utils"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"bizdesk-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	ctx        context.Context
	userRepo   repository.UserRepositoryInterface
	jwtManager *middelware.JWTManager
	logger     logger.Logger
}

func NewUserController(ctx context.Context, userRepo repository.UserRepositoryInterface, log logger.Logger, jwtManager *middelware.JWTManager) *UserController {
	return &UserController{
		ctx:        ctx,
		userRepo:   userRepo,
		logger:     log,
		jwtManager: jwtManager,
	}
}

// Register handles POST /api/v1/auth/user/register
// @Summary Register a new user
// @Description Create a new user account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterUser true "Registration request"
// @Success 201 {object} models.APIResponse "User registered successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid registration data"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Registration failed"
// @Router /user/register [post]
func (h *UserController) Register(c *gin.Context) {
	var req models.RegisterUser
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

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("Failed to hash password", fmt.Errorf("error: %v", err))
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to create user",
			Error: &models.APIError{
				Type:    "InternalError",
				Details: "Failed to process password",
			},
		})
		return
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.UserRoleEmployee,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}
	if req.CompanyID != "" {
		user.CompanyID = &req.CompanyID
	}

	created, err := h.userRepo.CreateUser(h.ctx, user)
	if err != nil {
		h.logger.Error("Failed to create user", fmt.Errorf("error: %v", err))
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to create user",
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
		Message: "User registered successfully",
		Data:    created,
	})
}

// Login handles POST /api/v1/auth/user/login
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body middelware.LoginCredentials true "Login request"
// @Success 200 {object} models.APIResponse "Login successful, returns JWT token"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid login data"
// @Failure 401 {object} models.APIResponse "Unauthorized - Invalid credentials"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Login failed"
// @Router /user/login [post]
func (h *UserController) Login(c *gin.Context) {
	// Delegate to the JWT manager's login authentication handler
	h.jwtManager.HandleLogin(c)
}

// Logout handles POST /api/v1/auth/user/logout
// @Summary User logout
// @Description Logout user and revoke current JWT token
// @Tags Authentication
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Logout successful"
// @Failure 401 {object} models.APIResponse "Unauthorized - Invalid or missing token"
// @Router /user/logout [post]
func (h *UserController) Logout(c *gin.Context) {
	claims, exists := c.Get(middelware.ContextKeyJWTClaims)
	if !exists {
		h.logger.Error("JWT claims not found in context")
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

	jwtClaims, ok := claims.(*models.JWTClaims)
	if !ok {
		h.logger.Error("Invalid JWT claims type")
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Invalid token claims",
			Error: &models.APIError{
				Type:    "TokenError",
				Details: "Invalid token structure",
			},
		})
		return
	}

	h.jwtManager.RevokeUserToken(jwtClaims.UserID, jwtClaims.ID, jwtClaims.ExpiresAt.Time)

	h.logger.Debugf("User %s logged out successfully", jwtClaims.UserID)

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Logout successful",
		Data: map[string]interface{}{
			"logged_out_at": jwtClaims.ExpiresAt.Time,
			"user_id":       jwtClaims.UserID,
		},
	})
}

// ValidateToken handles POST /api/v1/auth/user/validate
// @Summary      Validate JWT token
// @Description  Validate a JWT token and return user information
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body middelware.TokenValidationRequest true "Token validation request"
// @Success      200  {object}  models.APIResponse  "Token is valid"
// @Failure      400  {object}  models.APIResponse  "Bad Request - Missing or invalid token in request body"
// @Failure      401  {object}  models.APIResponse  "Unauthorized - Invalid or expired token"
// @Router       /user/validate [post]
func (h *UserController) ValidateToken(c *gin.Context) {
	h.jwtManager.ValidateTokenEndpoint(c)
}

// GetUser handles GET /api/v1/auth/user/{id}
// @Summary Get user details
// @Description Retrieve user details by ID
// @Tags User Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.APIResponse "User details retrieved successfully"
// @Failure 404 {object} models.APIResponse "Not Found - User does not exist"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to retrieve user"
// @Router /user/{id} [get]
func (h *UserController) GetUser(c *gin.Context) {
	userID := c.Param("id")

	users, err := h.userRepo.GetUser(userID)
	if err != nil {
		h.logger.Error("Failed to get user by ID", fmt.Errorf("error: %v", err))
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to get user by ID",
			Error: &models.APIError{
				Type:    "DatabaseError",
				Details: err.Error(),
			},
		})
		return
	}

	if len(users) == 0 {
		c.JSON(http.StatusNotFound, models.APIResponse{
			Status:  "error",
			Code:    http.StatusNotFound,
			Message: "User not found",
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "User details retrieved successfully",
		Data:    users[0],
	})
}

// GetUserList handles GET /api/v1/auth/user/list
// @Summary Get list of users
// @Description Retrieve a list of all users
// @Tags User Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param page query int false "Page number for pagination"
// @Param limit query int false "Number of users per page"
// @Param sort query string false "Sort order (e.g., 'asc' or 'desc')"
// @Success 200 {object} models.APIResponse "User list retrieved successfully"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to retrieve user list"
// @Router /user/list [get]
func (h *UserController) GetUserList(c *gin.Context) {
	page := 1
	limit := 10
	sort := "asc"

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

	if sortParam := c.Query("sort"); sortParam == "desc" {
		sort = "desc"
	}

	allUsers, err := h.userRepo.GetUser("")
	if err != nil {
		h.logger.Error("Failed to get user list", fmt.Errorf("error: %v", err))
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to get user list",
			Error: &models.APIError{
				Type:    "DatabaseError",
				Details: err.Error(),
			},
		})
		return
	}

	// Sort users by created_at
	if sort == "desc" {
		for i, j := 0, len(allUsers)-1; i < j; i, j = i+1, j-1 {
			allUsers[i], allUsers[j] = allUsers[j], allUsers[i]
		}
	}

	// Calculate pagination
	total := len(allUsers)
	totalPages := (total + limit - 1) / limit
	offset := (page - 1) * limit

	var paginatedUsers []*models.User
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		paginatedUsers = allUsers[offset:end]
	} else {
		paginatedUsers = []*models.User{}
	}

	responseData := map[string]interface{}{
		"users": paginatedUsers,
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
		Message: "User list retrieved successfully",
		Data:    responseData,
	})
}

// UpdateUser handles PATCH /api/v1/auth/user/update/{id}
// @Summary Update user details
// @Description Update user information by ID. Role changes are ignored; roles are managed by administrators only.
// @Tags User Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body models.User true "Update user request (role field will be ignored)"
// @Success 200 {object} models.APIResponse "User updated successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid user ID or data"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to update user"
// @Router /user/update/{id} [patch]
func (h *UserController) UpdateUser(c *gin.Context) {
	var req models.User
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

	userID := c.Param("id")
	if userID == "" {
		h.logger.Error("Missing user ID")
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Missing user ID",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "User ID is required",
			},
		})
		return
	}

	// Explicitly clear the role field to prevent self-service escalation
	req.Role = ""

	updatedUser, err := h.userRepo.UpdateUser(userID, &req)
	if err != nil {
		h.logger.Error("Failed to update user", fmt.Errorf("error: %v", err))
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to update user",
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
		Message: "User updated successfully",
		Data:    updatedUser,
	})
}
