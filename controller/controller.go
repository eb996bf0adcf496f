package controller

import (
	"bizdesk-backend/dal"
	"bizdesk-backend/middelware"
	"bizdesk-backend/models"
	"bizdesk-backend/repository"
	"bizdesk-backend/services"
	"bizdesk-backend/utils/token"
	"context"
	"net/http"

	"bizdesk-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"

	_ "bizdesk-backend/docs"
)

type Controller struct {
	User          *UserController
	Company       *CompanyController
	Impersonation *ImpersonationController

	jwtManager *middelware.JWTManager
	resolver   gin.HandlerFunc
}

func NewController(ctx context.Context, cfg *models.Config, log logger.Logger) *Controller {
	dbclient, err := dal.NewDynamoDBClient(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize DynamoDB client: %v", err)
	}

	repos := repository.NewRepository(dbclient, cfg, log)
	signer := token.NewSigner(cfg.JWTSecret, cfg.AppName)
	jwtManager := middelware.NewJWTManager(cfg, log, repos.User)
	propagator := middelware.NewImpersonationPropagator(cfg, log)

	svc := services.NewService(ctx, repos, signer, log, cfg)

	return &Controller{
		User:          NewUserController(ctx, repos.User, log, jwtManager),
		Company:       NewCompanyController(ctx, svc.GetCompanyService(), log),
		Impersonation: NewImpersonationController(ctx, svc.GetImpersonationService(), propagator, log),
		jwtManager:    jwtManager,
		resolver:      propagator.SessionResolver(signer, repos.User),
	}
}

// JWTManager exposes the JWT manager for background maintenance
func (c *Controller) JWTManager() *middelware.JWTManager {
	return c.jwtManager
}

func (c *Controller) RegisterRoutes(ctx context.Context, config *models.Config, r *gin.Engine, basePath string) error {
	c.mountRoutes(config, r, basePath)

	// Create HTTP server
	srv := &http.Server{
		Addr:    config.AppHost + ":" + config.AppPort,
		Handler: r,
	}

	// Start server
	log := logger.NewLogger(config.LogLevel, config.LogFormat)
	log.Infof("Starting server on %s:%s", config.AppHost, config.AppPort)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (c *Controller) mountRoutes(config *models.Config, r *gin.Engine, basePath string) {
	logging := middelware.NewLoggingMiddleware(c.jwtManager.Logger)
	cors := middelware.NewCORSMiddleware(config)
	r.Use(logging.Recovery(), logging.RequestLogger(), cors.CORS())

	// Serve the generated OpenAPI document
	r.GET("/swagger/doc.json", func(c *gin.Context) {
		doc, err := swag.ReadDoc()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "swagger document unavailable"})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	})

	v1 := r.Group(basePath)

	// Health check endpoint (no auth required)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": config.AppVersion,
			"service": config.AppName,
		})
	})

	auth := v1.Group("/auth")

	// Session establishment, no auth required
	user := auth.Group("/user")
	user.POST("/register", c.User.Register)
	user.POST("/login", c.User.Login)
	user.POST("/validate", c.User.ValidateToken)

	// Every protected endpoint goes through the auth middleware and the
	// session resolver; handlers only ever trust the effective identity.
	authed := []gin.HandlerFunc{c.jwtManager.AuthMiddleware(), c.resolver}

	user.POST("/logout", append(authed, c.User.Logout)...)
	user.GET("/list", append(authed, c.User.GetUserList)...)
	user.GET("/:id", append(authed, c.User.GetUser)...)
	user.PATCH("/update/:id", append(authed, c.User.UpdateUser)...)

	company := auth.Group("/company")
	company.Use(authed...)
	company.POST("", c.jwtManager.RequireRole(models.UserRoleSuperAdmin, models.UserRoleAdmin), c.Company.CreateCompany)
	company.GET("/list", c.Company.GetCompanyList)
	company.GET("/:id", c.Company.GetCompany)
	company.PATCH("/update/:id", c.jwtManager.RequireRole(models.UserRoleSuperAdmin, models.UserRoleAdmin), c.Company.UpdateCompany)
	company.DELETE("/:id", c.jwtManager.RequireRole(models.UserRoleSuperAdmin), c.Company.DeleteCompany)

	// Impersonation endpoints
	auth.POST("/impersonate", append(authed, c.jwtManager.RequireRole(models.UserRoleSuperAdmin), c.Impersonation.Impersonate)...)
	auth.POST("/stop-impersonation", append(authed, c.Impersonation.StopImpersonation)...)
	auth.GET("/whoami", append(authed, c.Impersonation.WhoAmI)...)
}
