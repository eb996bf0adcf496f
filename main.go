package main

import (
	"bizdesk-backend/controller"
	"bizdesk-backend/models"
	"bizdesk-backend/utils"
	"bizdesk-backend/utils/logger"
	"bizdesk-backend/worker"
	"context"
	"log"

	"github.com/gin-gonic/gin"
)

var config *models.Config

func Init() {
	var err error
	config, err = utils.GetConfig()
	if err != nil {
		log.Fatal(err)
	}
}

// @title BizDesk Backend API
// @version 1.0
// @description Multi-tenant admin backend with session identity and company impersonation
// @description
// @description ## Authentication flow:
// @description ### Step 1: Register
// @description **POST /user/register** - Create an account
// @description ### Step 2: Login
// @description **POST /user/login** - Obtain a Bearer token
// @description ### Step 3: Impersonate (SUPER_ADMIN only)
// @description **POST /impersonate** - Act as a company admin; an HttpOnly cookie carries the impersonation session
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api/v1/auth

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Enter 'Bearer' [space] and then your token in the text input below.
func main() {
	Init()

	ctx := context.Background()
	appLogger := logger.NewLogger(config.LogLevel, config.LogFormat)

	appLogger.Infof("Starting %s %s (%s)", config.AppName, config.AppVersion, config.AppEnv)

	r := gin.New()
	c := controller.NewController(ctx, config, appLogger)

	// Start server (this is blocking)
	go c.RegisterRoutes(ctx, config, r, config.BasePath)

	// Start session maintenance worker: table bootstrap + revoked-token sweep
	maintenanceWorker, err := worker.NewWorker(ctx, config, appLogger, c.JWTManager())
	if err != nil {
		log.Fatalf("Failed to create session maintenance worker: %v", err)
	}

	if err := maintenanceWorker.Start(); err != nil {
		log.Fatalf("Failed to start session maintenance worker: %v", err)
	}

	// Keep main goroutine alive
	select {}
}
