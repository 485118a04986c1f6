package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/hlee18lee46/clearwhistlenew/internal/api"
	"github.com/hlee18lee46/clearwhistlenew/internal/api/handlers"
	"github.com/hlee18lee46/clearwhistlenew/internal/api/middleware"
	"github.com/hlee18lee46/clearwhistlenew/internal/engine/pinning"
	"github.com/hlee18lee46/clearwhistlenew/internal/engine/reports"
	"github.com/hlee18lee46/clearwhistlenew/internal/pkg/logger"
	"github.com/hlee18lee46/clearwhistlenew/internal/platform/audit"
	"github.com/hlee18lee46/clearwhistlenew/internal/platform/auth"
	"github.com/hlee18lee46/clearwhistlenew/internal/platform/config"
	"github.com/hlee18lee46/clearwhistlenew/internal/platform/database"
	"github.com/hlee18lee46/clearwhistlenew/internal/platform/repositories"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Directory
	orgRepo := repositories.NewOrganizationRepository(db)
	userRepo := repositories.NewUserRepository(db)
	appRepo := repositories.NewApplicationRepository(db)

	// Content store and report pipeline. The pinning client must exist before
	// the service: every submission externalizes content before persisting.
	pinClient := pinning.NewClient(cfg.Pinata)
	reportRepo := reports.NewRepository(db)
	reportSvc := reports.NewService(reportRepo, orgRepo, userRepo, pinClient)

	// Services
	tokenSvc := auth.NewTokenService(cfg.JWT)
	auditLogger := audit.NewLogger(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, tokenSvc)
	adminHandler := handlers.NewAdminHandler(orgRepo, userRepo, appRepo, auditLogger)
	reportHandler := handlers.NewReportHandler(reportSvc)
	healthHandler := handlers.NewHealthHandler(db)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)

	deps := &api.Dependencies{
		AuthHandler:    authHandler,
		AdminHandler:   adminHandler,
		ReportHandler:  reportHandler,
		HealthHandler:  healthHandler,
		AuthMiddleware: authMiddleware,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
