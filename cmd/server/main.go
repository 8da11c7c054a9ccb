package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"creditline/internal/adapters/http/middleware"
	"creditline/internal/adapters/http/routes"
	"creditline/internal/adapters/persistence/models"
	"creditline/internal/config"
	"creditline/internal/core/services"
	"creditline/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"

	_ "creditline/docs" // Swagger docs
)

// @title CreditLine API
// @version 1.0
// @description Credit approval API: customer registration, credit scoring and loan origination.

// @host localhost:3000
// @BasePath /
// @schemes http https

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(logger.Config{
		Dev:   cfg.IsDev(),
		Level: cfg.LogLevel,
	})
	appLog.Info().Str("mode", cfg.AppMode).Msg("configuration loaded")

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		appLog.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		appLog.Fatal().Err(err).Msg("failed to auto migrate")
	}
	appLog.Info().
		Str("host", cfg.Database.Host).
		Str("db", cfg.Database.DBName).
		Msg("database ready")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CreditLine API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	ingestService := routes.Setup(app, db, cfg, appLog)

	// Scheduled spreadsheet ingestion
	if cfg.Ingest.Enabled {
		cronService := services.NewCronService(ingestService, appLog, cfg.Ingest.CronSpec)
		if err := cronService.Start(); err != nil {
			appLog.Fatal().Err(err).Msg("failed to start ingestion schedule")
		}
		defer cronService.Stop()
	}

	// Graceful shutdown
	go gracefulShutdown(app, appLog)

	// Start server
	appLog.Info().Str("port", cfg.Port).Str("mode", cfg.AppMode).Msg("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLog.Fatal().Err(err).Msg("failed to start server")
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, appLog *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		appLog.Error().Err(err).Msg("error during shutdown")
	}
}
