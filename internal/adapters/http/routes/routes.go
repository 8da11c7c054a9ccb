package routes

import (
	"creditline/internal/adapters/http/handlers"
	"creditline/internal/adapters/http/middleware"
	"creditline/internal/adapters/persistence/repositories"
	"creditline/internal/config"
	"creditline/internal/core/services"
	"creditline/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application. It returns the ingest
// service so main can hand it to the cron scheduler.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, log *logger.Logger) *services.IngestService {
	// Repositories
	customerRepo := repositories.NewCustomerRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	txRunner := repositories.NewTxRunner(db)

	var cache repositories.CacheRepository = repositories.NoopCache{}
	if cfg.Redis.Enabled {
		cache = repositories.NewRedisCache(cfg.Redis.Addr)
	}

	// Services
	customerService := services.NewCustomerService(customerRepo, log)
	loanService := services.NewLoanService(customerRepo, loanRepo, txRunner, cache, log)
	ingestService := services.NewIngestService(customerRepo, loanRepo, cache, log, cfg.Ingest.DataDir)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	customerHandler := handlers.NewCustomerHandler(customerService)
	loanHandler := handlers.NewLoanHandler(loanService)
	ingestHandler := handlers.NewIngestHandler(ingestService)

	// Health & docs
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Credit approval API
	app.Post("/register", customerHandler.Register)
	app.Post("/check-eligibility", loanHandler.CheckEligibility)
	app.Post("/create-loan", loanHandler.CreateLoan)
	app.Get("/view-loan/:loan_id", loanHandler.ViewLoan)
	app.Get("/view-loans/:customer_id", loanHandler.ViewLoansByCustomer)

	// Admin / reporting
	app.Get("/customers", customerHandler.List)
	app.Get("/loans", loanHandler.List)
	app.Post("/ingest", middleware.IngestRateLimiter(), ingestHandler.Trigger)

	return ingestService
}
