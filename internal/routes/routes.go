// Package routes defines the API routing configuration. It wires
// repositories into services, services into handlers, and groups routes
// by role.
package routes

import (
	"log"

	"digipehchan/internal/config"
	"digipehchan/internal/handlers"
	"digipehchan/internal/middleware"
	"digipehchan/internal/models"
	"digipehchan/internal/repositories"
	"digipehchan/internal/services/auth"
	"digipehchan/internal/services/bundle"
	"digipehchan/internal/services/export"
	"digipehchan/internal/services/qr"
	"digipehchan/internal/services/qrimage"
	"digipehchan/internal/services/serial"
	"digipehchan/internal/services/stats"
	"digipehchan/internal/services/ticket"
	"digipehchan/internal/services/user"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	qrRepo := repositories.NewQRRepository(db)
	bundleRepo := repositories.NewBundleRepository(db)
	ticketRepo := repositories.NewTicketRepository(db)
	cacheRepo := repositories.CacheService

	// Infrastructure services
	serialGen, err := serial.NewGenerator(
		config.GetEnv("SERIAL_PREFIX", "DPQR"),
		int64(config.GetIntEnv("NODE_ID", 1)),
	)
	if err != nil {
		log.Fatalf("failed to init serial generator: %v", err)
	}

	imageRenderer, err := qrimage.NewDiskRenderer(
		config.GetEnv("QR_IMAGE_DIR", "./data/qr-images"),
		config.GetEnv("QR_IMAGE_URL", "/static/qr"),
	)
	if err != nil {
		log.Fatalf("failed to init QR image renderer: %v", err)
	}

	// Domain services
	authService := auth.NewService(userRepo)
	userService := user.NewService(userRepo)
	bundleService := bundle.NewService(bundleRepo, qrRepo, userRepo, serialGen, imageRenderer, cacheRepo)
	ticketService := ticket.NewService(ticketRepo, bundleRepo, qrRepo, cacheRepo)
	qrService := qr.NewService(qrRepo, cacheRepo)
	statsService := stats.NewService(qrRepo, bundleRepo, cacheRepo)
	exportService := export.NewService(bundleRepo, qrRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	bundleHandler := handlers.NewBundleHandler(bundleService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	qrHandler := handlers.NewQRHandler(qrService)
	statsHandler := handlers.NewStatsHandler(statsService)
	exportHandler := handlers.NewExportHandler(exportService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/login", authHandler.Login)
	api.Post("/register", authHandler.Register)
	api.Post("/refresh", authHandler.RefreshToken)
	api.Get("/health", handlers.HealthCheck)
	api.Get("/qrs/scan/:serial", qrHandler.Scan)

	app.Static("/static/qr", config.GetEnv("QR_IMAGE_DIR", "./data/qr-images"))

	// Authenticated endpoints
	authed := api.Group("", authMiddleware.Handler)
	authed.Post("/logout", authHandler.Logout)

	// Admin endpoints
	admin := authed.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	admin.Post("/salespeople", userHandler.CreateSalesperson)
	admin.Post("/bundles", bundleHandler.Generate)
	admin.Get("/bundles", bundleHandler.List)
	admin.Get("/bundles/:id", bundleHandler.Get)
	admin.Post("/bundles/:id/assign", bundleHandler.Assign)
	admin.Post("/bundles/:id/transfer", bundleHandler.Transfer)
	admin.Get("/bundles/:id/manifest", exportHandler.BundleManifest)
	admin.Get("/tickets", ticketHandler.List)
	admin.Get("/tickets/:ref", ticketHandler.Get)
	admin.Post("/tickets/:ref/resolve", ticketHandler.Resolve)
	admin.Get("/salespeople/:id/stats", statsHandler.ForSalesperson)

	// Salesperson endpoints
	sales := authed.Group("/sales", middleware.RequireRole(models.RoleSalesperson))
	sales.Get("/bundles", bundleHandler.ListMine)
	sales.Post("/tickets", ticketHandler.Create)
	sales.Get("/tickets", ticketHandler.ListMine)
	sales.Get("/stats", statsHandler.Mine)

	// Selling is open to salespeople and admins
	authed.Post("/qrs/sell", middleware.HasPermission(models.PermissionQRSell), qrHandler.Sell)

	// Customer endpoints
	authed.Post("/qrs/activate/:serial", qrHandler.Activate)
	authed.Put("/qrs/:id/permissions", qrHandler.UpdatePermissions)
	authed.Post("/qrs/:id/reviews", qrHandler.AddReview)
	authed.Post("/qrs/:id/questions", qrHandler.AddQuestion)
	authed.Post("/qrs/:id/calls", qrHandler.RecordCall)
}
