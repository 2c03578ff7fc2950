package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/snowpadi/community-backend/internal/catalog"
	"github.com/snowpadi/community-backend/internal/config"
	"github.com/snowpadi/community-backend/internal/database"
	"github.com/snowpadi/community-backend/internal/handlers"
	"github.com/snowpadi/community-backend/internal/logging"
	"github.com/snowpadi/community-backend/internal/middleware"
	"github.com/snowpadi/community-backend/internal/routes"
	"github.com/snowpadi/community-backend/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Categories and badges
	registry, err := catalog.LoadFromFile(cfg.CatalogPath)
	if err != nil {
		slog.Error("failed to load catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}
	slog.Info("catalog loaded", "categories", len(registry.Categories()), "badges", len(registry.Badges()))
	for _, name := range []string{services.BadgeFreshPadi, services.BadgeStoryteller} {
		if !registry.HasBadge(name) {
			slog.Warn("catalog is missing an awarded badge", "badge", name)
		}
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	seeded, err := database.SeedCatalog(database.DB, registry)
	if err != nil {
		slog.Error("catalog seed failed", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog seeded", "inserted", seeded)

	// ERROR+ records are also batched into system_logs
	dbLogHandler := logging.NewDBHandler(database.DB, cfg.LogFlushInterval)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewJSONHandler(os.Stdout),
		dbLogHandler,
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetention, cleanupDone)

	// Services
	preferenceService := services.NewPreferenceService(database.DB)
	feedService := services.NewFeedService(database.DB, preferenceService)
	contentService := services.NewContentService(database.DB)
	moderationService := services.NewModerationService(database.DB)
	badgeService := services.NewBadgeService(database.DB)
	profileService := services.NewProfileService(database.DB)

	// Handlers
	healthHandler := handlers.NewHealthHandler(database.DB, registry)
	feedHandler := handlers.NewFeedHandler(feedService)
	contentHandler := handlers.NewContentHandler(contentService)
	moderationHandler := handlers.NewModerationHandler(moderationService)
	profileHandler := handlers.NewProfileHandler(profileService, badgeService, preferenceService)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${respHeader:X-Request-ID}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	routes.Setup(app, cfg, profileService, healthHandler, feedHandler, contentHandler, moderationHandler, profileHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
