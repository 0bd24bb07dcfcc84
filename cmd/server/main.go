package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
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

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.MigrateShared(db); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}
	if err := database.MigrateModels(db, &models.SystemLog{}); err != nil {
		slog.Error("system log migration failed", "error", err)
		os.Exit(1)
	}

	// ERROR+ records are also batched into system_logs
	dbLogHandler := logging.NewDBHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewJSONHandler(os.Stdout),
		dbLogHandler,
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetention, cleanupDone)

	if promoted, err := database.PromoteAdmins(context.Background(), db, cfg.AdminEmailList()); err != nil {
		slog.Error("admin bootstrap failed", "error", err)
	} else if promoted > 0 {
		slog.Info("admin accounts promoted", "count", promoted)
	}

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

	// Rate limiter storage; in-memory when REDIS_URL is unset
	var limiterStorage fiber.Storage
	if cfg.RedisURL != "" {
		store, err := cache.New(cfg.RedisURL)
		if err != nil {
			slog.Error("redis unavailable, using in-memory rate limiter", "error", err)
		} else {
			limiterStorage = store
			defer store.Close()
		}
	}

	// Services
	mail := mailer.NewSMTPMailer(cfg)
	if !mail.Configured() {
		slog.Warn("SMTP not configured, password reset emails will fail")
	}
	hasher := services.NewBcryptHasher(cfg.BcryptCost)
	tokens := services.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	resets := services.NewResetTokenManager(db, cfg.ResetTokenTTL)
	ratings := services.NewRatingAggregator(db)

	authService := services.NewAuthService(db, cfg, hasher, tokens, resets, mail)
	userService := services.NewUserService(db, hasher, ratings)
	productService := services.NewProductService(db)
	reviewService := services.NewReviewService(db, ratings)

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	// Routes
	routes.Setup(app, cfg, tokens, userService, limiterStorage, routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService, cfg),
		Users:    handlers.NewUserHandler(userService),
		Products: handlers.NewProductHandler(productService),
		Reviews:  handlers.NewReviewHandler(reviewService),
		Health:   handlers.NewHealthHandler(db),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "prefix", cfg.APIPrefix)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
