package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"generator-backoffice/internal/adapters/http/handlers"
	"generator-backoffice/internal/adapters/http/middleware"
	"generator-backoffice/internal/adapters/http/routes"
	"generator-backoffice/internal/adapters/persistence/models"
	"generator-backoffice/internal/adapters/persistence/repositories"
	"generator-backoffice/internal/adapters/ratelimit"
	"generator-backoffice/internal/config"
	"generator-backoffice/internal/core/policy"
	"generator-backoffice/internal/core/services"
	"generator-backoffice/internal/pkg/jwt"
	"generator-backoffice/internal/pkg/logging"
	"generator-backoffice/internal/pkg/messages"
	"generator-backoffice/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/pflag"

	_ "generator-backoffice/docs" // Swagger docs
)

// @title Generator Back Office API
// @version 1.0
// @description Authentication gateway and tenant-scoped data for generator owners.

// @contact.name API Support

// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const (
	purgeInterval   = time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	envFile := pflag.String("env-file", ".env", "path to an optional .env file")
	port := pflag.String("port", "", "listen port, overrides PORT")
	pflag.Parse()

	if err := run(*envFile, *port); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(envFile, port string) error {
	// Load configuration
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if port != "" {
		cfg.Port = port
	}

	logger := logging.New(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	msgs, err := messages.Load(cfg.MessagesFile)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}

	issuer, err := jwt.NewIssuer(jwt.Config{
		Key:                cfg.JWT.Key,
		Issuer:             cfg.JWT.Issuer,
		Audience:           cfg.JWT.Audience,
		AccessTokenMinutes: cfg.JWT.AccessTokenMinutes,
	})
	if err != nil {
		return fmt.Errorf("token issuer: %w", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg, logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer config.CloseDatabase(db)

	// Auto migrate (creates refresh_tokens if missing; procedure-backed tables are not touched)
	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("database migration completed")

	// Shared limiter storage when Redis is configured, in-memory otherwise
	var storage fiber.Storage
	if cfg.RateLimit.RedisAddr != "" {
		redisStorage, err := ratelimit.NewRedisStorage(cfg.RateLimit.RedisAddr, cfg.RateLimit.RedisPassword, cfg.RateLimit.RedisDB)
		if err != nil {
			return fmt.Errorf("rate limit storage: %w", err)
		}
		defer redisStorage.Close()
		storage = redisStorage
		logger.Info("rate limiter using redis", "addr", cfg.RateLimit.RedisAddr)
	}

	m := metrics.New()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	ownerCustomerRepo := repositories.NewOwnerCustomerRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, issuer, cfg.JWT.RefreshTokenDays, m, logger)
	userService := services.NewUserService(userRepo)
	ownerCustomerService := services.NewOwnerCustomerService(ownerCustomerRepo)

	app := fiber.New(fiber.Config{
		AppName:      "Generator Back Office API v1.0",
		ErrorHandler: middleware.CustomErrorHandler(logger, m, msgs),
		ProxyHeader:  cfg.ProxyHeader,
	})

	middleware.Setup(app, middleware.Deps{
		Config:  cfg,
		Logger:  logger,
		Metrics: m,
		Storage: storage,
	})

	routes.Setup(app, routes.Deps{
		Config:         cfg,
		Issuer:         issuer,
		Policies:       policy.Default(),
		Metrics:        m,
		Storage:        storage,
		Health:         handlers.NewHealthHandler(cfg.AppMode, config.DatabaseHealth(db)),
		Auth:           handlers.NewAuthHandler(authService, cfg, msgs),
		Users:          handlers.NewUserHandler(userService, msgs),
		OwnerCustomers: handlers.NewOwnerCustomerHandler(ownerCustomerService, msgs),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go purgeExpiredTokens(ctx, authService, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "mode", cfg.AppMode)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Graceful shutdown
	logger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("listener returned after shutdown", "error", err)
	}
	logger.Info("server stopped gracefully")
	return nil
}

// purgeExpiredTokens deletes expired refresh tokens until ctx is done
func purgeExpiredTokens(ctx context.Context, auth *services.AuthService, logger *slog.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := auth.PurgeExpired(ctx); err != nil {
				logger.Error("purge expired refresh tokens", "error", err)
			}
		}
	}
}
