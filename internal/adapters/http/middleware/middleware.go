package middleware

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"generator-backoffice/internal/config"
	"generator-backoffice/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	slogfiber "github.com/samber/slog-fiber"
)

// Deps are the shared collaborators of the middleware chain
type Deps struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// Storage backs the rate limiters; nil keeps counters in memory
	Storage fiber.Storage
}

// Setup configures all middlewares for the application
func Setup(app *fiber.App, d Deps) {
	// Recover middleware - catches panics
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			d.Logger.Error("panic recovered",
				"path", c.Path(),
				"correlation_id", correlationIDOf(c),
				"panic", fmt.Sprint(e),
			)
		},
	}))

	app.Use(Correlation(d.Logger))

	app.Use(slogfiber.NewWithConfig(d.Logger.WithGroup("http"), slogfiber.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithUserAgent:    true,
	}))

	app.Use(RequestMetrics(d.Metrics))

	// Gzip Compression middleware
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Security Headers middleware (Helmet)
	app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "SAMEORIGIN",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-origin",
		PermissionPolicy:          "geolocation=(), microphone=(), camera=()",
	}))

	// CORS middleware
	cfg := d.Config
	if cfg.IsDev() && cfg.GetAllowedOrigins() == "*" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     "*",
			AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
			AllowHeaders:     "Origin,Content-Type,Accept,Authorization," + CorrelationHeader,
			ExposeHeaders:    CorrelationHeader,
			AllowCredentials: false, // Cannot be true with AllowOrigins: "*"
		}))
	} else {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.GetAllowedOrigins(),
			AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
			AllowHeaders:     "Origin,Content-Type,Accept,Authorization," + CorrelationHeader,
			ExposeHeaders:    CorrelationHeader,
			AllowCredentials: true,
		}))
	}

	// Rate Limiter middleware - per client IP fixed window
	app.Use(RateLimiter(cfg.RateLimit.PermitLimit, cfg.RateLimit.WindowMinutes, "", d.Storage))
}

// RateLimiter builds a fixed window limiter keyed by client IP.
// c.IP() honours the configured proxy header, so clients behind the CDN are told apart.
func RateLimiter(permit, windowMinutes int, scope string, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        permit,
		Expiration: time.Duration(windowMinutes) * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if scope == "" {
				return c.IP()
			}
			return c.IP() + "-" + scope
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests. Please try again later.")
		},
		Storage:           storage,
		LimiterMiddleware: limiter.FixedWindow{},
	})
}

// AuthRateLimiter creates a stricter rate limiter for sign-in and refresh
func AuthRateLimiter(cfg *config.Config, storage fiber.Storage) fiber.Handler {
	return RateLimiter(cfg.RateLimit.AuthPermitLimit, cfg.RateLimit.WindowMinutes, "auth", storage)
}

// RequestMetrics records every request and resolves chain errors into responses,
// so outer middleware sees the final status.
func RequestMetrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		route := c.Route().Path
		if route == "" || (route == "/" && c.Path() != "/") {
			route = "unmatched"
		}
		m.Request(c.Method(), route, strconv.Itoa(c.Response().StatusCode()), time.Since(start).Seconds())
		return nil
	}
}
