package routes

import (
	"time"

	"generator-backoffice/internal/adapters/http/handlers"
	"generator-backoffice/internal/adapters/http/middleware"
	"generator-backoffice/internal/config"
	"generator-backoffice/internal/core/policy"
	"generator-backoffice/internal/pkg/jwt"
	"generator-backoffice/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
)

const robotsMaxAge = 24 * time.Hour

// Deps holds everything the route table wires together
type Deps struct {
	Config   *config.Config
	Issuer   *jwt.Issuer
	Policies *policy.Table
	Metrics  *metrics.Metrics
	Storage  fiber.Storage

	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UserHandler
	OwnerCustomers *handlers.OwnerCustomerHandler
}

// Setup configures all routes for the application
func Setup(app *fiber.App, d Deps) {
	// Health check & root routes
	app.Get("/", d.Health.Root)
	app.Get("/health", d.Health.HealthCheck)
	app.Get("/robots.txt", middleware.PublicCacheHeaders(robotsMaxAge), d.Health.Robots)
	app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))

	// Swagger documentation
	if d.Config.SwaggerEnabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	authenticate := middleware.Authenticate(d.Issuer, d.Metrics)

	setupAuthRoutes(app.Group("/Auth"), d, authenticate)

	// Tenant owners only, scoped to the tenant in their token
	ownerCustomers := app.Group("/OwnerCustomers")
	ownerCustomers.Use(authenticate)
	ownerCustomers.Use(middleware.RequirePolicy(d.Policies, policy.TenantOwnerOnly))
	ownerCustomers.Use(middleware.RequireTenant())
	ownerCustomers.Get("/", d.OwnerCustomers.List)

	// User management routes (Admin only)
	users := app.Group("/Users")
	users.Use(authenticate)
	users.Use(middleware.RequirePolicy(d.Policies, policy.AdminOnly))
	users.Get("/", d.Users.ListUsers)
	users.Get("/:id", d.Users.GetUser)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, d Deps, authenticate fiber.Handler) {
	router.Use(middleware.NoCacheHeaders())

	// Public routes with stricter rate limiting
	authLimiter := middleware.AuthRateLimiter(d.Config, d.Storage)
	router.Post("/SignIn", authLimiter, d.Auth.SignIn)
	router.Post("/Refresh", authLimiter, d.Auth.Refresh)
	router.Post("/SignOut", d.Auth.SignOut)

	// Protected routes
	staff := middleware.RequirePolicy(d.Policies, policy.AnyStaff)
	router.Get("/Me", authenticate, staff, d.Auth.Me)
	router.Post("/SignOutAll", authenticate, staff, d.Auth.SignOutAll)
}
