package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const healthTimeout = 3 * time.Second

// HealthHandler handles health check endpoints
type HealthHandler struct {
	appMode string
	dbCheck func(ctx context.Context) error
}

// NewHealthHandler creates a new health handler. dbCheck may be nil.
func NewHealthHandler(appMode string, dbCheck func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{
		appMode: appMode,
		dbCheck: dbCheck,
	}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "Generator back office API is running",
		"mode":    h.appMode,
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API and database health
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	dbStatus := "healthy"
	if h.dbCheck != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()
		if err := h.dbCheck(ctx); err != nil {
			dbStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "ok"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"api":      "healthy",
			"database": dbStatus,
		},
	})
}

// Robots disallows all crawlers
func (h *HealthHandler) Robots(c *fiber.Ctx) error {
	c.Type("txt", "utf-8")
	return c.SendString("User-agent: *\nDisallow: /")
}
