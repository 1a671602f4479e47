package middleware

import (
	"log/slog"
	"strings"

	"generator-backoffice/internal/pkg/logging"
	"generator-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	slogfiber "github.com/samber/slog-fiber"
)

// CorrelationHeader carries the request correlation id in both directions
const CorrelationHeader = "X-Correlation-Id"

const maxCorrelationIDLength = 128

// Correlation echoes the caller's correlation id or assigns a new one
func Correlation(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(CorrelationHeader))
		if id == "" || len(id) > maxCorrelationIDLength {
			id = uuid.NewString()
		}

		c.Locals(response.CorrelationIDKey, id)
		c.Set(CorrelationHeader, id)
		slogfiber.AddCustomAttributes(c, slog.String("correlation_id", id))
		c.SetUserContext(logging.Inject(c.UserContext(), logger.With("correlation_id", id)))

		return c.Next()
	}
}

func correlationIDOf(c *fiber.Ctx) string {
	return response.CorrelationID(c)
}
