package middleware

import (
	"errors"
	"log/slog"
	"strconv"

	"generator-backoffice/internal/core/domain"
	"generator-backoffice/internal/pkg/logging"
	"generator-backoffice/internal/pkg/messages"
	"generator-backoffice/internal/pkg/metrics"
	"generator-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// InternalErrorDetail is the only detail clients see for unexpected failures
const InternalErrorDetail = "An unexpected error occurred."

const problemWrittenKey = "problemWritten"

// CustomErrorHandler maps every error returned by a handler to a problem response.
// It logs once per request and is safe to call twice for the same request.
func CustomErrorHandler(logger *slog.Logger, m *metrics.Metrics, msgs *messages.Provider) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if written, _ := c.Locals(problemWrittenKey).(bool); written {
			return nil
		}
		c.Locals(problemWrittenKey, true)

		status, title, detail := classify(err, msgs)

		log := logging.FromContext(c.UserContext())
		if log == slog.Default() && logger != nil {
			log = logger.With("correlation_id", response.CorrelationID(c))
		}
		attrs := []any{"status", status, "method", c.Method(), "path", c.Path()}
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed", append(attrs, "error", err)...)
		} else {
			log.Info("request rejected", append(attrs, "reason", err.Error())...)
		}

		m.Problem(strconv.Itoa(status))
		return response.WriteProblem(c, status, title, detail)
	}
}

func classify(err error, msgs *messages.Provider) (int, string, string) {
	var de *domain.Error
	if errors.As(err, &de) {
		switch de.Kind {
		case domain.KindValidation:
			return fiber.StatusBadRequest, "Validation Failed", de.Message
		case domain.KindAuthentication:
			return fiber.StatusUnauthorized, "Unauthorized", de.Message
		case domain.KindAuthorization:
			return fiber.StatusForbidden, "Forbidden", de.Message
		case domain.KindNotFound:
			return fiber.StatusNotFound, "Not Found", de.Message
		case domain.KindBusinessRule:
			detail := msgs.Error(de.Code)
			if detail == messages.DefaultError && de.Message != "" {
				detail = de.Message
			}
			return fiber.StatusBadRequest, "Business Rule Violation: " + de.Code, detail
		default:
			return fiber.StatusInternalServerError, "Internal Server Error", InternalErrorDetail
		}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			return fe.Code, utils.StatusMessage(fe.Code), InternalErrorDetail
		}
		return fe.Code, utils.StatusMessage(fe.Code), fe.Message
	}

	return fiber.StatusInternalServerError, "Internal Server Error", InternalErrorDetail
}
