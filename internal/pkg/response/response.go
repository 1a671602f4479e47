package response

import (
	"github.com/gofiber/fiber/v2"
)

// CorrelationIDKey is the c.Locals key holding the request correlation id
const CorrelationIDKey = "correlationId"

// ProblemContentType is the media type of error responses
const ProblemContentType = "application/problem+json"

// Response represents a standard API response
type Response struct {
	CorrelationID string      `json:"correlationId"`
	Message       string      `json:"message"`
	Data          interface{} `json:"data"`
}

// Problem represents an RFC 7807 problem response
type Problem struct {
	Type          string `json:"type"`
	Title         string `json:"title"`
	Status        int    `json:"status"`
	Detail        string `json:"detail,omitempty"`
	CorrelationID string `json:"correlationId"`
}

// CorrelationID returns the id stored by the correlation middleware
func CorrelationID(c *fiber.Ctx) string {
	if id, ok := c.Locals(CorrelationIDKey).(string); ok {
		return id
	}
	return ""
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		CorrelationID: CorrelationID(c),
		Message:       message,
		Data:          data,
	})
}

// WriteProblem sends a problem response
func WriteProblem(c *fiber.Ctx, status int, title, detail string) error {
	return c.Status(status).JSON(Problem{
		Type:          typeFor(status),
		Title:         title,
		Status:        status,
		Detail:        detail,
		CorrelationID: CorrelationID(c),
	}, ProblemContentType)
}

func typeFor(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "https://tools.ietf.org/html/rfc9110#section-15.5.1"
	case fiber.StatusUnauthorized:
		return "https://tools.ietf.org/html/rfc9110#section-15.5.2"
	case fiber.StatusForbidden:
		return "https://tools.ietf.org/html/rfc9110#section-15.5.4"
	case fiber.StatusNotFound:
		return "https://tools.ietf.org/html/rfc9110#section-15.5.5"
	case fiber.StatusTooManyRequests:
		return "https://tools.ietf.org/html/rfc6585#section-4"
	case fiber.StatusInternalServerError:
		return "https://tools.ietf.org/html/rfc9110#section-15.6.1"
	default:
		return "about:blank"
	}
}
