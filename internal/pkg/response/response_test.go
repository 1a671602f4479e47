package response

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopes(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(CorrelationIDKey, "abc-123")
		return c.Next()
	})
	app.Get("/ok", func(c *fiber.Ctx) error { return Success(c, "Success.", fiber.Map{"n": 1}) })
	app.Get("/problem", func(c *fiber.Ctx) error {
		return WriteProblem(c, fiber.StatusForbidden, "Forbidden", "nope")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"correlationId":"abc-123","message":"Success.","data":{"n":1}}`, string(body))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/problem", nil))
	require.NoError(t, err)
	assert.Equal(t, ProblemContentType, resp.Header.Get("Content-Type"))

	var p Problem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, http.StatusForbidden, p.Status)
	assert.Equal(t, "abc-123", p.CorrelationID)
	assert.Equal(t, "https://tools.ietf.org/html/rfc9110#section-15.5.4", p.Type)
}

func TestCorrelationIDMissing(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(CorrelationID(c)) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, string(body))
}
