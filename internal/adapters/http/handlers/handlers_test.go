package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"generator-backoffice/internal/core/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckReportsDatabase(t *testing.T) {
	down := NewHealthHandler("prod", func(context.Context) error { return errors.New("dial tcp: refused") })
	up := NewHealthHandler("prod", nil)

	app := fiber.New()
	app.Get("/down", down.HealthCheck)
	app.Get("/up", up.HealthCheck)
	app.Get("/", up.Root)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/down", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), `"database":"unhealthy"`)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/up", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"mode":"prod"`)
}

type contactRequest struct {
	Name  string `json:"name" validate:"required,max=5"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (r *contactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

func TestBindJSON(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		detail string
	}{
		{"malformed", `{"name":`, "Invalid request body."},
		{"missing", `{}`, "name is required."},
		{"too long", `{"name":"abcdefg"}`, "name must be at most 5 characters."},
		{"bad email", `{"name":"abc","email":"x"}`, "email must be a valid email address."},
		{"ok", `{"name":"abc","email":"a@b.co"}`, ""},
		{"blank name", `{"name":"   "}`, "name is required."},
		{"padded", `{"name":"  abcde  ","email":" a@b.co "}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			var got error
			app.Post("/", func(c *fiber.Ctx) error {
				var p contactRequest
				got = bindJSON(c, &p)
				return c.SendStatus(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			_, err := app.Test(req)
			require.NoError(t, err)

			if tc.detail == "" {
				assert.NoError(t, got)
				return
			}
			var de *domain.Error
			require.ErrorAs(t, got, &de)
			assert.Equal(t, domain.KindValidation, de.Kind)
			assert.Equal(t, tc.detail, de.Message)
		})
	}
}
