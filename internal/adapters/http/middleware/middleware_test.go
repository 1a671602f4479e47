package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"generator-backoffice/internal/core/domain"
	"generator-backoffice/internal/core/policy"
	"generator-backoffice/internal/pkg/jwt"
	"generator-backoffice/internal/pkg/messages"
	"generator-backoffice/internal/pkg/metrics"
	"generator-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

type testEnv struct {
	app    *fiber.App
	issuer *jwt.Issuer
	now    time.Time
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}

	issuer, err := jwt.NewIssuer(jwt.Config{
		Key:                testKey,
		Issuer:             "generator-api",
		Audience:           "generator-spa",
		AccessTokenMinutes: 15,
	}, jwt.WithClock(func() time.Time { return env.now }))
	require.NoError(t, err)
	env.issuer = issuer

	msgs, err := messages.New(nil, []messages.Entry{{Code: "CustomerNotUnique", Message: "Customer already exists."}})
	require.NoError(t, err)

	logger := discardLogger()
	m := metrics.New()
	table := policy.Default()

	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler(logger, m, msgs)})
	app.Use(Correlation(logger))
	app.Use(RequestMetrics(m))

	tenantOf := func(c *fiber.Ctx) error {
		id, err := TenantID(c)
		if err != nil {
			return err
		}
		return response.Success(c, "ok", fiber.Map{"tenant": id})
	}

	app.Get("/me", Authenticate(issuer, m), func(c *fiber.Ctx) error {
		id, err := UserID(c)
		if err != nil {
			return err
		}
		return response.Success(c, "ok", fiber.Map{"user": id})
	})
	app.Get("/owner", Authenticate(issuer, m), RequirePolicy(table, policy.TenantOwnerOnly), RequireTenant(), tenantOf)
	app.Get("/staff-tenant", Authenticate(issuer, m), RequirePolicy(table, policy.AnyStaff), RequireTenant(), tenantOf)
	app.Get("/admin", Authenticate(issuer, m), RequirePolicy(table, policy.AdminOnly), func(c *fiber.Ctx) error {
		return response.Success(c, "ok", nil)
	})
	app.Get("/public", func(c *fiber.Ctx) error {
		return response.Success(c, "ok", nil)
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return domain.Internal("db", "lookup failed", errors.New("secret dsn user:pass@tcp"))
	})
	app.Get("/rule", func(c *fiber.Ctx) error {
		return domain.BusinessRule("CustomerNotUnique", "")
	})
	app.Get("/invalid", func(c *fiber.Ctx) error {
		return domain.Validation("Email is required.")
	})

	env.app = app
	return env
}

func (e *testEnv) token(t *testing.T, p *domain.Principal) string {
	t.Helper()
	tok, _, err := e.issuer.IssueAccessToken(p)
	require.NoError(t, err)
	return tok
}

func owner() *domain.Principal {
	tenant := int64(42)
	return &domain.Principal{ID: 7, Email: "owner@example.com", Role: domain.RoleTenantOwner, IsActive: true, TenantID: &tenant}
}

func admin() *domain.Principal {
	return &domain.Principal{ID: 1, Email: "admin@example.com", Role: domain.RoleAdmin, IsActive: true}
}

func do(t *testing.T, app *fiber.App, path, bearer string, headers ...string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func decodeProblem(t *testing.T, body []byte) response.Problem {
	t.Helper()
	var p response.Problem
	require.NoError(t, json.Unmarshal(body, &p))
	return p
}

func TestAuthenticateMissingToken(t *testing.T) {
	env := newTestEnv(t)

	resp, body := do(t, env.app, "/owner", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, response.ProblemContentType, resp.Header.Get("Content-Type"))

	p := decodeProblem(t, body)
	assert.Equal(t, "Access token required.", p.Detail)
	assert.Equal(t, resp.Header.Get(CorrelationHeader), p.CorrelationID)
	assert.NotEmpty(t, p.CorrelationID)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, owner())

	foreign, err := jwt.NewIssuer(jwt.Config{
		Key:                "ffffffffffffffffffffffffffffffff",
		Issuer:             "generator-api",
		Audience:           "generator-spa",
		AccessTokenMinutes: 15,
	})
	require.NoError(t, err)
	forged, _, err := foreign.IssueAccessToken(owner())
	require.NoError(t, err)

	resp, body := do(t, env.app, "/owner", forged)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid access token.", decodeProblem(t, body).Detail)

	resp, _ = do(t, env.app, "/owner", "", "Authorization", "Basic "+tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	env.now = env.now.Add(15*time.Minute + time.Second)
	resp, body = do(t, env.app, "/owner", tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Access token expired.", decodeProblem(t, body).Detail)
}

func TestTenantOwnerSeesOwnTenant(t *testing.T) {
	env := newTestEnv(t)

	resp, body := do(t, env.app, "/owner", env.token(t, owner()))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		CorrelationID string `json:"correlationId"`
		Message       string `json:"message"`
		Data          struct {
			Tenant int64 `json:"tenant"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, int64(42), out.Data.Tenant)
	assert.Equal(t, resp.Header.Get(CorrelationHeader), out.CorrelationID)
}

func TestAdminDeniedOnTenantRoutes(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, admin())

	resp, body := do(t, env.app, "/owner", tok)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, domain.ErrMissingRole.Message, decodeProblem(t, body).Detail)

	// Role allowed, but no tenant in the token
	resp, body = do(t, env.app, "/staff-tenant", tok)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, domain.ErrMissingTenant.Message, decodeProblem(t, body).Detail)
}

func TestAdminOnlyPolicy(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := do(t, env.app, "/admin", env.token(t, admin()))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, env.app, "/admin", env.token(t, owner()))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCorrelationIDEchoed(t *testing.T) {
	env := newTestEnv(t)

	resp, body := do(t, env.app, "/public", "", CorrelationHeader, "req-123")
	assert.Equal(t, "req-123", resp.Header.Get(CorrelationHeader))
	assert.Contains(t, string(body), `"correlationId":"req-123"`)

	resp, _ = do(t, env.app, "/public", "")
	assert.Len(t, resp.Header.Get(CorrelationHeader), 36)
}

func TestErrorHandlerMapping(t *testing.T) {
	env := newTestEnv(t)

	resp, body := do(t, env.app, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	p := decodeProblem(t, body)
	assert.Equal(t, InternalErrorDetail, p.Detail)
	assert.NotContains(t, string(body), "secret dsn")

	resp, body = do(t, env.app, "/rule", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	p = decodeProblem(t, body)
	assert.Equal(t, "Business Rule Violation: CustomerNotUnique", p.Title)
	assert.Equal(t, "Customer already exists.", p.Detail)

	resp, body = do(t, env.app, "/invalid", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email is required.", decodeProblem(t, body).Detail)

	resp, body = do(t, env.app, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, http.StatusNotFound, decodeProblem(t, body).Status)
}

func TestRequirePolicyUnknownPanics(t *testing.T) {
	assert.Panics(t, func() {
		RequirePolicy(policy.Default(), "Nope")
	})
}

func TestRateLimiter(t *testing.T) {
	logger := discardLogger()
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler(logger, nil, nil)})
	app.Use(Correlation(logger))
	app.Use(RequestMetrics(nil))
	app.Use(RateLimiter(2, 1, "", nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for i := 0; i < 2; i++ {
		resp, _ := do(t, app, "/", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, body := do(t, app, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, decodeProblem(t, body).Status)
}

func TestRateLimiterKeysOnProxyHeader(t *testing.T) {
	logger := discardLogger()
	app := fiber.New(fiber.Config{
		ErrorHandler: CustomErrorHandler(logger, nil, nil),
		ProxyHeader:  "CF-Connecting-IP",
	})
	app.Use(RequestMetrics(nil))
	app.Use(RateLimiter(1, 1, "", nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, _ := do(t, app, "/", "", "CF-Connecting-IP", "203.0.113.1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, app, "/", "", "CF-Connecting-IP", "203.0.113.2")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, app, "/", "", "CF-Connecting-IP", "203.0.113.1")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestNoCacheHeaders(t *testing.T) {
	app := fiber.New()
	app.Get("/", NoCacheHeaders(), func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/public", PublicCacheHeaders(time.Hour), func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, _ := do(t, app, "/", "")
	assert.Equal(t, "no-store, no-cache, must-revalidate", resp.Header.Get("Cache-Control"))

	resp, _ = do(t, app, "/public", "")
	assert.Equal(t, "public, max-age=3600", resp.Header.Get("Cache-Control"))
}
