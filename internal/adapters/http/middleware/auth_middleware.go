package middleware

import (
	"errors"
	"fmt"
	"strings"

	"generator-backoffice/internal/core/domain"
	"generator-backoffice/internal/core/policy"
	"generator-backoffice/internal/pkg/jwt"
	"generator-backoffice/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(c *fiber.Ctx) string {
	authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

// Authenticate rejects requests without a valid access token.
// Validation is stateless: the account store is never consulted.
func Authenticate(issuer *jwt.Issuer, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := bearerToken(c)
		if accessToken == "" {
			m.TokenValidation(metrics.OutcomeMissing)
			return domain.ErrTokenMissing
		}

		claims, err := issuer.Validate(accessToken)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				m.TokenValidation(metrics.OutcomeExpired)
				return domain.ErrTokenExpired
			}
			m.TokenValidation(metrics.OutcomeInvalid)
			return domain.ErrTokenInvalid
		}

		m.TokenValidation(metrics.OutcomeSuccess)
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// RequirePolicy admits callers whose roles satisfy the named policy.
// Naming an unknown policy is a wiring bug and panics at startup.
func RequirePolicy(table *policy.Table, name string) fiber.Handler {
	if !table.Has(name) {
		panic(fmt.Sprintf("unknown policy %q", name))
	}
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return domain.ErrTokenMissing
		}
		if !table.Allows(name, claims.Roles) {
			return domain.ErrMissingRole
		}
		return c.Next()
	}
}

// RequireTenant rejects callers whose token carries no tenant
func RequireTenant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := TenantID(c); err != nil {
			return err
		}
		return c.Next()
	}
}

// ClaimsFrom returns the validated claims stored by Authenticate
func ClaimsFrom(c *fiber.Ctx) (*jwt.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*jwt.Claims)
	return claims, ok && claims != nil
}

// UserID returns the caller's user id from the validated claims
func UserID(c *fiber.Ctx) (int64, error) {
	claims, ok := ClaimsFrom(c)
	if !ok || claims.UserID <= 0 {
		return 0, domain.ErrUserIDMissing
	}
	return claims.UserID, nil
}

// TenantID returns the caller's tenant, read only from the validated claims
func TenantID(c *fiber.Ctx) (int64, error) {
	claims, ok := ClaimsFrom(c)
	if !ok || claims.TenantID == nil {
		return 0, domain.ErrMissingTenant
	}
	return *claims.TenantID, nil
}
