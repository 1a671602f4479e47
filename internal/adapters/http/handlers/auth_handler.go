package handlers

import (
	"strings"
	"time"

	"generator-backoffice/internal/adapters/http/middleware"
	"generator-backoffice/internal/config"
	"generator-backoffice/internal/core/domain"
	"generator-backoffice/internal/core/services"
	"generator-backoffice/internal/pkg/messages"
	"generator-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RefreshCookieName is the cookie carrying the refresh credential for browser clients
const RefreshCookieName = "refresh_token"

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
	msgs        *messages.Provider
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config, msgs *messages.Provider) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
		msgs:        msgs,
	}
}

// MeResponse is the caller's identity as carried by the access token
type MeResponse struct {
	ID        int64         `json:"id"`
	Email     string        `json:"email"`
	Roles     []domain.Role `json:"roles"`
	TenantID  *int64        `json:"generatorOwnerId"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// SignIn handles user sign-in
// @Summary Sign in
// @Description Verify email and password and open a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.SignInInput true "Credentials"
// @Success 200 {object} response.Response{data=domain.Session}
// @Failure 400 {object} response.Problem
// @Failure 401 {object} response.Problem
// @Failure 429 {object} response.Problem
// @Router /Auth/SignIn [post]
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req services.SignInInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	session, err := h.authService.SignIn(c.UserContext(), &req)
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, session.Token.RefreshToken)
	return response.Success(c, h.msgs.Success("SignIn"), session)
}

// Refresh handles token refresh
// @Summary Refresh session
// @Description Exchange a refresh token (body or cookie) for a new token pair. The old refresh token is revoked.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RefreshInput false "Refresh token"
// @Success 200 {object} response.Response{data=domain.Session}
// @Failure 401 {object} response.Problem
// @Failure 429 {object} response.Problem
// @Router /Auth/Refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	session, err := h.authService.Refresh(c.UserContext(), h.refreshTokenOf(c))
	if err != nil {
		if domain.KindOf(err) == domain.KindAuthentication {
			h.clearRefreshCookie(c)
		}
		return err
	}

	h.setRefreshCookie(c, session.Token.RefreshToken)
	return response.Success(c, h.msgs.Success("Refresh"), session)
}

// SignOut handles sign-out
// @Summary Sign out
// @Description Revoke the given refresh token. Always succeeds.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RefreshInput false "Refresh token"
// @Success 200 {object} response.Response
// @Router /Auth/SignOut [post]
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	if err := h.authService.SignOut(c.UserContext(), h.refreshTokenOf(c)); err != nil {
		return err
	}

	h.clearRefreshCookie(c)
	return response.Success(c, h.msgs.Success("SignOut"), nil)
}

// SignOutAll handles sign-out from every device
// @Summary Sign out everywhere
// @Description Revoke all refresh tokens of the caller
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Problem
// @Failure 403 {object} response.Problem
// @Router /Auth/SignOutAll [post]
func (h *AuthHandler) SignOutAll(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	revoked, err := h.authService.SignOutAll(c.UserContext(), userID)
	if err != nil {
		return err
	}

	h.clearRefreshCookie(c)
	return response.Success(c, h.msgs.Success("SignOutAll"), fiber.Map{
		"revoked": revoked,
	})
}

// Me returns the current user as described by the access token
// @Summary Get current user
// @Description Identity carried by the access token. The account store is not consulted.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=MeResponse}
// @Failure 401 {object} response.Problem
// @Failure 403 {object} response.Problem
// @Router /Auth/Me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return domain.ErrTokenMissing
	}

	return response.Success(c, h.msgs.Success("Me"), &MeResponse{
		ID:        claims.UserID,
		Email:     claims.Email,
		Roles:     claims.Roles,
		TenantID:  claims.TenantID,
		ExpiresAt: claims.ExpiresAt,
	})
}

// refreshTokenOf reads the refresh token from the JSON body, then from the cookie
func (h *AuthHandler) refreshTokenOf(c *fiber.Ctx) string {
	var req services.RefreshInput
	if len(c.Body()) > 0 {
		_ = c.BodyParser(&req)
	}
	if token := strings.TrimSpace(req.RefreshToken); token != "" {
		return token
	}
	return c.Cookies(RefreshCookieName)
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    refreshToken,
		Path:     "/Auth",
		MaxAge:   h.cfg.JWT.RefreshTokenDays * 24 * 60 * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/Auth",
		MaxAge:   -1,
		Expires:  time.Now().Add(-1 * time.Hour),
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}
