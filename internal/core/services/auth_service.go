package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"generator-backoffice/internal/adapters/persistence/models"
	"generator-backoffice/internal/adapters/persistence/repositories"
	"generator-backoffice/internal/core/domain"
	"generator-backoffice/internal/pkg/jwt"
	"generator-backoffice/internal/pkg/metrics"
	"generator-backoffice/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	issuer           *jwt.Issuer
	refreshTTL       time.Duration
	metrics          *metrics.Metrics
	logger           *slog.Logger
	now              func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	issuer *jwt.Issuer,
	refreshTokenDays int,
	m *metrics.Metrics,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		issuer:           issuer,
		refreshTTL:       time.Duration(refreshTokenDays) * 24 * time.Hour,
		metrics:          m,
		logger:           logger,
		now:              time.Now,
	}
}

// SignInInput represents sign-in input
type SignInInput struct {
	Email    string `json:"email" validate:"required,email,max=150"`
	Password string `json:"password" validate:"required,max=200"`
}

// Normalize trims the surrounding whitespace clients leave on the email
func (in *SignInInput) Normalize() {
	in.Email = strings.TrimSpace(in.Email)
}

// RefreshInput carries a raw refresh credential
type RefreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

// Verify checks an email and password against the account store
func (s *AuthService) Verify(ctx context.Context, email, pass string) (*domain.Principal, error) {
	email = strings.TrimSpace(email)
	if email == "" || pass == "" {
		return nil, domain.Validation("Email and password are required.")
	}

	row, err := s.userRepo.SignIn(ctx, repositories.SignInParams{
		Email:        email,
		PasswordHash: password.Digest(pass),
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.SignIn(metrics.OutcomeInvalid)
			return nil, domain.ErrInvalidCredentials
		}
		s.metrics.SignIn(metrics.OutcomeError)
		return nil, storeError(err, "account_store", "sign-in lookup failed")
	}

	principal := row.ToPrincipal(email)
	if !principal.IsActive {
		s.metrics.SignIn(metrics.OutcomeInactive)
		return nil, domain.ErrUserInactive
	}
	if err := principal.CheckTenantScope(); err != nil {
		s.metrics.SignIn(metrics.OutcomeError)
		return nil, err
	}
	return principal, nil
}

// SignIn authenticates a user and opens a session
func (s *AuthService) SignIn(ctx context.Context, input *SignInInput) (*domain.Session, error) {
	principal, err := s.Verify(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	session, err := s.openSession(ctx, principal)
	if err != nil {
		s.metrics.SignIn(metrics.OutcomeError)
		return nil, err
	}

	s.metrics.SignIn(metrics.OutcomeSuccess)
	s.logger.InfoContext(ctx, "user signed in", "user_id", principal.ID, "role", principal.Role)
	return session, nil
}

// Refresh exchanges a refresh credential for a new session, revoking the old one
func (s *AuthService) Refresh(ctx context.Context, raw string) (*domain.Session, error) {
	if raw == "" {
		s.metrics.Refresh(metrics.OutcomeMissing)
		return nil, domain.ErrRefreshInvalid
	}

	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(raw))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.Refresh(metrics.OutcomeInvalid)
			return nil, domain.ErrRefreshInvalid
		}
		s.metrics.Refresh(metrics.OutcomeError)
		return nil, domain.Internal("token_store", "refresh token lookup failed", err)
	}

	now := s.now()
	if stored.IsRevoked() {
		// A revoked credential coming back means it leaked; end every session of the account
		s.metrics.Refresh(metrics.OutcomeRevoked)
		if _, err := s.refreshTokenRepo.RevokeAllByUserID(ctx, stored.UserID, now); err != nil {
			s.logger.ErrorContext(ctx, "revoke sessions after refresh reuse", "user_id", stored.UserID, "error", err)
		} else {
			s.logger.WarnContext(ctx, "revoked refresh token reused", "user_id", stored.UserID)
		}
		return nil, domain.ErrRefreshRevoked
	}
	if stored.IsExpired(now) {
		s.metrics.Refresh(metrics.OutcomeExpired)
		return nil, domain.ErrRefreshExpired
	}

	row, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.Refresh(metrics.OutcomeInvalid)
			return nil, domain.ErrRefreshInvalid
		}
		s.metrics.Refresh(metrics.OutcomeError)
		return nil, storeError(err, "account_store", "account lookup failed")
	}
	principal := row.ToPrincipal()
	if !principal.IsActive {
		s.metrics.Refresh(metrics.OutcomeInactive)
		return nil, domain.ErrUserInactive
	}
	if err := principal.CheckTenantScope(); err != nil {
		s.metrics.Refresh(metrics.OutcomeError)
		return nil, err
	}

	// Token rotation
	won, err := s.refreshTokenRepo.Revoke(ctx, stored.ID, now)
	if err != nil {
		s.metrics.Refresh(metrics.OutcomeError)
		return nil, domain.Internal("token_store", "refresh token revoke failed", err)
	}
	if !won {
		s.metrics.Refresh(metrics.OutcomeRevoked)
		return nil, domain.ErrRefreshRevoked
	}

	session, err := s.openSession(ctx, principal)
	if err != nil {
		s.metrics.Refresh(metrics.OutcomeError)
		return nil, err
	}

	s.metrics.Refresh(metrics.OutcomeSuccess)
	s.logger.InfoContext(ctx, "session refreshed", "user_id", principal.ID)
	return session, nil
}

// SignOut revokes one refresh credential. Unknown credentials are ignored.
func (s *AuthService) SignOut(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, password.HashToken(raw), s.now()); err != nil {
		return domain.Internal("token_store", "refresh token revoke failed", err)
	}
	s.logger.InfoContext(ctx, "user signed out")
	return nil
}

// SignOutAll revokes every refresh credential of a user
func (s *AuthService) SignOutAll(ctx context.Context, userID int64) (int64, error) {
	n, err := s.refreshTokenRepo.RevokeAllByUserID(ctx, userID, s.now())
	if err != nil {
		return 0, domain.Internal("token_store", "refresh token revoke failed", err)
	}
	s.logger.InfoContext(ctx, "all sessions revoked", "user_id", userID, "count", n)
	return n, nil
}

// PurgeExpired deletes refresh credentials past their expiry
func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.refreshTokenRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "expired refresh tokens purged", "count", n)
	}
	return n, nil
}

// openSession issues an access token and stores a fresh refresh credential
func (s *AuthService) openSession(ctx context.Context, p *domain.Principal) (*domain.Session, error) {
	accessToken, _, err := s.issuer.IssueAccessToken(p)
	if err != nil {
		return nil, domain.Internal("token_issue", "access token could not be issued", err)
	}

	cred, err := s.issuer.IssueRefreshCredential()
	if err != nil {
		return nil, domain.Internal("token_issue", "refresh token could not be issued", err)
	}

	token := &models.RefreshToken{
		UserID:    p.ID,
		TokenHash: cred.Hash,
		ExpiresAt: s.now().Add(s.refreshTTL),
	}
	if err := s.refreshTokenRepo.Create(ctx, token); err != nil {
		return nil, domain.Internal("token_store", "refresh token could not be stored", err)
	}

	return &domain.Session{
		User: p,
		Token: &domain.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: cred.Raw,
		},
	}, nil
}
