package jwt

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"generator-backoffice/internal/core/domain"
	"generator-backoffice/internal/pkg/password"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// MinKeyLength is the shortest accepted HMAC key, in bytes
	MinKeyLength = 32

	// RefreshTokenBytes is the amount of randomness in a refresh credential
	RefreshTokenBytes = 32
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
	ErrMissingKey   = errors.New("jwt signing key is not configured")
)

// Config holds everything the issuer needs. It comes from configuration, never from data.
type Config struct {
	Key                string
	Issuer             string
	Audience           string
	AccessTokenMinutes int
}

// Claims is the validated, strongly typed view of an access token
type Claims struct {
	UserID    int64
	Email     string
	TokenID   string
	Roles     []domain.Role
	TenantID  *int64
	IssuedAt  time.Time
	NotBefore time.Time
	ExpiresAt time.Time
}

// wireClaims is the JSON shape of the token payload
type wireClaims struct {
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	TenantID string   `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

// RefreshCredential is an opaque refresh secret. Raw goes to the client once; only Hash is stored.
type RefreshCredential struct {
	Raw  string
	Hash string
}

// Issuer mints and validates access tokens with a server-held HMAC key
type Issuer struct {
	key      []byte
	issuer   string
	audience string
	lifetime time.Duration
	now      func() time.Time
}

// Option customizes an Issuer
type Option func(*Issuer)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

// NewIssuer validates cfg and builds an Issuer
func NewIssuer(cfg Config, opts ...Option) (*Issuer, error) {
	key := strings.TrimSpace(cfg.Key)
	if key == "" {
		return nil, ErrMissingKey
	}
	if len(key) < MinKeyLength {
		return nil, fmt.Errorf("jwt signing key must be at least %d bytes", MinKeyLength)
	}
	if strings.TrimSpace(cfg.Issuer) == "" || strings.TrimSpace(cfg.Audience) == "" {
		return nil, errors.New("jwt issuer and audience are required")
	}
	if cfg.AccessTokenMinutes <= 0 {
		return nil, errors.New("access token lifetime must be greater than zero")
	}

	i := &Issuer{
		key:      []byte(key),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		lifetime: time.Duration(cfg.AccessTokenMinutes) * time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Lifetime returns the configured access token lifetime
func (i *Issuer) Lifetime() time.Duration {
	return i.lifetime
}

// IssueAccessToken signs an access token for p and returns it with its token id
func (i *Issuer) IssueAccessToken(p *domain.Principal) (string, string, error) {
	if p == nil || p.ID <= 0 {
		return "", "", errors.New("principal is required")
	}

	// Token times travel at second precision, so the window is anchored on a whole second.
	now := i.now().UTC().Truncate(time.Second)
	tokenID := uuid.NewString()

	claims := wireClaims{
		Email: p.Email,
		Roles: dedupeRoles([]string{string(p.Role)}),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   strconv.FormatInt(p.ID, 10),
			Audience:  jwt.ClaimStrings{i.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}
	if p.TenantID != nil {
		claims.TenantID = strconv.FormatInt(*p.TenantID, 10)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", "", fmt.Errorf("sign token: %w", err)
	}
	return signed, tokenID, nil
}

// IssueRefreshCredential generates a random refresh secret and its one-way hash
func (i *Issuer) IssueRefreshCredential() (*RefreshCredential, error) {
	buf := make([]byte, RefreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	raw := base64.RawURLEncoding.EncodeToString(buf)
	return &RefreshCredential{
		Raw:  raw,
		Hash: password.HashToken(raw),
	}, nil
}

// Validate verifies signature, issuer, audience and lifetime, then returns typed claims
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrTokenInvalid
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	token, err := parser.ParseWithClaims(tokenString, &wireClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return i.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	wire, ok := token.Claims.(*wireClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	return i.validateClaims(wire)
}

// validateClaims checks the registered claims with zero clock skew.
// The window [nbf, exp] is inclusive; the clock is not rounded to the wire's second precision.
func (i *Issuer) validateClaims(wire *wireClaims) (*Claims, error) {
	if wire.Issuer != i.issuer {
		return nil, ErrTokenInvalid
	}
	if !containsString(wire.Audience, i.audience) {
		return nil, ErrTokenInvalid
	}
	if wire.ExpiresAt == nil || wire.NotBefore == nil || wire.IssuedAt == nil {
		return nil, ErrTokenInvalid
	}
	if wire.ExpiresAt.Time.Before(wire.IssuedAt.Time) {
		return nil, ErrTokenInvalid
	}

	now := i.now().UTC()
	if now.Before(wire.NotBefore.Time) {
		return nil, ErrTokenInvalid
	}
	if now.After(wire.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}

	userID, err := strconv.ParseInt(wire.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, ErrTokenInvalid
	}
	if strings.TrimSpace(wire.ID) == "" || strings.TrimSpace(wire.Email) == "" {
		return nil, ErrTokenInvalid
	}

	roles := make([]domain.Role, 0, len(wire.Roles))
	for _, r := range dedupeRoles(wire.Roles) {
		roles = append(roles, domain.Role(r))
	}
	if len(roles) == 0 {
		return nil, ErrTokenInvalid
	}

	claims := &Claims{
		UserID:    userID,
		Email:     wire.Email,
		TokenID:   wire.ID,
		Roles:     roles,
		IssuedAt:  wire.IssuedAt.Time.UTC(),
		NotBefore: wire.NotBefore.Time.UTC(),
		ExpiresAt: wire.ExpiresAt.Time.UTC(),
	}
	if wire.TenantID != "" {
		tenantID, err := strconv.ParseInt(wire.TenantID, 10, 64)
		if err != nil {
			return nil, ErrTokenInvalid
		}
		claims.TenantID = &tenantID
	}
	return claims, nil
}

// dedupeRoles upper-cases and removes case-insensitive duplicates, keeping first-seen order
func dedupeRoles(roles []string) []string {
	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		role = strings.ToUpper(strings.TrimSpace(role))
		if role == "" {
			continue
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	return out
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
