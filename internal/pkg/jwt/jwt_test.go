package jwt

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"generator-backoffice/internal/core/domain"
	"generator-backoffice/internal/pkg/password"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestIssuer(t *testing.T, clock *fakeClock) *Issuer {
	t.Helper()
	issuer, err := NewIssuer(Config{
		Key:                testKey,
		Issuer:             "generator-api",
		Audience:           "generator-spa",
		AccessTokenMinutes: 15,
	}, WithClock(clock.Now))
	require.NoError(t, err)
	return issuer
}

func ownerPrincipal() *domain.Principal {
	tenant := int64(42)
	return &domain.Principal{
		ID:       7,
		Email:    "owner@example.com",
		Role:     domain.RoleTenantOwner,
		IsActive: true,
		TenantID: &tenant,
	}
}

func TestNewIssuerRejectsBadConfig(t *testing.T) {
	cases := map[string]Config{
		"missing key":      {Issuer: "i", Audience: "a", AccessTokenMinutes: 15},
		"short key":        {Key: "short", Issuer: "i", Audience: "a", AccessTokenMinutes: 15},
		"missing issuer":   {Key: testKey, Audience: "a", AccessTokenMinutes: 15},
		"missing audience": {Key: testKey, Issuer: "i", AccessTokenMinutes: 15},
		"zero lifetime":    {Key: testKey, Issuer: "i", Audience: "a"},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewIssuer(cfg)
			assert.Error(t, err)
		})
	}

	_, err := NewIssuer(Config{Issuer: "i", Audience: "a", AccessTokenMinutes: 15})
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestIssueAndValidateTenantOwner(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	issuer := newTestIssuer(t, clock)

	token, tokenID, err := issuer.IssueAccessToken(ownerPrincipal())
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.Equal(t, tokenID, claims.TokenID)
	assert.Equal(t, []domain.Role{domain.RoleTenantOwner}, claims.Roles)
	require.NotNil(t, claims.TenantID)
	assert.Equal(t, int64(42), *claims.TenantID)
	assert.Equal(t, clock.now, claims.NotBefore)
	assert.Equal(t, clock.now.Add(15*time.Minute), claims.ExpiresAt)
}

func TestTenantClaimOnTheWire(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	issuer := newTestIssuer(t, clock)

	token, _, err := issuer.IssueAccessToken(ownerPrincipal())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"tenant_id":"42"`)
	assert.Contains(t, string(payload), `"aud":["generator-spa"]`)
}

func TestAdminTokenHasNoTenant(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	issuer := newTestIssuer(t, clock)

	admin := &domain.Principal{ID: 1, Email: "admin@example.com", Role: domain.RoleAdmin, IsActive: true}
	token, _, err := issuer.IssueAccessToken(admin)
	require.NoError(t, err)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Nil(t, claims.TenantID)
	assert.Equal(t, []domain.Role{domain.RoleAdmin}, claims.Roles)
}

func TestValidityWindow(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: issuedAt}
	issuer := newTestIssuer(t, clock)

	token, _, err := issuer.IssueAccessToken(ownerPrincipal())
	require.NoError(t, err)

	for _, offset := range []time.Duration{0, time.Second, 7 * time.Minute, 15*time.Minute - time.Second, 15 * time.Minute} {
		clock.now = issuedAt.Add(offset)
		_, err := issuer.Validate(token)
		assert.NoError(t, err, "offset %s", offset)
	}

	for _, offset := range []time.Duration{15*time.Minute + time.Second, time.Hour} {
		clock.now = issuedAt.Add(offset)
		_, err := issuer.Validate(token)
		assert.ErrorIs(t, err, ErrTokenExpired, "offset %s", offset)
	}

	clock.now = issuedAt.Add(-time.Second)
	_, err = issuer.Validate(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidityWindowSubSecondIssue(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 10, 0, 0, 700_000_000, time.UTC)
	clock := &fakeClock{now: issuedAt}
	issuer := newTestIssuer(t, clock)

	token, _, err := issuer.IssueAccessToken(ownerPrincipal())
	require.NoError(t, err)

	clock.now = time.Date(2025, 3, 1, 10, 14, 59, 950_000_000, time.UTC)
	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Equal(time.Date(2025, 3, 1, 10, 15, 0, 0, time.UTC)))

	clock.now = time.Date(2025, 3, 1, 10, 15, 0, 0, time.UTC)
	_, err = issuer.Validate(token)
	assert.NoError(t, err)

	for _, at := range []time.Time{
		time.Date(2025, 3, 1, 10, 15, 0, 1, time.UTC),
		time.Date(2025, 3, 1, 10, 15, 0, 950_000_000, time.UTC),
	} {
		clock.now = at
		_, err = issuer.Validate(token)
		assert.ErrorIs(t, err, ErrTokenExpired, "at %s", at)
	}
}

func TestTamperedSignatureIsRejected(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	issuer := newTestIssuer(t, clock)

	token, _, err := issuer.IssueAccessToken(ownerPrincipal())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	for i := range sig {
		flipped := append([]byte(nil), sig...)
		flipped[i] ^= 0x01
		tampered := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(flipped)
		_, err := issuer.Validate(tampered)
		assert.ErrorIs(t, err, ErrTokenInvalid, "byte %d", i)
	}
}

func TestValidateRejectsForeignTokens(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	issuer := newTestIssuer(t, clock)

	otherAudience, err := NewIssuer(Config{Key: testKey, Issuer: "generator-api", Audience: "mobile", AccessTokenMinutes: 15}, WithClock(clock.Now))
	require.NoError(t, err)
	otherIssuer, err := NewIssuer(Config{Key: testKey, Issuer: "someone-else", Audience: "generator-spa", AccessTokenMinutes: 15}, WithClock(clock.Now))
	require.NoError(t, err)
	otherKey, err := NewIssuer(Config{Key: strings.Repeat("x", 32), Issuer: "generator-api", Audience: "generator-spa", AccessTokenMinutes: 15}, WithClock(clock.Now))
	require.NoError(t, err)

	for name, foreign := range map[string]*Issuer{"audience": otherAudience, "issuer": otherIssuer, "key": otherKey} {
		t.Run(name, func(t *testing.T) {
			token, _, err := foreign.IssueAccessToken(ownerPrincipal())
			require.NoError(t, err)
			_, err = issuer.Validate(token)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}

	_, err = issuer.Validate("")
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = issuer.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateRejectsNoneAndMissingClaims(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	issuer := newTestIssuer(t, clock)
	now := clock.now.UTC().Truncate(time.Second)

	unsigned := gojwt.NewWithClaims(gojwt.SigningMethodNone, wireClaims{
		Email: "owner@example.com",
		Roles: []string{"TENANT_OWNER"},
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer: "generator-api", Subject: "7", Audience: gojwt.ClaimStrings{"generator-spa"},
			ExpiresAt: gojwt.NewNumericDate(now.Add(time.Minute)), NotBefore: gojwt.NewNumericDate(now),
			IssuedAt: gojwt.NewNumericDate(now), ID: "jti",
		},
	})
	none, err := unsigned.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Validate(none)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	noRoles := gojwt.NewWithClaims(gojwt.SigningMethodHS256, wireClaims{
		Email: "owner@example.com",
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer: "generator-api", Subject: "7", Audience: gojwt.ClaimStrings{"generator-spa"},
			ExpiresAt: gojwt.NewNumericDate(now.Add(time.Minute)), NotBefore: gojwt.NewNumericDate(now),
			IssuedAt: gojwt.NewNumericDate(now), ID: "jti",
		},
	})
	signed, err := noRoles.SignedString([]byte(testKey))
	require.NoError(t, err)
	_, err = issuer.Validate(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	noExpiry := gojwt.NewWithClaims(gojwt.SigningMethodHS256, wireClaims{
		Email: "owner@example.com",
		Roles: []string{"ADMIN"},
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer: "generator-api", Subject: "7", Audience: gojwt.ClaimStrings{"generator-spa"},
			NotBefore: gojwt.NewNumericDate(now), IssuedAt: gojwt.NewNumericDate(now), ID: "jti",
		},
	})
	signed, err = noExpiry.SignedString([]byte(testKey))
	require.NoError(t, err)
	_, err = issuer.Validate(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestDedupeRoles(t *testing.T) {
	assert.Equal(t, []string{"ADMIN", "TENANT_OWNER"}, dedupeRoles([]string{"admin", "ADMIN", " Tenant_Owner ", "", "Admin"}))
	assert.Empty(t, dedupeRoles(nil))
}

func TestIssueRefreshCredential(t *testing.T) {
	issuer := newTestIssuer(t, &fakeClock{now: time.Now()})

	first, err := issuer.IssueRefreshCredential()
	require.NoError(t, err)
	second, err := issuer.IssueRefreshCredential()
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(first.Raw)
	require.NoError(t, err)
	assert.Len(t, raw, RefreshTokenBytes)
	assert.Equal(t, password.HashToken(first.Raw), first.Hash)
	assert.NotEqual(t, first.Raw, second.Raw)
	assert.NotEqual(t, first.Raw, first.Hash)
}
