package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("sign in: %w", ErrInvalidCredentials)

	assert.Equal(t, KindAuthentication, KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, ErrInvalidCredentials))
	assert.Equal(t, KindAuthorization, KindOf(ErrMissingTenant))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestInternalUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("store_unavailable", "account store unavailable", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, "internal_error", err.Kind.String())
}

func TestPrincipalTenantScope(t *testing.T) {
	tenant := int64(42)

	owner := Principal{Role: RoleTenantOwner, TenantID: &tenant}
	assert.NoError(t, owner.CheckTenantScope())

	orphan := Principal{Role: RoleTenantOwner}
	assert.Equal(t, KindInternal, KindOf(orphan.CheckTenantScope()))

	admin := Principal{Role: RoleAdmin}
	assert.NoError(t, admin.CheckTenantScope())

	scopedAdmin := Principal{Role: RoleAdmin, TenantID: &tenant}
	assert.Error(t, scopedAdmin.CheckTenantScope())

	unknown := Principal{Role: "OFFICER"}
	assert.Error(t, unknown.CheckTenantScope())
}
