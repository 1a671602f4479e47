package domain

import (
	"strconv"
	"time"
)

// Role represents a principal's role in the system
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleTenantOwner Role = "TENANT_OWNER"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTenantOwner
}

// Principal is the authenticated subject as read from the account store at sign-in.
// A TENANT_OWNER always carries a TenantID; an ADMIN never does.
type Principal struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Role        Role   `json:"role"`
	IsActive    bool   `json:"isActive"`
	TenantID    *int64 `json:"generatorOwnerId"`
}

// CheckTenantScope enforces the role/tenant correlation
func (p *Principal) CheckTenantScope() error {
	switch p.Role {
	case RoleTenantOwner:
		if p.TenantID == nil {
			return Internal("principal_scope", "tenant owner account has no tenant", nil)
		}
	case RoleAdmin:
		if p.TenantID != nil {
			return Internal("principal_scope", "admin account must not carry a tenant", nil)
		}
	default:
		return Internal("principal_role", "unknown role "+strconv.Quote(string(p.Role)), nil)
	}
	return nil
}

// TokenPair represents access and refresh tokens handed to the client
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session is the result of a successful sign-in or refresh
type Session struct {
	User  *Principal `json:"user"`
	Token *TokenPair `json:"token"`
}

// UserSummary is a row of the admin user listing
type UserSummary struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FullName    string    `json:"fullName"`
	PhoneNumber string    `json:"phoneNumber"`
	Role        Role      `json:"role"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	TenantID    *int64    `json:"generatorOwnerId"`
}

// OwnerCustomer is a subscriber belonging to exactly one generator owner (tenant)
type OwnerCustomer struct {
	ID                 int64     `json:"id"`
	TenantID           int64     `json:"generatorOwnerId"`
	CustomerID         int64     `json:"customerId"`
	PhoneNumber        string    `json:"phoneNumber"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	SubscriptionNumber string    `json:"subscriptionNumber"`
	Zone               string    `json:"zone"`
	Address            string    `json:"address"`
	SubscriptionAmps   float64   `json:"subscriptionAmps"`
	BillingMode        string    `json:"billingMode"`
	DefaultNameOnBill  string    `json:"defaultNameOnBill"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
}
