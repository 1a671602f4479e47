package models

import (
	"database/sql"
	"time"

	"generator-backoffice/internal/core/domain"

	"gorm.io/gorm"
)

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey"`
	UserID    int64      `gorm:"index;not null"`
	TokenHash string     `gorm:"size:64;not null;uniqueIndex"`
	ExpiresAt time.Time  `gorm:"not null"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	RevokedAt *time.Time `gorm:"index"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

// IsExpired reports whether the token is past its expiry at now
func (rt *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(rt.ExpiresAt)
}

// AutoMigrate creates the tables owned by this service.
// Account and tenant tables belong to the store and are only reached through procedures.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&RefreshToken{})
}

// ============================================================
// Stored procedure rows
// ============================================================

// SignInRow holds the OUT parameters of sp_UserSignIn
type SignInRow struct {
	UserID           sql.NullInt64  `gorm:"column:p_UserId"`
	Username         sql.NullString `gorm:"column:p_Username"`
	FullName         sql.NullString `gorm:"column:p_FullName"`
	PhoneNumber      sql.NullString `gorm:"column:p_PhoneNumber"`
	Role             sql.NullString `gorm:"column:p_Role"`
	IsActive         sql.NullBool   `gorm:"column:p_IsActive"`
	GeneratorOwnerID sql.NullInt64  `gorm:"column:p_GeneratorOwnerId"`
}

// Found reports whether the procedure matched an account
func (r *SignInRow) Found() bool {
	return r.UserID.Valid && r.UserID.Int64 != 0
}

// ToPrincipal builds the principal; the email is the one the caller signed in with
func (r *SignInRow) ToPrincipal(email string) *domain.Principal {
	return &domain.Principal{
		ID:          r.UserID.Int64,
		Username:    r.Username.String,
		Email:       email,
		FullName:    r.FullName.String,
		PhoneNumber: r.PhoneNumber.String,
		Role:        domain.Role(r.Role.String),
		IsActive:    r.IsActive.Valid && r.IsActive.Bool,
		TenantID:    nullableInt64(r.GeneratorOwnerID),
	}
}

// UserRow is a row of sp_GetUsers
type UserRow struct {
	ID               int64          `gorm:"column:Id"`
	Username         sql.NullString `gorm:"column:Username"`
	Email            sql.NullString `gorm:"column:Email"`
	FullName         sql.NullString `gorm:"column:FullName"`
	PhoneNumber      sql.NullString `gorm:"column:PhoneNumber"`
	Role             sql.NullString `gorm:"column:Role"`
	IsActive         bool           `gorm:"column:IsActive"`
	CreatedAt        time.Time      `gorm:"column:CreatedAt"`
	GeneratorOwnerID sql.NullInt64  `gorm:"column:GeneratorOwnerId"`
}

func (r *UserRow) ToPrincipal() *domain.Principal {
	return &domain.Principal{
		ID:          r.ID,
		Username:    r.Username.String,
		Email:       r.Email.String,
		FullName:    r.FullName.String,
		PhoneNumber: r.PhoneNumber.String,
		Role:        domain.Role(r.Role.String),
		IsActive:    r.IsActive,
		TenantID:    nullableInt64(r.GeneratorOwnerID),
	}
}

func (r *UserRow) ToSummary() *domain.UserSummary {
	return &domain.UserSummary{
		ID:          r.ID,
		Username:    r.Username.String,
		Email:       r.Email.String,
		FullName:    r.FullName.String,
		PhoneNumber: r.PhoneNumber.String,
		Role:        domain.Role(r.Role.String),
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		TenantID:    nullableInt64(r.GeneratorOwnerID),
	}
}

// OwnerCustomerRow is a row of sp_GetOwnerCustomers
type OwnerCustomerRow struct {
	ID                 int64           `gorm:"column:Id"`
	GeneratorOwnerID   int64           `gorm:"column:GeneratorOwnerId"`
	CustomerID         int64           `gorm:"column:CustomerId"`
	SubscriptionNumber string          `gorm:"column:SubscriptionNumber"`
	Zone               sql.NullString  `gorm:"column:Zone"`
	Address            sql.NullString  `gorm:"column:Address"`
	SubscriptionAmps   sql.NullFloat64 `gorm:"column:SubscriptionAmps"`
	BillingMode        string          `gorm:"column:BillingMode"`
	DefaultNameOnBill  sql.NullString  `gorm:"column:DefaultNameOnBill"`
	IsActive           bool            `gorm:"column:IsActive"`
	CreatedAt          time.Time       `gorm:"column:CreatedAt"`
	PhoneNumber        sql.NullString  `gorm:"column:PhoneNumber"`
	FirstName          sql.NullString  `gorm:"column:FirstName"`
	LastName           sql.NullString  `gorm:"column:LastName"`
}

func (r *OwnerCustomerRow) ToDomain() *domain.OwnerCustomer {
	return &domain.OwnerCustomer{
		ID:                 r.ID,
		TenantID:           r.GeneratorOwnerID,
		CustomerID:         r.CustomerID,
		PhoneNumber:        r.PhoneNumber.String,
		FirstName:          r.FirstName.String,
		LastName:           r.LastName.String,
		SubscriptionNumber: r.SubscriptionNumber,
		Zone:               r.Zone.String,
		Address:            r.Address.String,
		SubscriptionAmps:   r.SubscriptionAmps.Float64,
		BillingMode:        r.BillingMode,
		DefaultNameOnBill:  r.DefaultNameOnBill.String,
		IsActive:           r.IsActive,
		CreatedAt:          r.CreatedAt,
	}
}

func nullableInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}
