package repositories

import (
	"context"
	"time"

	"generator-backoffice/internal/adapters/persistence/models"
)

// UserRepository defines the account store interface.
// Lookups that match nothing return gorm.ErrRecordNotFound.
type UserRepository interface {
	SignIn(ctx context.Context, params SignInParams) (*models.SignInRow, error)
	GetByID(ctx context.Context, id int64) (*models.UserRow, error)
	List(ctx context.Context) ([]*models.UserRow, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint, at time.Time) (bool, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string, at time.Time) error
	RevokeAllByUserID(ctx context.Context, userID int64, at time.Time) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// OwnerCustomerRepository defines read-only access to a tenant's customers
type OwnerCustomerRepository interface {
	ListByTenant(ctx context.Context, tenantID int64) ([]*models.OwnerCustomerRow, error)
}
