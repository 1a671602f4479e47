package repositories

import (
	"context"

	"generator-backoffice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ownerCustomerRepository implements OwnerCustomerRepository.
// This is READ-ONLY access; the procedure filters by generator owner.
type ownerCustomerRepository struct {
	db *gorm.DB
}

// NewOwnerCustomerRepository creates a new owner customer repository
func NewOwnerCustomerRepository(db *gorm.DB) OwnerCustomerRepository {
	return &ownerCustomerRepository{db: db}
}

// ListByTenant lists the customers of one generator owner
func (r *ownerCustomerRepository) ListByTenant(ctx context.Context, tenantID int64) ([]*models.OwnerCustomerRow, error) {
	args, err := procGetOwnerCustomers.bind(GetOwnerCustomersParams{GeneratorOwnerID: tenantID}.args()...)
	if err != nil {
		return nil, err
	}

	var rows []*models.OwnerCustomerRow
	if err := r.db.WithContext(ctx).Raw(procGetOwnerCustomers.callSQL(), args...).Scan(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}
