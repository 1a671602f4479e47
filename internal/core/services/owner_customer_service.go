package services

import (
	"context"
	"fmt"

	"generator-backoffice/internal/adapters/persistence/repositories"
	"generator-backoffice/internal/core/domain"
	"generator-backoffice/internal/pkg/pagination"
)

// OwnerCustomerService serves a generator owner's customer list
type OwnerCustomerService struct {
	repo repositories.OwnerCustomerRepository
}

// NewOwnerCustomerService creates a new owner customer service
func NewOwnerCustomerService(repo repositories.OwnerCustomerRepository) *OwnerCustomerService {
	return &OwnerCustomerService{repo: repo}
}

// ListOwnerCustomersOutput represents one page of a tenant's customers
type ListOwnerCustomersOutput struct {
	Customers []*domain.OwnerCustomer
	Total     int64
}

// ListForTenant lists the customers of tenantID. The tenant always comes from the
// caller's validated token, never from the request.
func (s *OwnerCustomerService) ListForTenant(ctx context.Context, tenantID int64, params *pagination.Params) (*ListOwnerCustomersOutput, error) {
	if tenantID <= 0 {
		return nil, domain.ErrMissingTenant
	}

	rows, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, storeError(err, "tenant_store", "customer listing failed")
	}

	customers := make([]*domain.OwnerCustomer, 0, len(rows))
	for _, r := range rows {
		c := r.ToDomain()
		if c.TenantID != tenantID {
			return nil, domain.Internal("tenant_scope",
				fmt.Sprintf("customer %d belongs to tenant %d, not %d", c.ID, c.TenantID, tenantID), nil)
		}
		customers = append(customers, c)
	}

	return &ListOwnerCustomersOutput{
		Customers: pagination.Slice(customers, params),
		Total:     int64(len(customers)),
	}, nil
}
