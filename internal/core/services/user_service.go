package services

import (
	"context"
	"errors"

	"generator-backoffice/internal/adapters/persistence/repositories"
	"generator-backoffice/internal/core/domain"
	"generator-backoffice/internal/pkg/pagination"

	"gorm.io/gorm"
)

// UserService handles the admin user listing
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsersOutput represents list users output
type ListUsersOutput struct {
	Users []*domain.UserSummary
	Total int64
}

// ListUsers lists all users with pagination
func (s *UserService) ListUsers(ctx context.Context, params *pagination.Params) (*ListUsersOutput, error) {
	rows, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, storeError(err, "account_store", "user listing failed")
	}

	users := make([]*domain.UserSummary, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.ToSummary())
	}

	return &ListUsersOutput{
		Users: pagination.Slice(users, params),
		Total: int64(len(users)),
	}, nil
}

// GetUser returns one user by id
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.UserSummary, error) {
	row, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeError(err, "account_store", "user lookup failed")
	}
	return row.ToSummary(), nil
}
