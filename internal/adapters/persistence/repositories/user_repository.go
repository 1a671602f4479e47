package repositories

import (
	"context"

	"generator-backoffice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// userRepository implements UserRepository on top of the account procedures
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// SignIn calls sp_UserSignIn and reads its OUT parameters back.
// Session variables live on one connection, so both statements run on a pinned one.
func (r *userRepository) SignIn(ctx context.Context, params SignInParams) (*models.SignInRow, error) {
	args, err := procUserSignIn.bind(params.args()...)
	if err != nil {
		return nil, err
	}

	var row models.SignInRow
	err = r.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		if err := tx.Exec(procUserSignIn.callSQL(), args...).Error; err != nil {
			return err
		}
		return tx.Raw(procUserSignIn.selectOutSQL()).Scan(&row).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	if !row.Found() {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

// GetByID gets an account by ID.
// The store exposes no single-account procedure, so the match is taken from sp_GetUsers.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.UserRow, error) {
	rows, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// List lists every account
func (r *userRepository) List(ctx context.Context) ([]*models.UserRow, error) {
	var rows []*models.UserRow
	err := r.db.WithContext(ctx).Raw(procGetUsers.callSQL()).Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}
