package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kailas-cloud/estaterec/internal/db/sqldb"
	"github.com/kailas-cloud/estaterec/internal/domain"
	domuser "github.com/kailas-cloud/estaterec/internal/domain/user"
)

// Repo implements usecase/auth.UserRepository on gorm.
type Repo struct {
	db *gorm.DB
}

// New creates a user repository.
func New(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// Create inserts u and returns it with its assigned ID.
// A taken username yields domain.ErrDuplicateUsername.
func (r *Repo) Create(ctx context.Context, u domuser.User) (domuser.User, error) {
	row := userToRow(u)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&sqldb.UserRow{}).Where("username = ?", row.Username).Count(&count).Error; err != nil {
			return &domain.StorageError{Op: "check username", Err: err}
		}
		if count > 0 {
			return domain.ErrDuplicateUsername
		}
		if err := tx.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateUsername
			}
			return &domain.StorageError{Op: "insert user", Err: err}
		}
		return nil
	})
	if err != nil {
		return domuser.User{}, err
	}
	return userFromRow(row), nil
}

// GetByUsername looks a user up by login name.
func (r *Repo) GetByUsername(ctx context.Context, username string) (domuser.User, error) {
	var row sqldb.UserRow
	err := r.db.WithContext(ctx).Where("username = ?", username).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domuser.User{}, domain.ErrNotFound
		}
		return domuser.User{}, &domain.StorageError{Op: "get user", Err: err}
	}
	return userFromRow(row), nil
}

// GetByID looks a user up by identifier.
func (r *Repo) GetByID(ctx context.Context, id uint) (domuser.User, error) {
	var row sqldb.UserRow
	err := r.db.WithContext(ctx).Take(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domuser.User{}, domain.ErrNotFound
		}
		return domuser.User{}, &domain.StorageError{Op: "get user", Err: err}
	}
	return userFromRow(row), nil
}
