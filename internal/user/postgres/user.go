package postgres

import (
	"context"
	"errors"

	userDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/user"
	"github.com/frahmantamala/mibu/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*userDatamodel.User, error) {
	return r.first(ctx, "id = ?", userID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Upsert(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing userDatamodel.User
		err := tx.Where("email = ?", u.Email).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(u).Error
		}
		if err != nil {
			return err
		}

		err = tx.Model(&existing).Updates(map[string]interface{}{
			"name":          u.Name,
			"password_hash": u.PasswordHash,
			"is_active":     u.IsActive,
		}).Error
		if err != nil {
			return err
		}
		u.ID = existing.ID
		u.CreatedAt = existing.CreatedAt
		u.UpdatedAt = existing.UpdatedAt
		return nil
	})
}
