package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iqx/iqx-backend/internal/model"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts u.  A zero ID is replaced with a random UUID.  A taken
// email is reported as ErrDuplicateKey by the unique index.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return classify(r.db.WithContext(ctx).Create(u).Error)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail fetches a user by email.  The caller normalises the address.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", email)
}

// Update applies the supplied fields of p to u and persists only the
// columns that changed, stamping update_date.
func (r *UserRepo) Update(ctx context.Context, u *model.User, p model.UserPatch) (*model.User, error) {
	cols := p.Apply(u)
	if len(cols) == 0 {
		return u, nil
	}
	now := time.Now().UTC()
	u.UpdateDate = &now
	cols = append(cols, "update_date")
	if err := r.db.WithContext(ctx).Model(u).Select(cols).Updates(u).Error; err != nil {
		return nil, classify(err)
	}
	return u, nil
}

// Delete removes a user and returns the deleted row, or nil when no user
// has that id.
func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var deleted *model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u model.User
		if err := tx.Where("id = ?", id).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Delete(&u).Error; err != nil {
			return err
		}
		deleted = &u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *UserRepo) first(ctx context.Context, query string, args ...any) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
