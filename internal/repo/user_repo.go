package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-hostel-backend/internal/domain"
	"github.com/tbourn/go-hostel-backend/internal/query"
)

// CreateUser inserts u. An existing email yields ErrDuplicate.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	return translate(db.WithContext(ctx).Create(u).Error)
}

// GetUserByEmail fetches a user by its business key.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// ListUsers returns a window of users matching f, oldest first.
func ListUsers(ctx context.Context, db *gorm.DB, f query.Filter, offset, limit int) ([]domain.User, error) {
	q := applyFilter(db.WithContext(ctx).Model(&domain.User{}), f)
	out := []domain.User{}
	err := window(applySort(q, f.Sort), offset, limit).Find(&out).Error
	return out, translate(err)
}

// CountUsers returns the number of users matching f.
func CountUsers(ctx context.Context, db *gorm.DB, f query.Filter) (int64, error) {
	var n int64
	err := applyFilter(db.WithContext(ctx).Model(&domain.User{}), f).Count(&n).Error
	return n, translate(err)
}

// UpdateUser applies changes (column -> value) to the user with email and
// returns the stored row.
func UpdateUser(ctx context.Context, db *gorm.DB, email string, changes map[string]any) (*domain.User, error) {
	var out domain.User
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		set := map[string]any{"updated_at": time.Now().UTC()}
		for k, v := range changes {
			set[k] = v
		}
		res := tx.Model(&domain.User{}).Where("email = ?", email).Updates(set)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.First(&out, "email = ?", email).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}
