package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-hostel-backend/internal/domain"
	"github.com/tbourn/go-hostel-backend/internal/query"
)

// CreateRequest inserts a meal request. A second request for the same
// (UserEmail, RequestedID) returns ErrDuplicate.
func CreateRequest(ctx context.Context, db *gorm.DB, r *domain.MealRequest) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now
	return translate(db.WithContext(ctx).Create(r).Error)
}

// FindRequest returns the request email made for requestedID, or ErrNotFound.
func FindRequest(ctx context.Context, db *gorm.DB, email, requestedID string) (*domain.MealRequest, error) {
	var r domain.MealRequest
	err := db.WithContext(ctx).
		Where("user_email = ? AND requested_id = ?", email, requestedID).
		First(&r).Error
	if err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

// ListRequests returns a window of requests matching f, oldest first.
func ListRequests(ctx context.Context, db *gorm.DB, f query.Filter, offset, limit int) ([]domain.MealRequest, error) {
	q := applyFilter(db.WithContext(ctx).Model(&domain.MealRequest{}), f)
	out := []domain.MealRequest{}
	err := window(applySort(q, f.Sort), offset, limit).Find(&out).Error
	return out, translate(err)
}

// CountRequests returns the number of requests matching f.
func CountRequests(ctx context.Context, db *gorm.DB, f query.Filter) (int64, error) {
	var n int64
	err := applyFilter(db.WithContext(ctx).Model(&domain.MealRequest{}), f).Count(&n).Error
	return n, translate(err)
}

// UpdateRequest applies changes (column -> value) and returns the stored row.
func UpdateRequest(ctx context.Context, db *gorm.DB, id string, changes map[string]any) (*domain.MealRequest, error) {
	var out domain.MealRequest
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		set := map[string]any{"updated_at": time.Now().UTC()}
		for k, v := range changes {
			set[k] = v
		}
		res := tx.Model(&domain.MealRequest{}).Where("id = ?", id).Updates(set)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.First(&out, "id = ?", id).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// DeleteRequest removes a meal request.
func DeleteRequest(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.MealRequest{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
