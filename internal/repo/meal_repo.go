// This file provides repository functions for the Meal model and its
// reviews.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no business logic, only persistence and query composition.
//
// Error semantics:
//   - A missing meal or review yields ErrNotFound.
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-hostel-backend/internal/domain"
	"github.com/tbourn/go-hostel-backend/internal/query"
)

// CreateMeal inserts m, assigning an ID when empty. Embedded reviews are not
// inserted; use AddReview.
func CreateMeal(ctx context.Context, db *gorm.DB, m *domain.Meal) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	m.CreatedAt, m.UpdatedAt = now, now
	m.Reviews = nil
	m.ReviewCount = 0
	return translate(db.WithContext(ctx).Omit("Reviews").Create(m).Error)
}

func withReviews(q *gorm.DB) *gorm.DB {
	return q.Preload("Reviews", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC").Order("id ASC")
	})
}

// GetMeal fetches one meal with its reviews in append order.
func GetMeal(ctx context.Context, db *gorm.DB, id string) (*domain.Meal, error) {
	var m domain.Meal
	if err := withReviews(db.WithContext(ctx)).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// ListMeals returns meals matching f in f.Sort order, with reviews.
// limit <= 0 returns every match.
func ListMeals(ctx context.Context, db *gorm.DB, f query.Filter, offset, limit int) ([]domain.Meal, error) {
	q := applyFilter(db.WithContext(ctx).Model(&domain.Meal{}), f)
	q = window(applySort(q, f.Sort), offset, limit)
	out := []domain.Meal{}
	err := withReviews(q).Find(&out).Error
	return out, translate(err)
}

// CountMeals returns the number of meals matching f.
func CountMeals(ctx context.Context, db *gorm.DB, f query.Filter) (int64, error) {
	var n int64
	err := applyFilter(db.WithContext(ctx).Model(&domain.Meal{}), f).Count(&n).Error
	return n, translate(err)
}

// DeleteMeal removes a meal together with its reviews.
func DeleteMeal(ctx context.Context, db *gorm.DB, id string) error {
	return translate(db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_id = ?", id).Delete(&domain.Review{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Meal{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}))
}

// SwapLikes sets the like state to `to` only if the stored state still equals
// `from`. It reports whether the swap happened.
func SwapLikes(ctx context.Context, db *gorm.DB, id string, from, to domain.LikeState) (bool, error) {
	res := db.WithContext(ctx).Model(&domain.Meal{}).
		Where("id = ? AND likes = ? AND liked = ?", id, from.Likes, from.Liked).
		Updates(map[string]any{
			"likes":      to.Likes,
			"liked":      to.Liked,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// AddReview appends r to the meal's reviews and bumps its review count in one
// transaction. r.MealID, r.Position, r.ID and r.CreatedAt are set here.
func AddReview(ctx context.Context, db *gorm.DB, mealID string, r *domain.Review) error {
	now := time.Now().UTC()
	return translate(db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Meal{}).Where("id = ?", mealID).Updates(map[string]any{
			"review_count": gorm.Expr("review_count + 1"),
			"updated_at":   now,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		var next int
		if err := tx.Model(&domain.Review{}).
			Where("meal_id = ?", mealID).
			Select("COALESCE(MAX(position), -1) + 1").
			Scan(&next).Error; err != nil {
			return err
		}

		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		r.MealID = mealID
		r.Position = next
		r.CreatedAt = now
		return tx.Create(r).Error
	}))
}

// DeleteReview removes one review by its ID and decrements the owning meal's
// review count.
func DeleteReview(ctx context.Context, db *gorm.DB, reviewID string) error {
	return translate(db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r domain.Review
		if err := tx.Select("id", "meal_id").First(&r, "id = ?", reviewID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Review{}, "id = ?", reviewID).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Meal{}).
			Where("id = ? AND review_count > 0", r.MealID).
			Updates(map[string]any{
				"review_count": gorm.Expr("review_count - 1"),
				"updated_at":   time.Now().UTC(),
			}).Error
	}))
}
