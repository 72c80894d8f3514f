package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-hostel-backend/internal/domain"
	"github.com/tbourn/go-hostel-backend/internal/query"
)

// MaxReviewRunes bounds review content.
const MaxReviewRunes = 4000

// reviewScanBatch is the page size used when scanning meals for reviews.
const reviewScanBatch = 200

// ReviewService appends, removes and aggregates meal reviews.
type ReviewService struct {
	Store   MealStore
	Timeout time.Duration
}

// ReviewInput is what a caller may set on a new review. The author identity
// comes from the verified token, never from the body.
type ReviewInput struct {
	Email   string
	Name    string
	Content string
	Rating  int
}

// Add validates in and appends it to the meal's reviews.
func (s *ReviewService) Add(ctx context.Context, mealID string, in ReviewInput) (*domain.Review, error) {
	ctx, span := otel.Tracer("services/ReviewService").Start(ctx, "Add",
		trace.WithAttributes(attribute.String("meal.id", mealID)))
	defer span.End()

	in.Content = strings.TrimSpace(in.Content)
	switch {
	case strings.TrimSpace(in.Email) == "":
		return nil, invalid("email", "required")
	case in.Content == "":
		return nil, invalid("content", "required")
	case utf8.RuneCountInString(in.Content) > MaxReviewRunes:
		return nil, invalid("content", "too long")
	case in.Rating < 1 || in.Rating > 5:
		return nil, invalid("rating", "must be between 1 and 5")
	}

	r := &domain.Review{
		Email:   in.Email,
		Name:    strings.TrimSpace(in.Name),
		Content: in.Content,
		Rating:  in.Rating,
	}
	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	if err := s.Store.AddReview(sctx, mealID, r); err != nil {
		if isNotFound(err) {
			return nil, ErrMealNotFound
		}
		return nil, storeErr("add review", err)
	}
	return r, nil
}

// Delete removes one review by its ID.
func (s *ReviewService) Delete(ctx context.Context, reviewID string) error {
	ctx, span := otel.Tracer("services/ReviewService").Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("review.id", reviewID)))
	defer span.End()

	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	if err := s.Store.DeleteReview(sctx, reviewID); err != nil {
		if isNotFound(err) {
			return ErrReviewNotFound
		}
		return storeErr("delete review", err)
	}
	return nil
}

// ByAuthor returns every review written by email across all meals, in meal
// order then in-meal order.
func (s *ReviewService) ByAuthor(ctx context.Context, email string) ([]domain.Review, error) {
	ctx, span := otel.Tracer("services/ReviewService").Start(ctx, "ByAuthor")
	defer span.End()

	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	out := []domain.Review{}
	for offset := 0; ; offset += reviewScanBatch {
		meals, err := s.Store.ListMeals(sctx, query.Filter{}, offset, reviewScanBatch)
		if err != nil {
			return nil, storeErr("scan meals", err)
		}
		out = append(out, AggregateReviews(meals, email)...)
		if len(meals) < reviewScanBatch {
			break
		}
	}
	span.SetAttributes(attribute.Int("reviews.count", len(out)))
	return out, nil
}

// AggregateReviews flattens the reviews in meals whose author is email. It
// has no side effects and never returns nil.
func AggregateReviews(meals []domain.Meal, email string) []domain.Review {
	out := []domain.Review{}
	for _, m := range meals {
		for _, r := range m.Reviews {
			if r.Email == email {
				if r.MealID == "" {
					r.MealID = m.ID
				}
				out = append(out, r)
			}
		}
	}
	return out
}
