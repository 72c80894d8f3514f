// Package services – MealService
//
// MealService owns meal creation, listing (paged and full), deletion and the
// like toggle. Listings accept a query.Filter built by the handler; the same
// filter drives both the window and the total count.
package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-hostel-backend/internal/domain"
	"github.com/tbourn/go-hostel-backend/internal/events"
	"github.com/tbourn/go-hostel-backend/internal/query"
	"github.com/tbourn/go-hostel-backend/internal/utils"
)

// MaxLikeAttempts bounds the compare-and-swap loop in ToggleLike.
const MaxLikeAttempts = 5

// DefaultListingCap bounds ListAll and Upcoming, which have no page
// parameters.
const DefaultListingCap = 10_000

// MealService coordinates meal persistence.
type MealService struct {
	Store   MealStore
	Events  events.Publisher
	Timeout time.Duration
	// ListCap overrides DefaultListingCap when positive.
	ListCap int
}

// NewMealService wires a MealService with a no-op publisher.
func NewMealService(store MealStore, timeout time.Duration) *MealService {
	return &MealService{Store: store, Events: events.Nop{}, Timeout: timeout}
}

// Create validates and inserts a new meal. Likes, reviews and review count
// always start at zero regardless of input.
func (s *MealService) Create(ctx context.Context, m *domain.Meal) (*domain.Meal, error) {
	ctx, span := otel.Tracer("services/MealService").Start(ctx, "Create",
		trace.WithAttributes(attribute.String("meal.category", m.Category)))
	defer span.End()

	m.Title = strings.TrimSpace(m.Title)
	m.Category = strings.TrimSpace(m.Category)
	switch {
	case m.Title == "":
		return nil, invalid("title", "required")
	case m.Category == "":
		return nil, invalid("category", "required")
	case math.IsNaN(m.Price) || math.IsInf(m.Price, 0) || m.Price < 0:
		return nil, invalid("price", "must be a finite non-negative number")
	}
	m.ID = ""
	m.Likes, m.Liked = 0, false
	m.Reviews, m.ReviewCount = nil, 0

	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	if err := s.Store.CreateMeal(sctx, m); err != nil {
		return nil, storeErr("create meal", err)
	}
	m.Reviews = []domain.Review{}
	publish(ctx, s.Events, events.New(events.MealCreated, map[string]any{
		"id": m.ID, "title": m.Title, "category": m.Category,
	}))
	return m, nil
}

// Get fetches one meal with its reviews.
func (s *MealService) Get(ctx context.Context, id string) (*domain.Meal, error) {
	ctx, span := otel.Tracer("services/MealService").Start(ctx, "Get",
		trace.WithAttributes(attribute.String("meal.id", id)))
	defer span.End()

	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	m, err := s.Store.GetMeal(sctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrMealNotFound
		}
		return nil, storeErr("get meal", err)
	}
	return m, nil
}

// ListPage returns one window of meals matching f, plus pagination metadata
// computed from the count of the same filter.
func (s *MealService) ListPage(ctx context.Context, f query.Filter, p utils.Page) (utils.Paged[domain.Meal], error) {
	ctx, span := otel.Tracer("services/MealService").Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.Int("page", p.Number),
			attribute.Int("size", p.Size),
			attribute.String("sort", string(f.Sort.Field)),
		))
	defer span.End()

	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	total, err := s.Store.CountMeals(sctx, f)
	if err != nil {
		return utils.Paged[domain.Meal]{}, storeErr("count meals", err)
	}
	items, err := s.Store.ListMeals(sctx, f, p.Skip(), p.Limit())
	if err != nil {
		return utils.Paged[domain.Meal]{}, storeErr("list meals", err)
	}
	return utils.NewPaged(items, p, total), nil
}

// ListAll returns every meal matching f, up to the listing cap. truncated
// reports that more meals matched than were returned.
func (s *MealService) ListAll(ctx context.Context, f query.Filter) (items []domain.Meal, truncated bool, err error) {
	ctx, span := otel.Tracer("services/MealService").Start(ctx, "ListAll")
	defer span.End()

	limit := s.ListCap
	if limit <= 0 {
		limit = DefaultListingCap
	}
	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	// One extra row tells a full result from an exact fit.
	items, err = s.Store.ListMeals(sctx, f, 0, limit+1)
	if err != nil {
		return nil, false, storeErr("list meals", err)
	}
	if len(items) > limit {
		items, truncated = items[:limit], true
		span.SetAttributes(attribute.Bool("listing.truncated", true))
		zerolog.Ctx(ctx).Warn().Int("cap", limit).Msg("meal listing truncated")
	}
	return items, truncated, nil
}

// Upcoming returns every meal, optionally ordered by likes descending.
func (s *MealService) Upcoming(ctx context.Context, byLikes bool) ([]domain.Meal, bool, error) {
	f := query.Filter{}
	if byLikes {
		f.Sort = query.Sort{Field: query.FieldLikes, Desc: true}
	}
	return s.ListAll(ctx, f)
}

// Delete removes a meal and its reviews.
func (s *MealService) Delete(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("services/MealService").Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("meal.id", id)))
	defer span.End()

	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	if err := s.Store.DeleteMeal(sctx, id); err != nil {
		if isNotFound(err) {
			return ErrMealNotFound
		}
		return storeErr("delete meal", err)
	}
	return nil
}

// ToggleLike flips the meal's liked flag and moves likes by one in the same
// direction. The write is conditional on the state that was read; a lost race
// re-reads and retries up to MaxLikeAttempts times before ErrLikeConflict.
func (s *MealService) ToggleLike(ctx context.Context, id string) (domain.LikeState, error) {
	ctx, span := otel.Tracer("services/MealService").Start(ctx, "ToggleLike",
		trace.WithAttributes(attribute.String("meal.id", id)))
	defer span.End()

	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	for attempt := 1; attempt <= MaxLikeAttempts; attempt++ {
		m, err := s.Store.GetMeal(sctx, id)
		if err != nil {
			if isNotFound(err) {
				return domain.LikeState{}, ErrMealNotFound
			}
			return domain.LikeState{}, storeErr("read meal", err)
		}
		from := m.LikeState()
		to := from.Toggle()
		ok, err := s.Store.SwapLikes(sctx, id, from, to)
		if err != nil {
			if isNotFound(err) {
				return domain.LikeState{}, ErrMealNotFound
			}
			return domain.LikeState{}, storeErr("swap likes", err)
		}
		if ok {
			span.SetAttributes(attribute.Int("like.attempts", attempt))
			return to, nil
		}
	}
	return domain.LikeState{}, ErrLikeConflict
}

// Stats returns the meal count and the most recent update time, used for
// weak ETags on listings.
func (s *MealService) Stats(ctx context.Context) (int64, *time.Time, error) {
	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	n, last, err := s.Store.MealsStats(sctx)
	if err != nil {
		return 0, nil, storeErr("meal stats", err)
	}
	return n, last, nil
}

// publish delivers ev on a detached context. Failures are logged and never
// surface to the caller: the write that produced the event already succeeded.
func publish(ctx context.Context, p events.Publisher, ev events.Event) {
	if p == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := p.Publish(pctx, ev); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("event_type", ev.Type).
			Str("event_id", ev.ID).
			Msg("event publish failed")
	}
}
