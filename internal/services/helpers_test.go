package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/tbourn/go-hostel-backend/internal/domain"
	"github.com/tbourn/go-hostel-backend/internal/events"
	"github.com/tbourn/go-hostel-backend/internal/payment"
	"github.com/tbourn/go-hostel-backend/internal/repo"
)

func newStore(t *testing.T) *repo.Store {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "services_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	st := repo.NewStore(db)
	t.Cleanup(func() { _ = st.Close() })
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st
}

// recorder captures published events.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

// stubGateway returns intent or err and records the last request.
type stubGateway struct {
	intent *payment.Intent
	err    error
	last   payment.IntentRequest
	calls  int
}

func (g *stubGateway) CreateIntent(_ context.Context, req payment.IntentRequest) (*payment.Intent, error) {
	g.calls++
	g.last = req
	if g.err != nil {
		return nil, g.err
	}
	return g.intent, nil
}

// contendedMeals loses the first `lose` SwapLikes calls, as if another
// writer got in between the read and the write.
type contendedMeals struct {
	MealStore
	lose  int
	swaps int
}

func (c *contendedMeals) SwapLikes(ctx context.Context, id string, from, to domain.LikeState) (bool, error) {
	c.swaps++
	if c.swaps <= c.lose {
		return false, nil
	}
	return c.MealStore.SwapLikes(ctx, id, from, to)
}

func mustMeal(t *testing.T, svc *MealService, title, category string, price float64) *domain.Meal {
	t.Helper()
	m, err := svc.Create(context.Background(), &domain.Meal{Title: title, Category: category, Price: price})
	if err != nil {
		t.Fatalf("Create(%q): %v", title, err)
	}
	return m
}
