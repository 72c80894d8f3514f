package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tbourn/go-hostel-backend/internal/domain"
	"github.com/tbourn/go-hostel-backend/internal/query"
)

// DefaultTimeout bounds a store call when a service has no Timeout set.
const DefaultTimeout = 5 * time.Second

// MealStore persists meals and their reviews.
type MealStore interface {
	CreateMeal(ctx context.Context, m *domain.Meal) error
	GetMeal(ctx context.Context, id string) (*domain.Meal, error)
	ListMeals(ctx context.Context, f query.Filter, offset, limit int) ([]domain.Meal, error)
	CountMeals(ctx context.Context, f query.Filter) (int64, error)
	DeleteMeal(ctx context.Context, id string) error
	SwapLikes(ctx context.Context, id string, from, to domain.LikeState) (bool, error)
	MealsStats(ctx context.Context) (int64, *time.Time, error)
	AddReview(ctx context.Context, mealID string, r *domain.Review) error
	DeleteReview(ctx context.Context, reviewID string) error
}

// RequestStore persists meal requests.
type RequestStore interface {
	CreateRequest(ctx context.Context, r *domain.MealRequest) error
	FindRequest(ctx context.Context, email, requestedID string) (*domain.MealRequest, error)
	ListRequests(ctx context.Context, f query.Filter, offset, limit int) ([]domain.MealRequest, error)
	CountRequests(ctx context.Context, f query.Filter) (int64, error)
	UpdateRequest(ctx context.Context, id string, changes map[string]any) (*domain.MealRequest, error)
	DeleteRequest(ctx context.Context, id string) error
}

// UserStore persists users keyed by email.
type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, f query.Filter, offset, limit int) ([]domain.User, error)
	CountUsers(ctx context.Context, f query.Filter) (int64, error)
	UpdateUser(ctx context.Context, email string, changes map[string]any) (*domain.User, error)
}

// PackageStore persists subscription packages.
type PackageStore interface {
	ListPackages(ctx context.Context) ([]domain.Package, error)
	GetPackageByName(ctx context.Context, name string) (*domain.Package, error)
	UpsertPackage(ctx context.Context, p *domain.Package) error
}

// PaymentStore persists payments and their idempotency keys.
type PaymentStore interface {
	RecordPayment(ctx context.Context, p *domain.Payment, idem *domain.Idempotency) error
	GetPayment(ctx context.Context, id string) (*domain.Payment, error)
	ListPaymentsByEmail(ctx context.Context, email string) ([]domain.Payment, error)
	GetIdempotency(ctx context.Context, scope, subject, key string, now time.Time) (*domain.Idempotency, error)
}

// Store is the full persistence contract. repo.Store and mongostore.Store
// both satisfy it.
type Store interface {
	MealStore
	RequestStore
	UserStore
	PackageStore
	PaymentStore
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// bounded derives a context that expires after d (DefaultTimeout when d <= 0).
func bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}

// storeErr classifies an unexpected store error. Not-found and duplicate
// cases are handled by callers before reaching here.
func storeErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrUpstream, err)
}

func isNotFound(err error) bool { return errors.Is(err, domain.ErrRecordNotFound) }

func isDuplicate(err error) bool { return errors.Is(err, domain.ErrDuplicateRecord) }
