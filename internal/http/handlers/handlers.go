package handlers

import (
	"context"
	"time"

	"github.com/tbourn/go-hostel-backend/internal/domain"
	"github.com/tbourn/go-hostel-backend/internal/payment"
	"github.com/tbourn/go-hostel-backend/internal/query"
	"github.com/tbourn/go-hostel-backend/internal/services"
	"github.com/tbourn/go-hostel-backend/internal/utils"
)

// MealService is the meal contract used by the handlers.
type MealService interface {
	Create(ctx context.Context, m *domain.Meal) (*domain.Meal, error)
	Get(ctx context.Context, id string) (*domain.Meal, error)
	ListPage(ctx context.Context, f query.Filter, p utils.Page) (utils.Paged[domain.Meal], error)
	ListAll(ctx context.Context, f query.Filter) ([]domain.Meal, bool, error)
	Upcoming(ctx context.Context, byLikes bool) ([]domain.Meal, bool, error)
	Delete(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, id string) (domain.LikeState, error)
	Stats(ctx context.Context) (int64, *time.Time, error)
}

// ReviewService is the review contract used by the handlers.
type ReviewService interface {
	Add(ctx context.Context, mealID string, in services.ReviewInput) (*domain.Review, error)
	Delete(ctx context.Context, reviewID string) error
	ByAuthor(ctx context.Context, email string) ([]domain.Review, error)
}

// RequestService is the meal-request contract used by the handlers.
type RequestService interface {
	Create(ctx context.Context, r *domain.MealRequest) (*domain.MealRequest, bool, error)
	ListByEmail(ctx context.Context, email string, p utils.Page) (utils.Paged[domain.MealRequest], error)
	Search(ctx context.Context, term string, p utils.Page) (utils.Paged[domain.MealRequest], error)
	Patch(ctx context.Context, id string, patch domain.RequestPatch) (*domain.MealRequest, error)
	Delete(ctx context.Context, id string) error
}

// UserService is the user contract used by the handlers.
type UserService interface {
	Register(ctx context.Context, u *domain.User) (*domain.User, bool, error)
	Get(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, term string, p utils.Page) (utils.Paged[domain.User], error)
	IsAdmin(ctx context.Context, email string) (bool, error)
	Patch(ctx context.Context, actor, email string, patch domain.UserPatch) (*domain.User, error)
}

// PackageService is the catalog contract used by the handlers.
type PackageService interface {
	List(ctx context.Context) ([]domain.Package, error)
	Get(ctx context.Context, name string) (*domain.Package, error)
}

// PaymentService is the payment contract used by the handlers.
type PaymentService interface {
	CreateIntent(ctx context.Context, price float64, key string) (*payment.Intent, error)
	Record(ctx context.Context, in services.PaymentInput, key string) (*domain.Payment, bool, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Payment, error)
}

// TokenIssuer mints identity tokens.
type TokenIssuer interface {
	Issue(email, name string) (string, time.Time, error)
}

// Pinger reports store readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles everything the handlers call.
type Deps struct {
	Meals    MealService
	Reviews  ReviewService
	Requests RequestService
	Users    UserService
	Packages PackageService
	Payments PaymentService
	Tokens   TokenIssuer
	Store    Pinger
}

// Handlers groups the HTTP endpoints.
type Handlers struct {
	meals    MealService
	reviews  ReviewService
	requests RequestService
	users    UserService
	packages PackageService
	payments PaymentService
	tokens   TokenIssuer
	store    Pinger
}

// New builds Handlers from d.
func New(d Deps) *Handlers {
	return &Handlers{
		meals:    d.Meals,
		reviews:  d.Reviews,
		requests: d.Requests,
		users:    d.Users,
		packages: d.Packages,
		payments: d.Payments,
		tokens:   d.Tokens,
		store:    d.Store,
	}
}
