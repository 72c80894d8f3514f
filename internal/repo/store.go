package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-hostel-backend/internal/domain"
	"github.com/tbourn/go-hostel-backend/internal/query"
)

// Store adapts the repository free functions to the services.Store contract
// over a single GORM handle.
type Store struct {
	DB *gorm.DB
}

// NewStore wraps db.
func NewStore(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) CreateMeal(ctx context.Context, m *domain.Meal) error {
	return CreateMeal(ctx, s.DB, m)
}

func (s *Store) GetMeal(ctx context.Context, id string) (*domain.Meal, error) {
	return GetMeal(ctx, s.DB, id)
}

func (s *Store) ListMeals(ctx context.Context, f query.Filter, offset, limit int) ([]domain.Meal, error) {
	return ListMeals(ctx, s.DB, f, offset, limit)
}

func (s *Store) CountMeals(ctx context.Context, f query.Filter) (int64, error) {
	return CountMeals(ctx, s.DB, f)
}

func (s *Store) DeleteMeal(ctx context.Context, id string) error {
	return DeleteMeal(ctx, s.DB, id)
}

func (s *Store) SwapLikes(ctx context.Context, id string, from, to domain.LikeState) (bool, error) {
	return SwapLikes(ctx, s.DB, id, from, to)
}

func (s *Store) MealsStats(ctx context.Context) (int64, *time.Time, error) {
	return MealsStats(ctx, s.DB)
}

func (s *Store) AddReview(ctx context.Context, mealID string, r *domain.Review) error {
	return AddReview(ctx, s.DB, mealID, r)
}

func (s *Store) DeleteReview(ctx context.Context, reviewID string) error {
	return DeleteReview(ctx, s.DB, reviewID)
}

func (s *Store) CreateRequest(ctx context.Context, r *domain.MealRequest) error {
	return CreateRequest(ctx, s.DB, r)
}

func (s *Store) FindRequest(ctx context.Context, email, requestedID string) (*domain.MealRequest, error) {
	return FindRequest(ctx, s.DB, email, requestedID)
}

func (s *Store) ListRequests(ctx context.Context, f query.Filter, offset, limit int) ([]domain.MealRequest, error) {
	return ListRequests(ctx, s.DB, f, offset, limit)
}

func (s *Store) CountRequests(ctx context.Context, f query.Filter) (int64, error) {
	return CountRequests(ctx, s.DB, f)
}

func (s *Store) UpdateRequest(ctx context.Context, id string, changes map[string]any) (*domain.MealRequest, error) {
	return UpdateRequest(ctx, s.DB, id, changes)
}

func (s *Store) DeleteRequest(ctx context.Context, id string) error {
	return DeleteRequest(ctx, s.DB, id)
}

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	return CreateUser(ctx, s.DB, u)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return GetUserByEmail(ctx, s.DB, email)
}

func (s *Store) ListUsers(ctx context.Context, f query.Filter, offset, limit int) ([]domain.User, error) {
	return ListUsers(ctx, s.DB, f, offset, limit)
}

func (s *Store) CountUsers(ctx context.Context, f query.Filter) (int64, error) {
	return CountUsers(ctx, s.DB, f)
}

func (s *Store) UpdateUser(ctx context.Context, email string, changes map[string]any) (*domain.User, error) {
	return UpdateUser(ctx, s.DB, email, changes)
}

func (s *Store) ListPackages(ctx context.Context) ([]domain.Package, error) {
	return ListPackages(ctx, s.DB)
}

func (s *Store) GetPackageByName(ctx context.Context, name string) (*domain.Package, error) {
	return GetPackageByName(ctx, s.DB, name)
}

func (s *Store) UpsertPackage(ctx context.Context, p *domain.Package) error {
	return UpsertPackage(ctx, s.DB, p)
}

func (s *Store) RecordPayment(ctx context.Context, p *domain.Payment, idem *domain.Idempotency) error {
	return RecordPayment(ctx, s.DB, p, idem)
}

func (s *Store) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	return GetPayment(ctx, s.DB, id)
}

func (s *Store) ListPaymentsByEmail(ctx context.Context, email string) ([]domain.Payment, error) {
	return ListPaymentsByEmail(ctx, s.DB, email)
}

func (s *Store) GetIdempotency(ctx context.Context, scope, subject, key string, now time.Time) (*domain.Idempotency, error) {
	return GetIdempotency(ctx, s.DB, scope, subject, key, now)
}

// Migrate runs AutoMigrate.
func (s *Store) Migrate(ctx context.Context) error {
	return AutoMigrate(s.DB.WithContext(ctx))
}

// Ping checks the underlying connection pool.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
