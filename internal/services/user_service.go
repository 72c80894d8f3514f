package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-hostel-backend/internal/domain"
	"github.com/tbourn/go-hostel-backend/internal/query"
	"github.com/tbourn/go-hostel-backend/internal/utils"
)

// UserService handles registration, lookup and role/badge changes.
type UserService struct {
	Store   UserStore
	Timeout time.Duration
}

// Register stores u if no user with the same email exists and returns the
// stored record either way. created reports whether this call inserted it.
// Role and badge from the caller are ignored: new users are plain bronze
// residents.
func (s *UserService) Register(ctx context.Context, u *domain.User) (_ *domain.User, created bool, _ error) {
	ctx, span := otel.Tracer("services/UserService").Start(ctx, "Register")
	defer span.End()

	u.Email = strings.TrimSpace(u.Email)
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return nil, false, invalid("email", "must be an email address")
	}

	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	existing, err := s.Store.GetUserByEmail(sctx, u.Email)
	switch {
	case err == nil:
		return existing, false, nil
	case !isNotFound(err):
		return nil, false, storeErr("get user", err)
	}

	u.ID = ""
	u.Name = strings.TrimSpace(u.Name)
	u.Role = domain.RoleUser
	u.Badge = domain.BadgeBronze
	if err := s.Store.CreateUser(sctx, u); err != nil {
		if isDuplicate(err) {
			if existing, ferr := s.Store.GetUserByEmail(sctx, u.Email); ferr == nil {
				return existing, false, nil
			}
		}
		return nil, false, storeErr("create user", err)
	}
	span.SetAttributes(attribute.Bool("user.created", true))
	return u, true, nil
}

// Get fetches one user by email.
func (s *UserService) Get(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := otel.Tracer("services/UserService").Start(ctx, "Get")
	defer span.End()

	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	u, err := s.Store.GetUserByEmail(sctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, storeErr("get user", err)
	}
	return u, nil
}

// List pages through users whose name or email contains term.
func (s *UserService) List(ctx context.Context, term string, p utils.Page) (utils.Paged[domain.User], error) {
	ctx, span := otel.Tracer("services/UserService").Start(ctx, "List",
		trace.WithAttributes(attribute.Int("page", p.Number), attribute.Int("size", p.Size)))
	defer span.End()

	f := query.Users(term)
	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	total, err := s.Store.CountUsers(sctx, f)
	if err != nil {
		return utils.Paged[domain.User]{}, storeErr("count users", err)
	}
	items, err := s.Store.ListUsers(sctx, f, p.Skip(), p.Limit())
	if err != nil {
		return utils.Paged[domain.User]{}, storeErr("list users", err)
	}
	return utils.NewPaged(items, p, total), nil
}

// IsAdmin reports whether email belongs to an admin. An unknown email is
// simply not an admin.
func (s *UserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	u, err := s.Get(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.IsAdmin(), nil
}

// Patch applies patch to the user identified by email on behalf of actor.
// A badge may be changed by the user themself or by an admin; a role only
// by an admin.
func (s *UserService) Patch(ctx context.Context, actor, email string, patch domain.UserPatch) (*domain.User, error) {
	ctx, span := otel.Tracer("services/UserService").Start(ctx, "Patch",
		trace.WithAttributes(
			attribute.Bool("patch.badge", patch.Badge != nil),
			attribute.Bool("patch.role", patch.Role != nil),
		))
	defer span.End()

	if patch.Empty() {
		return nil, invalid("", "no updatable fields")
	}

	admin, err := s.IsAdmin(ctx, actor)
	if err != nil {
		return nil, err
	}
	if patch.Role != nil && !admin {
		return nil, ErrForbidden
	}
	if patch.Badge != nil && !admin && actor != email {
		return nil, ErrForbidden
	}

	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	u, err := s.Store.UpdateUser(sctx, email, patch.Changes())
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, storeErr("update user", err)
	}
	return u, nil
}
