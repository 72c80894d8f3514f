package services

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-hostel-backend/internal/domain"
	"github.com/tbourn/go-hostel-backend/internal/events"
	"github.com/tbourn/go-hostel-backend/internal/query"
	"github.com/tbourn/go-hostel-backend/internal/utils"
)

// RequestService manages residents' meal requests.
type RequestService struct {
	Store   RequestStore
	Events  events.Publisher
	Timeout time.Duration
}

// Create stores r unless the same user already requested the same meal. In
// that case it returns the stored request and duplicate=true; that outcome
// is informational, not an error.
func (s *RequestService) Create(ctx context.Context, r *domain.MealRequest) (_ *domain.MealRequest, duplicate bool, _ error) {
	ctx, span := otel.Tracer("services/RequestService").Start(ctx, "Create",
		trace.WithAttributes(attribute.String("meal.id", r.RequestedID)))
	defer span.End()

	r.RequestedID = strings.TrimSpace(r.RequestedID)
	r.UserEmail = strings.TrimSpace(r.UserEmail)
	r.Title = strings.TrimSpace(r.Title)
	switch {
	case r.RequestedID == "":
		return nil, false, invalid("requestedId", "required")
	case r.UserEmail == "":
		return nil, false, invalid("userEmail", "required")
	case r.Title == "":
		return nil, false, invalid("title", "required")
	}
	if r.Status == "" {
		r.Status = domain.StatusPending
	} else if st, ok := domain.ParseRequestStatus(string(r.Status)); ok {
		r.Status = st
	} else {
		return nil, false, invalid("status", "must be pending or delivered")
	}

	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	existing, err := s.Store.FindRequest(sctx, r.UserEmail, r.RequestedID)
	switch {
	case err == nil:
		span.SetAttributes(attribute.Bool("request.duplicate", true))
		return existing, true, nil
	case !isNotFound(err):
		return nil, false, storeErr("find request", err)
	}

	r.ID = ""
	if err := s.Store.CreateRequest(sctx, r); err != nil {
		if isDuplicate(err) {
			// Lost a race against a concurrent identical request.
			if existing, ferr := s.Store.FindRequest(sctx, r.UserEmail, r.RequestedID); ferr == nil {
				return existing, true, nil
			}
		}
		return nil, false, storeErr("create request", err)
	}
	publish(ctx, s.Events, events.New(events.MealRequestCreated, map[string]any{
		"id": r.ID, "requestedId": r.RequestedID, "userEmail": r.UserEmail, "title": r.Title,
	}))
	return r, false, nil
}

// ListByEmail pages through one requester's requests.
func (s *RequestService) ListByEmail(ctx context.Context, email string, p utils.Page) (utils.Paged[domain.MealRequest], error) {
	if strings.TrimSpace(email) == "" {
		return utils.Paged[domain.MealRequest]{}, invalid("email", "required")
	}
	return s.list(ctx, "ListByEmail", query.Requests("", email), p)
}

// Search pages through all requests whose title or category contains term.
func (s *RequestService) Search(ctx context.Context, term string, p utils.Page) (utils.Paged[domain.MealRequest], error) {
	return s.list(ctx, "Search", query.Requests(term, ""), p)
}

func (s *RequestService) list(ctx context.Context, op string, f query.Filter, p utils.Page) (utils.Paged[domain.MealRequest], error) {
	ctx, span := otel.Tracer("services/RequestService").Start(ctx, op,
		trace.WithAttributes(attribute.Int("page", p.Number), attribute.Int("size", p.Size)))
	defer span.End()

	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	total, err := s.Store.CountRequests(sctx, f)
	if err != nil {
		return utils.Paged[domain.MealRequest]{}, storeErr("count requests", err)
	}
	items, err := s.Store.ListRequests(sctx, f, p.Skip(), p.Limit())
	if err != nil {
		return utils.Paged[domain.MealRequest]{}, storeErr("list requests", err)
	}
	return utils.NewPaged(items, p, total), nil
}

// Patch applies the allow-listed fields of patch to request id.
func (s *RequestService) Patch(ctx context.Context, id string, patch domain.RequestPatch) (*domain.MealRequest, error) {
	ctx, span := otel.Tracer("services/RequestService").Start(ctx, "Patch",
		trace.WithAttributes(attribute.String("request.id", id)))
	defer span.End()

	if patch.Empty() {
		return nil, invalid("", "no updatable fields")
	}
	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	r, err := s.Store.UpdateRequest(sctx, id, patch.Changes())
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRequestNotFound
		}
		return nil, storeErr("update request", err)
	}
	return r, nil
}

// Delete removes request id.
func (s *RequestService) Delete(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("services/RequestService").Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("request.id", id)))
	defer span.End()

	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	if err := s.Store.DeleteRequest(sctx, id); err != nil {
		if isNotFound(err) {
			return ErrRequestNotFound
		}
		return storeErr("delete request", err)
	}
	return nil
}
