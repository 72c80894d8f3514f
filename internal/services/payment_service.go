package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-hostel-backend/internal/domain"
	"github.com/tbourn/go-hostel-backend/internal/events"
	"github.com/tbourn/go-hostel-backend/internal/payment"
)

// PaymentScope namespaces idempotency keys used by POST /payments.
const PaymentScope = "payments"

// PaymentService forms payment intents with the gateway and records
// completed payments.
type PaymentService struct {
	Store   PaymentStore
	Gateway payment.Gateway
	Events  events.Publisher

	Currency       string        // ISO 4217, lowercase
	Timeout        time.Duration // store bound
	GatewayTimeout time.Duration // gateway bound
	IdempotencyTTL time.Duration

	now func() time.Time
}

// PaymentInput is a completed payment as reported by the client.
type PaymentInput struct {
	Email         string
	Price         float64
	TransactionID string
	PackageName   string
	Metadata      map[string]string
}

func (s *PaymentService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}

func (s *PaymentService) currency() string {
	if c := strings.ToLower(strings.TrimSpace(s.Currency)); c != "" {
		return c
	}
	return "usd"
}

// CreateIntent converts price to minor units and asks the gateway for an
// intent. key, when set, is forwarded as the gateway idempotency key.
func (s *PaymentService) CreateIntent(ctx context.Context, price float64, key string) (*payment.Intent, error) {
	ctx, span := otel.Tracer("services/PaymentService").Start(ctx, "CreateIntent",
		trace.WithAttributes(attribute.Bool("idempotency.key", key != "")))
	defer span.End()

	amount, err := payment.AmountFromPrice(price)
	if err != nil {
		return nil, invalid("price", "must be a positive finite number")
	}
	if s.Gateway == nil {
		return nil, ErrPaymentGatewayUnavailable
	}
	span.SetAttributes(attribute.Int64("payment.amount", amount))

	d := s.GatewayTimeout
	if d <= 0 {
		d = 10 * time.Second
	}
	gctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	intent, err := s.Gateway.CreateIntent(gctx, payment.IntentRequest{
		Amount:         amount,
		Currency:       s.currency(),
		IdempotencyKey: key,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create intent")
		if errors.Is(err, payment.ErrGatewayRejected) {
			return nil, errors.Join(ErrPaymentRejected, err)
		}
		return nil, errors.Join(ErrPaymentGatewayUnavailable, err)
	}
	return intent, nil
}

// Record stores a completed payment. With a non-empty key, a retry of the
// same key by the same payer returns the originally stored payment and
// replayed=true. A transaction ID already recorded otherwise yields
// ErrDuplicatePayment.
func (s *PaymentService) Record(ctx context.Context, in PaymentInput, key string) (_ *domain.Payment, replayed bool, _ error) {
	ctx, span := otel.Tracer("services/PaymentService").Start(ctx, "Record",
		trace.WithAttributes(attribute.Bool("idempotency.key", key != "")))
	defer span.End()

	in.Email = strings.TrimSpace(in.Email)
	in.TransactionID = strings.TrimSpace(in.TransactionID)
	switch {
	case in.Email == "":
		return nil, false, invalid("email", "required")
	case in.TransactionID == "":
		return nil, false, invalid("transactionId", "required")
	}
	amount, err := payment.AmountFromPrice(in.Price)
	if err != nil {
		return nil, false, invalid("price", "must be a positive finite number")
	}

	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	if key != "" {
		if p, err := s.replay(sctx, in.Email, key); err == nil {
			span.SetAttributes(attribute.Bool("idempotency.replayed", true))
			return p, true, nil
		} else if !isNotFound(err) {
			return nil, false, err
		}
	}

	p := &domain.Payment{
		Email:         in.Email,
		Price:         in.Price,
		Amount:        amount,
		Currency:      s.currency(),
		TransactionID: in.TransactionID,
		PackageName:   strings.TrimSpace(in.PackageName),
		Metadata:      in.Metadata,
	}
	var idem *domain.Idempotency
	if key != "" {
		ttl := s.IdempotencyTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		idem = &domain.Idempotency{
			Scope:     PaymentScope,
			Subject:   in.Email,
			Key:       key,
			Status:    http.StatusCreated,
			ExpiresAt: s.clock().Add(ttl),
		}
	}

	if err := s.Store.RecordPayment(sctx, p, idem); err != nil {
		if !isDuplicate(err) {
			return nil, false, storeErr("record payment", err)
		}
		// Either a concurrent retry with the same key won, or the
		// transaction ID was already used.
		if key != "" {
			if prev, rerr := s.replay(sctx, in.Email, key); rerr == nil {
				return prev, true, nil
			}
		}
		return nil, false, ErrDuplicatePayment
	}

	publish(ctx, s.Events, events.New(events.PaymentRecorded, map[string]any{
		"id": p.ID, "email": p.Email, "amount": p.Amount, "currency": p.Currency,
		"transactionId": p.TransactionID, "packageName": p.PackageName,
	}))
	return p, false, nil
}

// replay returns the payment bound to (email, key), or a not-found error.
func (s *PaymentService) replay(ctx context.Context, email, key string) (*domain.Payment, error) {
	rec, err := s.Store.GetIdempotency(ctx, PaymentScope, email, key, s.clock())
	if err != nil {
		if isNotFound(err) {
			return nil, err
		}
		return nil, storeErr("get idempotency", err)
	}
	p, err := s.Store.GetPayment(ctx, rec.ResourceID)
	if err != nil {
		if isNotFound(err) {
			return nil, err
		}
		return nil, storeErr("get payment", err)
	}
	return p, nil
}

// ListByEmail returns a payer's payments, oldest first.
func (s *PaymentService) ListByEmail(ctx context.Context, email string) ([]domain.Payment, error) {
	ctx, span := otel.Tracer("services/PaymentService").Start(ctx, "ListByEmail")
	defer span.End()

	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	out, err := s.Store.ListPaymentsByEmail(sctx, email)
	if err != nil {
		return nil, storeErr("list payments", err)
	}
	return out, nil
}
