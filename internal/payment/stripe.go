package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

// Stripe is a Gateway backed by the Stripe PaymentIntents API. It owns its
// own client so the process-wide stripe.Key is never touched.
type Stripe struct {
	api *client.API
}

// StripeOption customises the Stripe backend.
type StripeOption func(*stripe.BackendConfig)

// WithBaseURL points the client at another API host (used by tests).
func WithBaseURL(url string) StripeOption {
	return func(c *stripe.BackendConfig) { c.URL = stripe.String(url) }
}

// NewStripe builds a client for secretKey whose HTTP calls give up after
// timeout. Retries are left to the caller, who owns the idempotency key.
func NewStripe(secretKey string, timeout time.Duration, opts ...StripeOption) *Stripe {
	cfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	}
	for _, o := range opts {
		o(cfg)
	}
	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	}
	return &Stripe{api: client.New(secretKey, backends)}
}

// CreateIntent creates a card payment intent for req.Amount minor units.
func (s *Stripe) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.Amount),
		Currency:           stripe.String(req.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, classify(err)
	}
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}

// classify wraps a Stripe client error in ErrGatewayUnavailable or
// ErrGatewayRejected.
func classify(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		if se.HTTPStatusCode >= 500 || se.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: stripe status %d", ErrGatewayUnavailable, se.HTTPStatusCode)
		}
		return fmt.Errorf("%w: %s", ErrGatewayRejected, se.Msg)
	}
	// Anything else is transport level: timeouts, resets, DNS.
	return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
}
