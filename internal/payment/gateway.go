// Package payment forms charge amounts and requests payment intents from the
// external gateway. Only intent creation lives here; capture and
// confirmation happen client-side.
package payment

import (
	"context"
	"errors"
	"math"
)

var (
	// ErrInvalidPrice is returned for a price that is not a positive, finite
	// number or that overflows minor units.
	ErrInvalidPrice = errors.New("price must be a positive finite number")

	// ErrGatewayUnavailable marks a timeout, network failure or 5xx from the
	// gateway. The call may be retried with the same idempotency key.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrGatewayRejected marks a request the gateway refused.
	ErrGatewayRejected = errors.New("payment gateway rejected request")
)

// Intent is the subset of a gateway payment intent the API returns.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
}

// IntentRequest describes one intent to create.
type IntentRequest struct {
	Amount         int64
	Currency       string
	IdempotencyKey string
	Metadata       map[string]string
}

// Gateway creates payment intents.
type Gateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}

// AmountFromPrice converts a price in major units to integer minor units,
// rounding half away from zero (19.999 -> 2000, 0.015 -> 2).
func AmountFromPrice(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, ErrInvalidPrice
	}
	cents := math.Round(price * 100)
	if cents < 1 || cents > math.MaxInt64/2 {
		return 0, ErrInvalidPrice
	}
	return int64(cents), nil
}
