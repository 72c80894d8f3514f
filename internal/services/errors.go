// Package services holds the business rules for meals, reviews, meal
// requests, users, packages and payments. This file centralizes service-level
// errors so handlers can map them to HTTP results consistently.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by every ValidationError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden is returned when the caller may not perform the change.
	ErrForbidden = errors.New("forbidden")

	ErrMealNotFound    = errors.New("meal not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrRequestNotFound = errors.New("meal request not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrPackageNotFound = errors.New("package not found")

	// ErrLikeConflict is returned when the like toggle kept losing races.
	ErrLikeConflict = errors.New("like toggle conflict")

	// ErrDuplicatePayment is returned when a transaction ID was already
	// recorded under a different idempotency key (or none).
	ErrDuplicatePayment = errors.New("payment already recorded")

	// ErrUnavailable marks a store call that timed out. It is retryable.
	ErrUnavailable = errors.New("store unavailable")

	// ErrUpstream marks any other store failure.
	ErrUpstream = errors.New("store failure")

	// ErrPaymentGatewayUnavailable marks a gateway timeout or outage. The
	// client may retry with the same idempotency key.
	ErrPaymentGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrPaymentRejected marks a request the gateway refused.
	ErrPaymentRejected = errors.New("payment rejected")
)

// ValidationError describes one rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInput) true for every ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
