// Package handlers implements the HTTP endpoints. Handlers stay thin: they
// bind and validate transport input, call a service, and translate the
// result (or a service sentinel error) into a JSON response.
//
// Every error response uses ErrorResponse with one of the codes below.
// Clients branch on code, not on message.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-hostel-backend/internal/http/middleware"
	"github.com/tbourn/go-hostel-backend/internal/services"
)

const (
	ErrCodeBadRequest        = "bad_request"
	ErrCodeUnauthorized      = "unauthorized"
	ErrCodeForbidden         = "forbidden"
	ErrCodeNotFound          = "not_found"
	ErrCodeMethodNotAllowed  = "method_not_allowed"
	ErrCodeConflict          = "conflict"
	ErrCodeInternal          = "internal_error"
	ErrCodeUpstream          = "upstream_error"
	ErrCodeUnavailable       = "unavailable"
	ErrCodeGatewayDown       = "payment_gateway_unavailable"
	ErrCodePaymentRejected   = "payment_rejected"
	ErrCodeUnprocessable     = "unprocessable_entity"
	ErrCodePayloadTooLarge   = "payload_too_large"
	ErrCodeUnsupportedFormat = "unsupported_media_type"
)

// retryAfterSeconds is advertised on retryable 503s.
const retryAfterSeconds = 2

// respondError maps a service error onto status, code and a client-safe
// message. 5xx causes are attached to the Gin context so the access logger
// records them; they never reach the body.
func respondError(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, ve.Error())
	case errors.Is(err, services.ErrInvalidInput):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid input")
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "insufficient privilege")
	case errors.Is(err, services.ErrMealNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "meal not found")
	case errors.Is(err, services.ErrReviewNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "review not found")
	case errors.Is(err, services.ErrRequestNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "meal request not found")
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
	case errors.Is(err, services.ErrPackageNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "package not found")
	case errors.Is(err, services.ErrLikeConflict):
		fail(c, http.StatusConflict, ErrCodeConflict, "meal was modified concurrently, retry")
	case errors.Is(err, services.ErrDuplicatePayment):
		fail(c, http.StatusConflict, ErrCodeConflict, "payment already recorded")
	case errors.Is(err, services.ErrPaymentRejected):
		fail(c, http.StatusUnprocessableEntity, ErrCodePaymentRejected, "payment rejected by gateway")
	case errors.Is(err, services.ErrPaymentGatewayUnavailable):
		_ = c.Error(err)
		retryable(c)
		fail(c, http.StatusServiceUnavailable, ErrCodeGatewayDown, "payment gateway unavailable")
	case errors.Is(err, services.ErrUnavailable):
		_ = c.Error(err)
		retryable(c)
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "service unavailable")
	case errors.Is(err, services.ErrUpstream):
		_ = c.Error(err)
		fail(c, http.StatusBadGateway, ErrCodeUpstream, "upstream failure")
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}

// retryable sets Retry-After when repeating the request is safe: reads, or
// writes carrying an idempotency key.
func retryable(c *gin.Context) {
	m := c.Request.Method
	_, keyed := middleware.GetIdempotencyKey(c)
	if m == http.MethodGet || m == http.MethodHead || keyed {
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
}
