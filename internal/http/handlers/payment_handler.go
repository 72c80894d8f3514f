package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-hostel-backend/internal/http/middleware"
	"github.com/tbourn/go-hostel-backend/internal/services"
)

// CreateIntentRequest is the payload for POST /create-payment-intent.
type CreateIntentRequest struct {
	Price float64 `json:"price" example:"29.99"`
}

// CreateIntentResponse carries the secret the browser confirms the payment
// with.
type CreateIntentResponse struct {
	ClientSecret string `json:"clientSecret" example:"pi_3N..._secret_..."`
}

// RecordPaymentRequest is the payload for POST /payments.
type RecordPaymentRequest struct {
	Email         string            `json:"email"         example:"ann@hostel.example"`
	Price         float64           `json:"price"         example:"29.99"`
	TransactionID string            `json:"transactionId" example:"pi_3N..."`
	PackageName   string            `json:"packageName"   example:"silver"`
	Metadata      map[string]string `json:"metadata"`
}

// CreatePaymentIntent godoc
// @ID          createPaymentIntent
// @Summary     Create a payment intent
// @Description Converts price to minor units in the configured currency. An Idempotency-Key is forwarded to the gateway.
// @Tags        Payments
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string                        false  "Retry-safe key"
// @Param       body             body    handlers.CreateIntentRequest  true   "Price"
// @Success     200  {object}  handlers.CreateIntentResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     422  {object}  handlers.ErrorResponse
// @Failure     503  {object}  handlers.ErrorResponse
// @Router      /create-payment-intent [post]
func (h *Handlers) CreatePaymentIntent(c *gin.Context) {
	var req CreateIntentRequest
	if !bindStrict(c, &req) {
		return
	}
	key, _ := middleware.GetIdempotencyKey(c)
	in, err := h.payments.CreateIntent(c.Request.Context(), req.Price, key)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, CreateIntentResponse{ClientSecret: in.ClientSecret})
}

// RecordPayment godoc
// @ID          recordPayment
// @Summary     Record a completed payment
// @Description With Idempotency-Key, a retry by the same payer returns the original payment (200, Idempotency-Replayed: true). A reused transactionId is 409.
// @Tags        Payments
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string                         false  "Retry-safe key"
// @Param       body             body    handlers.RecordPaymentRequest  true   "Payment"
// @Success     201  {object}  domain.Payment
// @Success     200  {object}  domain.Payment
// @Header      200  {string}  Idempotency-Replayed  "true on replay"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse
// @Router      /payments [post]
func (h *Handlers) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if !bindLoose(c, &req) {
		return
	}
	key, _ := middleware.GetIdempotencyKey(c)
	p, replayed, err := h.payments.Record(c.Request.Context(), services.PaymentInput{
		Email:         req.Email,
		Price:         req.Price,
		TransactionID: req.TransactionID,
		PackageName:   req.PackageName,
		Metadata:      req.Metadata,
	}, key)
	if err != nil {
		respondError(c, err)
		return
	}
	if replayed {
		middleware.MarkReplay(c)
		ok(c, http.StatusOK, p)
		return
	}
	ok(c, http.StatusCreated, p)
}

// ListPayments godoc
// @ID        listPayments
// @Summary   The caller's payments
// @Tags      Payments
// @Produce   json
// @Security  BearerAuth
// @Param     email  path   string  true  "Caller's own email"
// @Success   200    {array}  domain.Payment
// @Failure   401    {object}  handlers.ErrorResponse
// @Failure   403    {object}  handlers.ErrorResponse
// @Router    /payments/{email} [get]
func (h *Handlers) ListPayments(c *gin.Context) {
	out, err := h.payments.ListByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}
