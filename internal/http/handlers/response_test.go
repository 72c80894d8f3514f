package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-hostel-backend/internal/http/middleware"
	"github.com/tbourn/go-hostel-backend/internal/services"
)

func TestFail_5xxLogsRedactedCause(t *testing.T) {
	var buf bytes.Buffer
	r := newEngine(captureLogger(&buf))
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("lookup ann@hostel.example failed"))
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	})

	w := do(r, http.MethodGet, "/boom", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	e := decodeError(t, w)
	if e.Code != ErrCodeInternal || e.RequestID == "" || e.RequestID != w.Header().Get("X-Request-ID") {
		t.Fatalf("envelope=%+v", e)
	}
	logs := buf.String()
	if !strings.Contains(logs, `"level":"error"`) {
		t.Fatalf("expected error log, got %s", logs)
	}
	if strings.Contains(logs, "ann@hostel.example") {
		t.Fatalf("email leaked into logs: %s", logs)
	}
}

func TestFail_4xxDoesNotLog(t *testing.T) {
	var buf bytes.Buffer
	r := newEngine(captureLogger(&buf))
	r.GET("/missing", func(c *gin.Context) { Fail(c, http.StatusNotFound, ErrCodeNotFound, "nope") })

	w := do(r, http.MethodGet, "/missing", "")
	if w.Code != http.StatusNotFound || decodeError(t, w).Message != "nope" {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected log: %s", buf.String())
	}
}

func TestBind(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	r := newEngine()
	r.POST("/strict", func(c *gin.Context) {
		var p payload
		if bindStrict(c, &p) {
			ok(c, http.StatusOK, p)
		}
	})
	r.POST("/loose", func(c *gin.Context) {
		var p payload
		if bindLoose(c, &p) {
			ok(c, http.StatusOK, p)
		}
	})

	cases := []struct {
		name, path, body, ctype string
		want                    int
	}{
		{"strict ok", "/strict", `{"name":"a"}`, "application/json", http.StatusOK},
		{"strict unknown field", "/strict", `{"name":"a","x":1}`, "application/json", http.StatusBadRequest},
		{"loose unknown field", "/loose", `{"name":"a","x":1}`, "application/json", http.StatusOK},
		{"trailing data", "/strict", `{"name":"a"}{"name":"b"}`, "application/json", http.StatusBadRequest},
		{"empty body", "/strict", ``, "application/json", http.StatusBadRequest},
		{"malformed", "/strict", `{"name":`, "application/json", http.StatusBadRequest},
		{"charset param", "/strict", `{"name":"a"}`, "application/json; charset=utf-8", http.StatusOK},
		{"wrong media type", "/strict", `{"name":"a"}`, "text/plain", http.StatusUnsupportedMediaType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", tc.ctype)
			w := serveReq(r, req)
			if w.Code != tc.want {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestBind_TooLarge(t *testing.T) {
	r := newEngine()
	r.POST("/x", func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 8)
		var p map[string]string
		if bindStrict(c, &p) {
			ok(c, http.StatusOK, p)
		}
	})
	w := do(r, http.MethodPost, "/x", `{"name":"far more than eight bytes"}`)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status=%d", w.Code)
	}
	if decodeError(t, w).Code != ErrCodePayloadTooLarge {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestPageParams_Invalid(t *testing.T) {
	r := newEngine()
	r.GET("/p", func(c *gin.Context) {
		if p, good := pageParams(c); good {
			ok(c, http.StatusOK, p)
		}
	})
	for _, q := range []string{"page=0", "size=0", "size=101", "page=abc"} {
		if w := do(r, http.MethodGet, "/p?"+q, ""); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status=%d", q, w.Code)
		}
	}
	if w := do(r, http.MethodGet, "/p?page=2&size=10", ""); w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestRespondError_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
		code string
	}{
		{&services.ValidationError{Field: "title", Reason: "required"}, http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrInvalidInput, http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
		{services.ErrMealNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrReviewNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrRequestNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrUserNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrPackageNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrLikeConflict, http.StatusConflict, ErrCodeConflict},
		{services.ErrDuplicatePayment, http.StatusConflict, ErrCodeConflict},
		{errors.Join(services.ErrPaymentRejected, errors.New("card declined")), http.StatusUnprocessableEntity, ErrCodePaymentRejected},
		{errors.Join(services.ErrPaymentGatewayUnavailable, errors.New("dial")), http.StatusServiceUnavailable, ErrCodeGatewayDown},
		{fmt.Errorf("count: %w", services.ErrUnavailable), http.StatusServiceUnavailable, ErrCodeUnavailable},
		{fmt.Errorf("count: %w", services.ErrUpstream), http.StatusBadGateway, ErrCodeUpstream},
		{errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			r := newEngine()
			r.GET("/e", func(c *gin.Context) { respondError(c, tc.err) })
			w := do(r, http.MethodGet, "/e", "")
			if w.Code != tc.want {
				t.Fatalf("status=%d want %d", w.Code, tc.want)
			}
			if got := decodeError(t, w).Code; got != tc.code {
				t.Fatalf("code=%q want %q", got, tc.code)
			}
		})
	}
}

func TestRespondError_ValidationMessage(t *testing.T) {
	r := newEngine()
	r.GET("/e", func(c *gin.Context) {
		respondError(c, &services.ValidationError{Field: "rating", Reason: "must be between 1 and 5"})
	})
	w := do(r, http.MethodGet, "/e", "")
	if msg := decodeError(t, w).Message; msg != "rating: must be between 1 and 5" {
		t.Fatalf("message=%q", msg)
	}
}

func TestRespondError_RetryAfterOnSafeMethods(t *testing.T) {
	r := newEngine(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}))
	h := func(c *gin.Context) { respondError(c, fmt.Errorf("ping: %w", services.ErrUnavailable)) }
	r.GET("/e", h)
	r.POST("/e", h)

	if w := do(r, http.MethodGet, "/e", ""); w.Header().Get("Retry-After") == "" {
		t.Fatal("GET: missing Retry-After")
	}
	if w := do(r, http.MethodPost, "/e", ""); w.Header().Get("Retry-After") != "" {
		t.Fatal("POST without key: unexpected Retry-After")
	}
	if w := do(r, http.MethodPost, "/e", "", "Idempotency-Key", "k1"); w.Header().Get("Retry-After") == "" {
		t.Fatal("POST with key: missing Retry-After")
	}
}
