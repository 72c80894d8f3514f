package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-hostel-backend/internal/domain"
	"github.com/tbourn/go-hostel-backend/internal/http/middleware"
	"github.com/tbourn/go-hostel-backend/internal/payment"
	"github.com/tbourn/go-hostel-backend/internal/query"
	"github.com/tbourn/go-hostel-backend/internal/services"
	"github.com/tbourn/go-hostel-backend/internal/utils"
)

func init() { gin.SetMode(gin.TestMode) }

// fakeMeals records the filter it was given and returns canned data.
type fakeMeals struct {
	MealService
	count     int64
	last      *time.Time
	statsErr  error
	filter    query.Filter
	page      utils.Page
	items     []domain.Meal
	truncated bool
	err       error
}

func (f *fakeMeals) ListAll(_ context.Context, q query.Filter) ([]domain.Meal, bool, error) {
	f.filter = q
	return f.items, f.truncated, f.err
}

func (f *fakeMeals) Upcoming(context.Context, bool) ([]domain.Meal, bool, error) {
	return f.items, f.truncated, f.err
}

func (f *fakeMeals) Stats(context.Context) (int64, *time.Time, error) {
	return f.count, f.last, f.statsErr
}

func (f *fakeMeals) ListPage(_ context.Context, q query.Filter, p utils.Page) (utils.Paged[domain.Meal], error) {
	f.filter, f.page = q, p
	if f.err != nil {
		return utils.Paged[domain.Meal]{}, f.err
	}
	return utils.NewPaged(f.items, p, int64(len(f.items))), nil
}

func (f *fakeMeals) Create(_ context.Context, m *domain.Meal) (*domain.Meal, error) {
	if f.err != nil {
		return nil, f.err
	}
	m.ID = "m1"
	m.Reviews = []domain.Review{}
	return m, nil
}

func (f *fakeMeals) ToggleLike(_ context.Context, id string) (domain.LikeState, error) {
	if f.err != nil {
		return domain.LikeState{}, f.err
	}
	return domain.LikeState{Likes: 1, Liked: true}, nil
}

type fakeRequests struct {
	RequestService
	duplicate bool
	patched   domain.RequestPatch
}

func (f *fakeRequests) Create(_ context.Context, r *domain.MealRequest) (*domain.MealRequest, bool, error) {
	r.ID = "q1"
	return r, f.duplicate, nil
}

func (f *fakeRequests) Patch(_ context.Context, id string, p domain.RequestPatch) (*domain.MealRequest, error) {
	f.patched = p
	return &domain.MealRequest{ID: id, Status: *p.Status}, nil
}

type fakePayments struct {
	PaymentService
	replayed bool
	key      string
	in       services.PaymentInput
	err      error
}

func (f *fakePayments) CreateIntent(_ context.Context, price float64, key string) (*payment.Intent, error) {
	f.key = key
	if f.err != nil {
		return nil, f.err
	}
	return &payment.Intent{ID: "pi_1", ClientSecret: "pi_1_secret", Amount: 999, Currency: "usd"}, nil
}

func (f *fakePayments) Record(_ context.Context, in services.PaymentInput, key string) (*domain.Payment, bool, error) {
	f.in, f.key = in, key
	if f.err != nil {
		return nil, false, f.err
	}
	return &domain.Payment{ID: "p1", Email: in.Email, TransactionID: in.TransactionID}, f.replayed, nil
}

type fakeTokens struct{ email, name string }

func (f *fakeTokens) Issue(email, name string) (string, time.Time, error) {
	f.email, f.name = email, name
	return "signed", time.Unix(1700000000, 0).UTC(), nil
}

type pingFunc func(context.Context) error

func (p pingFunc) Ping(ctx context.Context) error { return p(ctx) }

// withCaller pretends Authenticate already ran for email.
func withCaller(email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("email", email)
		c.Set("userID", email)
		c.Next()
	}
}

func captureLogger(buf *bytes.Buffer) gin.HandlerFunc {
	return func(c *gin.Context) {
		lg := zerolog.New(buf)
		c.Set("logger", &lg)
		c.Next()
	}
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(mw...)
	return r
}

func do(r http.Handler, method, target, body string, hdr ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	return serveReq(r, req)
}

func serveReq(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return e
}
