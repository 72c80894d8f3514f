package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestKeyByIdentityOrIP(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")
	c.Request = req

	if key := KeyByIdentityOrIP()(c); !strings.HasPrefix(key, "ip:") || !strings.Contains(key, "203.0.113.9") {
		t.Fatalf("expected ip-based key; got %q", key)
	}
	c.Set(userIDKey, "a@x.io")
	if key := KeyByIdentityOrIP()(c); key != "user:a@x.io" {
		t.Fatalf("expected user-based key; got %q", key)
	}
}

func TestRateLimiter_BurstThen429(t *testing.T) {
	rl := NewRateLimiter(1, 2, nil)
	r := gin.New()
	r.Use(RequestID(), rl.Handler())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func() *httptest.ResponseRecorder { return serve(r, httptest.NewRequest(http.MethodGet, "/", nil)) }
	for i := 0; i < 2; i++ {
		if w := get(); w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}
	w := get()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "1" {
		t.Fatalf("Retry-After = %q", w.Header().Get("Retry-After"))
	}
	if e := decodeEnvelope(t, w); e.Code != "rate_limited" || e.RequestID == "" {
		t.Fatalf("envelope = %+v", e)
	}
}

func TestRateLimiter_DisabledWhenRPSZero(t *testing.T) {
	rl := NewRateLimiter(0, 1, nil)
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		if w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil)); w.Code != http.StatusOK {
			t.Fatalf("status %d", w.Code)
		}
	}
	if rl.Len() != 0 {
		t.Fatalf("disabled limiter tracked %d buckets", rl.Len())
	}
}

func TestRateLimiter_SweepsIdleBuckets(t *testing.T) {
	now := time.Now()
	rl := NewRateLimiter(1, 1, nil)
	rl.now = func() time.Time { return now }

	rl.bucket("stale")
	now = now.Add(rl.ttl + time.Second)
	for i := 0; i < sweepEvery; i++ {
		rl.bucket("fresh")
	}
	if rl.Len() != 1 {
		t.Fatalf("buckets = %d, want 1", rl.Len())
	}
}
