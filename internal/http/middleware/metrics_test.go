package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RouteTemplatesAndUnmatched(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/meal/:id", func(c *gin.Context) { c.String(http.StatusOK, "hello") })
	r.GET("/empty", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	baseOK := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/meal/:id", "200"))
	base404 := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedRoute, "404"))

	serve(r, httptest.NewRequest(http.MethodGet, "/meal/abc", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/meal/def", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/empty", nil))

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/meal/:id", "200")); got != baseOK+2 {
		t.Fatalf("/meal/:id 200 = %v; want %v", got, baseOK+2)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedRoute, "404")); got != base404+1 {
		t.Fatalf("unmatched 404 = %v; want %v", got, base404+1)
	}
	if inFlight := testutil.ToFloat64(httpInflight); inFlight != 0 {
		t.Fatalf("inflight = %v; want 0", inFlight)
	}
}
