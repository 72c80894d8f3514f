package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestRedact(t *testing.T) {
	cases := map[string]string{
		"mail a.b@x.io now":                          "mail [REDACTED:email] now",
		"email=a%40x.io":                             "email=[REDACTED:email]",
		"id 123e4567-e89b-12d3-a456-426614174000 ok": "id [REDACTED:id] ok",
		"call 212-555-1212":                          "call [REDACTED:phone]",
		"":                                           "",
	}
	for in, want := range cases {
		if got := Redact(in); got != want {
			t.Errorf("Redact(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRedactingLogger_ScrubsAndLevels(t *testing.T) {
	buf := captureLogger(t)
	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Api-Key"}}))
	r.GET("/user/:email", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("driver said bob@x.io is broken"))
		c.Status(http.StatusBadGateway)
	})

	req := httptest.NewRequest(http.MethodGet, "/user/ann@x.io?search=ann@x.io", nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("X-Api-Key", "k")
	req.Header.Set("X-Note", "contact ann@x.io")
	serve(r, req)
	serve(r, httptest.NewRequest(http.MethodGet, "/fail", nil))

	out := buf.String()
	for _, leak := range []string{"ann@x.io", "bob@x.io", "secret"} {
		if strings.Contains(out, leak) {
			t.Fatalf("log leaked %q: %s", leak, out)
		}
	}
	lines := logLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d: %s", len(lines), out)
	}
	if lines[0]["level"] != "info" || lines[0]["route"] != "/user/:email" {
		t.Fatalf("first line = %v", lines[0])
	}
	if lines[1]["level"] != "error" || !strings.Contains(lines[1]["errors"].(string), "[REDACTED:email]") {
		t.Fatalf("second line = %v", lines[1])
	}
}

func TestRedactingLogger_AttachesContextLogger(t *testing.T) {
	buf := captureLogger(t)
	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{}))
	r.GET("/svc", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("from service")
		LoggerFrom(c).Info().Msg("from handler")
		c.Status(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodGet, "/svc", nil)
	req.Header.Set(requestIDHeader, "rid-x")
	serve(r, req)

	n := 0
	for _, l := range logLines(t, buf) {
		if l["message"] == "from service" || l["message"] == "from handler" {
			n++
			if l["request_id"] != "rid-x" {
				t.Fatalf("scoped line missing request id: %v", l)
			}
		}
	}
	if n != 2 {
		t.Fatalf("scoped lines = %d: %s", n, buf.String())
	}
}
