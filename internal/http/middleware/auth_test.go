package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-hostel-backend/internal/auth"
)

func newIssuer(t *testing.T) *auth.Issuer {
	t.Helper()
	iss, err := auth.NewIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return iss
}

func bearerFor(t *testing.T, iss *auth.Issuer, email string) string {
	t.Helper()
	tok, _, err := iss.Issue(email, "Name")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return "Bearer " + tok
}

func TestAuthenticate(t *testing.T) {
	iss := newIssuer(t)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/me", Authenticate(iss), func(c *gin.Context) {
		email, _ := EmailFrom(c)
		c.String(http.StatusOK, email)
	})

	cases := []struct {
		name   string
		header string
		status int
		msg    string
	}{
		{"missing", "", http.StatusUnauthorized, "missing credentials"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "missing credentials"},
		{"garbage", "Bearer not.a.token", http.StatusUnauthorized, "invalid credentials"},
		{"other secret", "Bearer " + mustForeignToken(t), http.StatusUnauthorized, "invalid credentials"},
		{"ok", bearerFor(t, iss, "a@x.io"), http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := serve(r, req)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d", w.Code, tc.status)
			}
			if tc.status == http.StatusOK {
				if w.Body.String() != "a@x.io" {
					t.Fatalf("email = %q", w.Body.String())
				}
				return
			}
			if e := decodeEnvelope(t, w); e.Code != "unauthorized" || e.Message != tc.msg || e.RequestID == "" {
				t.Fatalf("envelope = %+v", e)
			}
		})
	}
}

func mustForeignToken(t *testing.T) string {
	t.Helper()
	other, err := auth.NewIssuer("another-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	tok, _, err := other.Issue("a@x.io", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return tok
}

func TestRequireAdmin(t *testing.T) {
	iss := newIssuer(t)
	lookup := func(_ context.Context, email string) (bool, error) {
		switch email {
		case "boss@x.io":
			return true, nil
		case "broken@x.io":
			return false, errors.New("store down")
		}
		return false, nil
	}
	r := gin.New()
	r.POST("/meals", Authenticate(iss), RequireAdmin(lookup), func(c *gin.Context) { c.Status(http.StatusCreated) })

	for email, want := range map[string]int{
		"boss@x.io":   http.StatusCreated,
		"user@x.io":   http.StatusForbidden,
		"broken@x.io": http.StatusServiceUnavailable,
	} {
		req := httptest.NewRequest(http.MethodPost, "/meals", nil)
		req.Header.Set("Authorization", bearerFor(t, iss, email))
		w := serve(r, req)
		if w.Code != want {
			t.Fatalf("%s: status = %d, want %d", email, w.Code, want)
		}
		if want == http.StatusForbidden {
			if e := decodeEnvelope(t, w); e.Message != "insufficient privilege" {
				t.Fatalf("message = %q", e.Message)
			}
		}
	}
}

func TestRequireSelf(t *testing.T) {
	iss := newIssuer(t)
	r := gin.New()
	r.GET("/users/admin/:email", Authenticate(iss), RequireSelf("email"), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/users/admin/a@x.io", nil)
	req.Header.Set("Authorization", bearerFor(t, iss, "a@x.io"))
	if w := serve(r, req); w.Code != http.StatusOK {
		t.Fatalf("self status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/users/admin/b@x.io", nil)
	req.Header.Set("Authorization", bearerFor(t, iss, "a@x.io"))
	if w := serve(r, req); w.Code != http.StatusForbidden {
		t.Fatalf("other status = %d", w.Code)
	}
}

func TestRequireSelf_WithoutAuthenticate(t *testing.T) {
	r := gin.New()
	r.GET("/x/:email", RequireSelf("email"), func(c *gin.Context) { c.Status(http.StatusOK) })
	if w := serve(r, httptest.NewRequest(http.MethodGet, "/x/a@x.io", nil)); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestBearer(t *testing.T) {
	for h, want := range map[string]bool{
		"Bearer abc": true, "bearer abc": true, "  Bearer   abc ": true,
		"Bearer": false, "Bearer ": false, "Token abc": false, "": false,
	} {
		if _, ok := bearer(h); ok != want {
			t.Errorf("bearer(%q) ok = %v, want %v", h, ok, want)
		}
	}
}
