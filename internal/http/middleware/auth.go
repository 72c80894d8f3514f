package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-hostel-backend/internal/auth"
)

const (
	emailKey  = "email"
	userIDKey = "userID"
	claimsKey = "claims"
)

// TokenVerifier checks a raw bearer token. *auth.Issuer implements it.
type TokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

// AdminLookup reports whether email holds the admin role.
type AdminLookup func(ctx context.Context, email string) (bool, error)

// Authenticate requires "Authorization: Bearer <token>". A missing or
// non-bearer header is 401 "missing credentials"; a token that fails
// verification is 401 "invalid credentials". On success the email claim is
// stored under "email" (and "userID", which the rate limiter keys on).
func Authenticate(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", `Bearer realm="api"`)
			abort(c, http.StatusUnauthorized, "unauthorized", "missing credentials")
			return
		}
		claims, err := v.Verify(raw)
		if err != nil {
			c.Header("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
			abort(c, http.StatusUnauthorized, "unauthorized", "invalid credentials")
			return
		}
		c.Set(claimsKey, claims)
		c.Set(emailKey, claims.Email)
		c.Set(userIDKey, claims.Email)
		c.Next()
	}
}

// RequireAdmin must run after Authenticate. Unknown users and non-admins get
// 403 "insufficient privilege".
func RequireAdmin(isAdmin AdminLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := EmailFrom(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized", "missing credentials")
			return
		}
		admin, err := isAdmin(c.Request.Context(), email)
		if err != nil {
			_ = c.Error(err)
			abort(c, http.StatusServiceUnavailable, "unavailable", "service unavailable")
			return
		}
		if !admin {
			abort(c, http.StatusForbidden, "forbidden", "insufficient privilege")
			return
		}
		c.Next()
	}
}

// RequireSelf must run after Authenticate. The path parameter param must equal
// the token's email, else 403.
func RequireSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := EmailFrom(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized", "missing credentials")
			return
		}
		if c.Param(param) != email {
			abort(c, http.StatusForbidden, "forbidden", "insufficient privilege")
			return
		}
		c.Next()
	}
}

// EmailFrom returns the authenticated caller's email.
func EmailFrom(c *gin.Context) (string, bool) {
	v, ok := c.Get(emailKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// ClaimsFrom returns the verified token claims, or nil.
func ClaimsFrom(c *gin.Context) *auth.Claims {
	v, _ := c.Get(claimsKey)
	cl, _ := v.(*auth.Claims)
	return cl
}

func bearer(h string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}
