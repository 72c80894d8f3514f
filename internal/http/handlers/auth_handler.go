package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// TokenRequest is the payload for POST /jwt. Other user fields may be present
// and are ignored.
type TokenRequest struct {
	Email string `json:"email" example:"ann@hostel.example"`
	Name  string `json:"name"  example:"Ann"`
}

// TokenResponse carries a signed bearer token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IssueToken godoc
// @ID          issueToken
// @Summary     Issue an identity token
// @Description Signs an HS256 token carrying the email claim. The caller has already authenticated with the identity provider.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.TokenRequest  true  "Identity"
// @Success     200   {object}  handlers.TokenResponse
// @Failure     400   {object}  handlers.ErrorResponse
// @Router      /jwt [post]
func (h *Handlers) IssueToken(c *gin.Context) {
	var req TokenRequest
	if !bindLoose(c, &req) {
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email required")
		return
	}
	tok, exp, err := h.tokens.Issue(email, strings.TrimSpace(req.Name))
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
		return
	}
	ok(c, http.StatusOK, TokenResponse{Token: tok, ExpiresAt: exp})
}

// Root godoc
// @ID        root
// @Summary   Liveness text
// @Tags      Health
// @Produce   plain
// @Success   200  {string}  string  "Server is running..."
// @Router    / [get]
func (h *Handlers) Root(c *gin.Context) {
	c.String(http.StatusOK, "Server is running...")
}

// Health godoc
// @ID        health
// @Summary   Liveness
// @Tags      Health
// @Produce   json
// @Success   200  {object}  map[string]string
// @Router    /health [get]
func (h *Handlers) Health(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"status": "ok"})
}

// Ready godoc
// @ID        ready
// @Summary   Readiness (store ping)
// @Tags      Health
// @Produce   json
// @Success   200  {object}  map[string]string
// @Failure   503  {object}  handlers.ErrorResponse
// @Router    /readyz [get]
func (h *Handlers) Ready(c *gin.Context) {
	if h.store == nil {
		ok(c, http.StatusOK, gin.H{"status": "ready"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		_ = c.Error(err)
		retryable(c)
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "store not ready")
		return
	}
	ok(c, http.StatusOK, gin.H{"status": "ready"})
}
