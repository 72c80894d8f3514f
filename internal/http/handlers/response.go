package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-hostel-backend/internal/http/middleware"
	"github.com/tbourn/go-hostel-backend/internal/utils"
)

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go)
	Code string `json:"code" example:"not_found"`
	// Human-readable message, safe to show to users
	Message string `json:"message" example:"meal not found"`
}

// MessageResponse carries an informational message.
type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

// fail aborts with an ErrorResponse. 5xx responses are also logged with the
// request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		ev := middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code)
		if len(c.Errors) > 0 {
			ev = ev.Str("cause", middleware.Redact(c.Errors.Last().Error()))
		}
		ev.Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail is fail for callers outside the package (router fallbacks).
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) { c.JSON(status, body) }

func noContent(c *gin.Context) { c.Status(http.StatusNoContent) }

// bindStrict decodes a single JSON object into dst, rejecting unknown fields
// and trailing data. It writes the 4xx itself and reports whether the caller
// should continue.
func bindStrict(c *gin.Context, dst any) bool {
	return bind(c, dst, true)
}

// bindLoose is bindStrict without the unknown-field check.
func bindLoose(c *gin.Context, dst any) bool {
	return bind(c, dst, false)
}

func bind(c *gin.Context, dst any, strict bool) bool {
	if ct := c.GetHeader("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			fail(c, http.StatusUnsupportedMediaType, ErrCodeUnsupportedFormat, "Content-Type must be application/json")
			return false
		}
	}
	dec := json.NewDecoder(c.Request.Body)
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			fail(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "request body too large")
		case errors.Is(err, io.EOF):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "request body required")
		default:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		}
		return false
	}
	if dec.More() {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// pageParams parses page/size query values, writing a 400 when invalid.
func pageParams(c *gin.Context) (utils.Page, bool) {
	p, err := utils.ParsePage(c.Query("page"), c.Query("size"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "page must be >= 1 and size between 1 and 100")
		return utils.Page{}, false
	}
	return p, true
}
