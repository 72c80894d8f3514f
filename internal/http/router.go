// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, rate limiting and bearer-token access
// control.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/tbourn/go-hostel-backend/docs"
	"github.com/tbourn/go-hostel-backend/internal/auth"
	"github.com/tbourn/go-hostel-backend/internal/config"
	"github.com/tbourn/go-hostel-backend/internal/events"
	"github.com/tbourn/go-hostel-backend/internal/http/handlers"
	"github.com/tbourn/go-hostel-backend/internal/http/middleware"
	"github.com/tbourn/go-hostel-backend/internal/payment"
	"github.com/tbourn/go-hostel-backend/internal/services"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// Deps are the process-level collaborators the routes are built from.
// Gateway and Events may be nil: payments then answer 503 and events are
// dropped.
type Deps struct {
	Store   services.Store
	Gateway payment.Gateway
	Events  events.Publisher
	Tokens  *auth.Issuer
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Idempotency key validation
//  8. Rate limiter (per client IP)
//  9. CORS, security headers, compression
func RegisterRoutes(r *gin.Engine, cfg config.Config, d Deps) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key", "Stripe-Signature"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIdentityOrIP())
	r.Use(rl.Handler())

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Dependency injection: services ← store/gateway/broker
	pub := d.Events
	if pub == nil {
		pub = events.Nop{}
	}
	timeout := cfg.Store.Timeout
	meals := &services.MealService{Store: d.Store, Events: pub, Timeout: timeout}
	reviews := &services.ReviewService{Store: d.Store, Timeout: timeout}
	requests := &services.RequestService{Store: d.Store, Events: pub, Timeout: timeout}
	users := &services.UserService{Store: d.Store, Timeout: timeout}
	packages := &services.PackageService{Store: d.Store, Timeout: timeout}
	payments := &services.PaymentService{
		Store:          d.Store,
		Gateway:        d.Gateway,
		Events:         pub,
		Currency:       cfg.Payment.Currency,
		Timeout:        timeout,
		GatewayTimeout: cfg.Payment.Timeout,
		IdempotencyTTL: cfg.IdempotencyTTL,
	}

	h := handlers.New(handlers.Deps{
		Meals:    meals,
		Reviews:  reviews,
		Requests: requests,
		Users:    users,
		Packages: packages,
		Payments: payments,
		Tokens:   d.Tokens,
		Store:    d.Store,
	})

	authn := middleware.Authenticate(d.Tokens)
	admin := middleware.RequireAdmin(users.IsAdmin)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Health
		api.GET("/", h.Root)
		api.GET("/health", h.Health)
		api.GET("/readyz", h.Ready)

		// Identity
		api.POST("/jwt", h.IssueToken)

		// Payments
		api.POST("/create-payment-intent", h.CreatePaymentIntent)
		api.POST("/payments", h.RecordPayment)
		api.GET("/payments/:email", authn, middleware.RequireSelf("email"), h.ListPayments)

		// Meals
		api.POST("/meals", authn, admin, h.CreateMeal)
		api.GET("/meals", h.ListMeals)
		api.GET("/all-meals", h.ListAllMeals)
		api.GET("/meal/:id", h.GetMeal)
		api.DELETE("/meal/delete/:id", h.DeleteMeal)
		api.PUT("/like-meal/:id", h.ToggleLike)
		api.GET("/upcoming-meals", h.UpcomingMeals)
		api.GET("/upcoming/meals", h.UpcomingMealsByLikes)

		// Reviews
		api.POST("/meals/:id/reviews", authn, h.AddReview)
		api.GET("/meals/:email/reviews", h.ReviewsByAuthor)
		api.DELETE("/review/delete/:id", h.DeleteReview)

		// Meal requests
		api.POST("/request/meal", h.CreateMealRequest)
		api.GET("/request/:email", h.ListRequestsByEmail)
		api.GET("/request-meals", h.SearchRequests)
		api.PATCH("/meal/delivered/:id", authn, h.PatchRequest)
		api.DELETE("/request-meal/:id", h.DeleteRequest)

		// Users
		api.POST("/user", h.RegisterUser)
		api.GET("/users", h.ListUsers)
		api.GET("/user/:email", authn, h.GetUser)
		api.PATCH("/user-badge/update/:email", authn, h.PatchUser)
		api.GET("/users/admin/:email", authn, middleware.RequireSelf("email"), h.IsAdmin)

		// Packages
		api.GET("/packages", h.ListPackages)
		api.GET("/checkout/:package_name", h.GetPackage)
	}
}

// corsMiddleware returns the CORS chain. With no allowlist every origin is
// allowed without credentials; otherwise allowed origins are echoed.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match", middleware.HeaderIdempotencyKey},
		ExposeHeaders: []string{"X-Request-ID", "Content-Length", "ETag", "Retry-After", middleware.HeaderIdempotencyReplayed, handlers.HeaderResultTruncated},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 {
		base.AllowAllOrigins = true
		// Force ACAO: * even for requests without an Origin header.
		return []gin.HandlerFunc{
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(base),
		}
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	base.AllowOrigins = origins
	base.AllowCredentials = true
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		},
		cors.New(base),
	}
}

// limitBody caps the request body at maxBytes using http.MaxBytesReader.
// Requests exceeding the cap cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
