// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggofiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	_ "github.com/edupulse/go-coach-backend/docs"
	"github.com/edupulse/go-coach-backend/internal/clock"
	"github.com/edupulse/go-coach-backend/internal/config"
	"github.com/edupulse/go-coach-backend/internal/http/handlers"
	"github.com/edupulse/go-coach-backend/internal/http/middleware"
	"github.com/edupulse/go-coach-backend/internal/repo"
	"github.com/edupulse/go-coach-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the versioned suggestion API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Identity: resolve the learner from the gateway header
//  4. RedactingLogger: structured logs with PII scrubbing
//  5. Recovery: capture panics after logger
//  6. Body size limiter, gzip (streaming endpoint excluded)
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, ck clock.Clock, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Identity resolution; per-route enforcement happens on the API group
	r.Use(middleware.Identity(false))

	// 4) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key",
		},
	}))

	// 5) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 6) Global body size limit (1 MiB); gzip everywhere except the event
	// stream, which must flush uncompressed frames as they are produced.
	r.Use(limitBody(1 << 20))
	streamPath := joinPath(cfg.APIBasePath, "/suggestions/stream")
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{streamPath})))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetReceiptByKey(ctx, db, userID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers. Responses carry per-learner data, so caching is
	// clamped everywhere except the ETag-revalidated listing and the SSE
	// stream, which set their own cache semantics.
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		CacheExempt:  []string{joinPath(cfg.APIBasePath, "/suggestions"), streamPath},
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API documentation (dev/staging only)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginswagger.WrapHandler(swaggofiles.Handler))
	}

	// Dependency injection: services ← db/clock/config
	sugSvc := &services.SuggestionService{
		DB:            db,
		Clock:         ck,
		DisplayWindow: cfg.Suggestions.DisplayWindow,
		TTL:           cfg.Suggestions.TTL,
		MaxBatchSize:  cfg.Suggestions.MaxBatchSize,
		RecentLimit:   cfg.Suggestions.RecentLimit,
	}
	engSvc := &services.EngagementService{
		DB:                db,
		Clock:             ck,
		DefaultWindowDays: int(cfg.Suggestions.MetricsWindow.Hours() / 24),
	}
	streamSvc := &services.StreamService{
		DB:     db,
		Clock:  ck,
		Delay:  cfg.Suggestions.StreamDelay,
		Locale: language.English,
	}
	h := handlers.New(sugSvc, engSvc, streamSvc).WithIdempotencyTTL(cfg.IdempotencyTTL)

	// Public API; every route requires a resolved learner identity.
	api := groupWithPrefix(r, cfg.APIBasePath)
	api.Use(middleware.Identity(true))
	{
		// Generation
		api.POST("/suggestions/generate", h.GenerateSuggestions)

		// Queries
		api.GET("/suggestions", h.ListSuggestions)
		api.GET("/suggestions/recent", h.RecentSuggestions)
		api.GET("/suggestions/unread-count", h.UnreadCount)
		api.GET("/suggestions/today", h.TodaySuggestions)
		api.GET("/suggestions/metrics", h.EngagementMetrics)
		api.GET("/suggestions/:id", h.GetSuggestionByID)

		// Streaming delivery
		api.GET("/suggestions/stream", h.StreamToday)

		// Transitions
		api.PUT("/suggestions/read-all", h.MarkAllRead)
		api.PUT("/suggestions/deactivate-all", h.DeactivateAll)
		api.PUT("/suggestions/:id/read", h.MarkSuggestionRead)
		api.PUT("/suggestions/:id/complete", h.CompleteSuggestion)

		// Removal
		api.DELETE("/suggestions/:id", h.DeleteSuggestion)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
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

// joinPath joins the API base path and a route suffix without doubling
// slashes; the base "/" collapses to the suffix alone.
func joinPath(base, suffix string) string {
	if base == "" || base == "/" {
		return suffix
	}
	return base + suffix
}
