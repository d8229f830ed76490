// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"path"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-barber-booking/internal/cache"
	"github.com/tbourn/go-barber-booking/internal/config"
	"github.com/tbourn/go-barber-booking/internal/domain"
	"github.com/tbourn/go-barber-booking/internal/events"
	"github.com/tbourn/go-barber-booking/internal/http/handlers"
	"github.com/tbourn/go-barber-booking/internal/http/middleware"
	"github.com/tbourn/go-barber-booking/internal/repo"
	"github.com/tbourn/go-barber-booking/internal/services"
)

// clientIDHeader lets kiosks and front-ends share one rate-limit bucket per
// device instead of per NAT address.
const clientIDHeader = "X-Client-ID"

// shopRepoShim adapts the repository free functions to services.ShopRepo.
type shopRepoShim struct{}

// CreateShop proxies repo.CreateShop.
func (shopRepoShim) CreateShop(ctx context.Context, db *gorm.DB, s *domain.Shop) (*domain.Shop, error) {
	return repo.CreateShop(ctx, db, s)
}

// GetShop proxies repo.GetShop.
func (shopRepoShim) GetShop(ctx context.Context, db *gorm.DB, id string) (*domain.Shop, error) {
	return repo.GetShop(ctx, db, id)
}

// identityRepoShim adapts the repository free functions to services.IdentityRepo.
type identityRepoShim struct{}

// CreateIdentity proxies repo.CreateIdentity.
func (identityRepoShim) CreateIdentity(ctx context.Context, db *gorm.DB, in *domain.Identity) (*domain.Identity, error) {
	return repo.CreateIdentity(ctx, db, in)
}

// FindIdentityByEmail proxies repo.FindIdentityByEmail.
func (identityRepoShim) FindIdentityByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Identity, error) {
	return repo.FindIdentityByEmail(ctx, db, email)
}

// Deps carries the infrastructure the routes are built on. DB is required;
// a nil Events disables lifecycle notifications and a nil ShopCache disables
// caching.
type Deps struct {
	DB        *gorm.DB
	Events    events.Publisher
	ShopCache *cache.ShopCache
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, compression, CORS and security headers, health and metrics
// endpoints, and then mounts the versioned public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per client/IP, bypass on replay)
//  9. Compression, CORS and security headers
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) error {
	if deps.DB == nil {
		return errors.New("httpapi: nil DB")
	}
	db := deps.DB

	cal, err := services.NewCalendar(cfg.Booking)
	if err != nil {
		return err
	}

	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation (before rate limiting), scoped by shop
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen:       200,
			ReplayRoutes: []string{http.MethodPost + " " + path.Join(cfg.APIBasePath, "/shops/:id/bookings")},
		},
		func(ctx context.Context, shopID, key string, now time.Time) (bool, error) {
			_, err := repo.GetIdempotency(ctx, db, shopID, key, now)
			if errors.Is(err, repo.ErrNotFound) {
				return false, nil
			}
			return err == nil, err
		},
	))

	// 8) Token-bucket rate limiter per client/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByHeaderOrIP(clientIDHeader))
	r.Use(rl.Handler())

	// 9) Compression, CORS posture (allow all if none configured), security headers
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", clientIDHeader, middleware.HeaderIdempotencyKey}
	exposeHeaders := []string{"X-Request-ID", "Content-Length", "ETag", "Location", middleware.HeaderIdempotencyReplayed}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist.
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
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health, including the database
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("health: database unreachable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API docs
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/cache/events
	shopSvc := services.NewShopService(db, shopRepoShim{}, deps.ShopCache)
	idSvc := services.NewIdentityService(db, identityRepoShim{})
	resSvc := services.NewReservationService(db, shopSvc, idSvc, cal, deps.Events, cfg.IdempotencyTTL)
	schedSvc := services.NewScheduleService(db, shopSvc, cal)
	h := handlers.New(resSvc, schedSvc, shopSvc, idSvc, cfg.APIBasePath)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Shops and their calendars
		api.POST("/shops", h.CreateShop)
		api.GET("/shops/:id", h.GetShop)
		api.GET("/shops/:id/slots", h.ListSlots)
		api.GET("/shops/:id/bookings", h.ListDayBookings)

		// Reservations
		api.POST("/shops/:id/bookings", h.Reserve)
		api.POST("/shops/:id/blocks", h.Block)
	}

	// Customer data is never cached by intermediaries.
	private := api.Group("", middleware.NoStore())
	{
		private.POST("/identities", h.RegisterIdentity)
		private.GET("/identities", h.FindIdentity)
		private.GET("/bookings/:id", h.GetBooking)
		private.POST("/bookings/:id/cancel", h.CancelBooking)
	}
	return nil
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
