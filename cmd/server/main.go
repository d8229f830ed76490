// Command server runs the barber-shop booking API.
//
// @title           Barber Booking API
// @version         1.0
// @description     Shop onboarding, customer registration, slot availability, and reservations for barber shops.
// @BasePath        /api/v1
// @schemes         http https
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-barber-booking/docs"
	"github.com/tbourn/go-barber-booking/internal/cache"
	"github.com/tbourn/go-barber-booking/internal/config"
	"github.com/tbourn/go-barber-booking/internal/events"
	httpapi "github.com/tbourn/go-barber-booking/internal/http"
	"github.com/tbourn/go-barber-booking/internal/observability"
	"github.com/tbourn/go-barber-booking/internal/repo"
	"github.com/tbourn/go-barber-booking/internal/sysutil"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// purgeInterval is how often expired Idempotency-Key records are deleted.
const purgeInterval = time.Hour

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		sysutil.SetupLogger("info", false, "barber-booking")
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName)
	appVersion := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing first so the DB plugin and HTTP middleware pick up the provider.
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, appVersion)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.Open(cfg.DB, cfg.OTEL.Enabled)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	publisher := newPublisher(cfg.AMQP, cfg.OTEL.ServiceName)
	rdb := cache.NewClient(cfg.Redis)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	if err := httpapi.RegisterRoutes(r, httpapi.Deps{
		DB:        db,
		Events:    publisher,
		ShopCache: cache.NewShopCache(rdb, cfg.Redis.ShopTTL),
	}, cfg); err != nil {
		log.Fatal().Err(err).Msg("register routes")
	}
	docs.SwaggerInfo.BasePath = cfg.APIBasePath
	docs.SwaggerInfo.Version = appVersion

	go purgeIdempotency(ctx, db)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", appVersion).
			Str("db", cfg.DB.Driver).
			Str("timezone", cfg.Booking.Location.String()).
			Bool("events", cfg.AMQP.URL != "").
			Bool("cache", rdb != nil).
			Msg("barber-booking listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := publisher.Close(); err != nil {
		log.Warn().Err(err).Msg("close event publisher")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := repo.Close(db); err != nil {
		log.Warn().Err(err).Msg("close database")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("flush traces")
	}
	log.Info().Msg("server stopped")
}

// newPublisher connects to RabbitMQ when configured. A broker that cannot be
// reached at startup disables events rather than the booking API.
func newPublisher(cfg config.AMQPConfig, appID string) events.Publisher {
	if cfg.URL == "" {
		return events.Noop{}
	}
	p, err := events.NewAMQPPublisher(cfg.URL, cfg.Exchange, appID)
	if err != nil {
		log.Warn().Err(err).Str("exchange", cfg.Exchange).Msg("rabbitmq unavailable; booking events disabled")
		return events.Noop{}
	}
	return p
}

// purgeIdempotency deletes expired Idempotency-Key records until ctx ends.
func purgeIdempotency(ctx context.Context, db *gorm.DB) {
	t := time.NewTicker(purgeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("purge idempotency keys")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("purged idempotency keys")
			}
		}
	}
}
