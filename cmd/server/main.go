// Command server runs the coaching-suggestion API: batch generation and
// queries over REST, streamed delivery over SSE, and the background cleanup
// worker that enforces TTL and retention bounds.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/edupulse/go-coach-backend/internal/clock"
	"github.com/edupulse/go-coach-backend/internal/config"
	httpapi "github.com/edupulse/go-coach-backend/internal/http"
	"github.com/edupulse/go-coach-backend/internal/observability"
	"github.com/edupulse/go-coach-backend/internal/repo"
	"github.com/edupulse/go-coach-backend/internal/services"
	"github.com/edupulse/go-coach-backend/internal/sysutil"
	"github.com/edupulse/go-coach-backend/internal/worker"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

// @title           EduPulse Coaching Suggestions API
// @version         1.0
// @description     Per-learner coaching suggestions: batch generation, queries, streamed delivery, and engagement metrics.
// @BasePath        /api/v1
// @schemes         http https
func main() {
	// Local development convenience; absent .env files are not an error.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("setup tracing")
	}

	ck := clock.System{}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, ck, cfg)

	// Background storage sweeps.
	cleanup := worker.NewCleanup(&services.CleanupService{
		DB:              db,
		Clock:           ck,
		RetentionMaxAge: cfg.Suggestions.RetentionMaxAge,
	}, cfg.Suggestions.CleanupInterval)
	go cleanup.Run(ctx)

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
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("bye")
}
