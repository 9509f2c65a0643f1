// Package worker hosts the background cleanup loop that enforces storage
// bounds: suggestions past their hard TTL and records older than the
// retention horizon are deleted on a fixed interval. The loop runs one sweep
// immediately at startup so a restart never postpones overdue cleanup by a
// full interval.
package worker

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/edupulse/go-coach-backend/internal/services"
)

var (
	sweepDeleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coach_cleanup_deleted_total",
			Help: "Suggestions deleted by the cleanup worker.",
		},
		[]string{"sweep"}, // expired | aged
	)

	sweepErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coach_cleanup_errors_total",
			Help: "Cleanup sweeps that failed.",
		},
		[]string{"sweep"},
	)
)

func init() {
	prometheus.MustRegister(sweepDeleted, sweepErrors)
}

// Cleanup periodically runs the expiry and retention sweeps.
type Cleanup struct {
	Svc      *services.CleanupService
	Interval time.Duration
}

// NewCleanup constructs a Cleanup worker; a non-positive interval defaults to
// one hour.
func NewCleanup(svc *services.CleanupService, interval time.Duration) *Cleanup {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Cleanup{Svc: svc, Interval: interval}
}

// Run executes sweeps until ctx is cancelled. It blocks; callers start it in
// its own goroutine. A failed sweep is logged and retried on the next tick.
func (w *Cleanup) Run(ctx context.Context) {
	log.Info().Dur("interval", w.Interval).Msg("cleanup worker started")

	t := time.NewTicker(w.Interval)
	defer t.Stop()

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("cleanup worker stopped")
			return
		case <-t.C:
			w.sweep(ctx)
		}
	}
}

func (w *Cleanup) sweep(ctx context.Context) {
	start := time.Now()

	expired, err := w.Svc.SweepExpired(ctx)
	if err != nil {
		sweepErrors.WithLabelValues("expired").Inc()
		log.Error().Err(err).Msg("expiry sweep failed")
	} else {
		sweepDeleted.WithLabelValues("expired").Add(float64(expired))
	}

	aged, err := w.Svc.SweepAged(ctx)
	if err != nil {
		sweepErrors.WithLabelValues("aged").Inc()
		log.Error().Err(err).Msg("retention sweep failed")
	} else {
		sweepDeleted.WithLabelValues("aged").Add(float64(aged))
	}

	log.Info().
		Int64("expired_deleted", expired).
		Int64("aged_deleted", aged).
		Dur("took", time.Since(start)).
		Msg("cleanup sweep done")
}
