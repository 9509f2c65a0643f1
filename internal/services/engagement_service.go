// Package services – EngagementService
//
// This file derives the engagement summary surfaced by the metrics endpoint:
// status counts over a rolling window plus the ratios coaching teams track
// (how much of the feed gets seen, resolved, and acted on).
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/edupulse/go-coach-backend/internal/clock"
	"github.com/edupulse/go-coach-backend/internal/repo"
)

// EngagementSummary is the per-user rollup over the reporting window.
// Rates are in [0,1] and zero when their denominator is zero.
type EngagementSummary struct {
	WindowDays int       `json:"windowDays"`
	Since      time.Time `json:"since"`

	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Viewed    int64 `json:"viewed"`
	Dismissed int64 `json:"dismissed"`

	// ViewRate is the share of records whose current status is viewed.
	ViewRate float64 `json:"viewRate"`
	// DismissRate is the share of records that reached dismissed.
	DismissRate float64 `json:"dismissRate"`
	// ActionRate is the share of action-bearing records that were resolved.
	ActionRate float64 `json:"actionRate"`
}

// EngagementService computes engagement summaries.
type EngagementService struct {
	DB    *gorm.DB
	Clock clock.Clock

	// DefaultWindowDays is used when the caller does not pick a window.
	DefaultWindowDays int
}

// NewEngagementService constructs an EngagementService with a 7-day default
// reporting window.
func NewEngagementService(db *gorm.DB, ck clock.Clock) *EngagementService {
	return &EngagementService{DB: db, Clock: ck, DefaultWindowDays: 7}
}

// Summary aggregates the user's records created in the last windowDays days.
// Non-positive windowDays falls back to the default.
func (s *EngagementService) Summary(ctx context.Context, userID string, windowDays int) (EngagementSummary, error) {
	tr := otel.Tracer("services/EngagementService")
	ctx, span := tr.Start(ctx, "Summary",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("window.days", windowDays),
		),
	)
	defer span.End()

	if windowDays <= 0 {
		windowDays = s.DefaultWindowDays
	}
	if windowDays <= 0 {
		windowDays = 7
	}
	since := s.Clock.Now().UTC().Add(-time.Duration(windowDays) * 24 * time.Hour)

	c, err := repo.EngagementStats(ctx, s.DB, userID, since)
	if err != nil {
		return EngagementSummary{}, err
	}

	out := EngagementSummary{
		WindowDays: windowDays,
		Since:      since,
		Total:      c.Total,
		Active:     c.Active,
		Viewed:     c.Viewed,
		Dismissed:  c.Dismissed,
	}
	if c.Total > 0 {
		out.ViewRate = float64(c.Viewed) / float64(c.Total)
		out.DismissRate = float64(c.Dismissed) / float64(c.Total)
	}
	if c.WithAction > 0 {
		out.ActionRate = float64(c.DismissedWithAction) / float64(c.WithAction)
	}
	return out, nil
}
