// Package services – CleanupService
//
// This file implements the two storage sweeps run by the background worker:
// hard-TTL expiry and age-based retention. Both are idempotent bulk deletes
// that report how many rows they removed.
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/edupulse/go-coach-backend/internal/clock"
	"github.com/edupulse/go-coach-backend/internal/repo"
)

// CleanupService removes suggestions past their hard TTL and, separately,
// records older than the retention horizon regardless of status.
type CleanupService struct {
	DB    *gorm.DB
	Clock clock.Clock

	// RetentionMaxAge bounds how long any record may live, expired or not.
	RetentionMaxAge time.Duration
}

// NewCleanupService constructs a CleanupService with a 30-day retention
// horizon.
func NewCleanupService(db *gorm.DB, ck clock.Clock) *CleanupService {
	return &CleanupService{DB: db, Clock: ck, RetentionMaxAge: 30 * 24 * time.Hour}
}

// SweepExpired deletes every record whose expires_at has passed and returns
// the number of rows removed.
func (s *CleanupService) SweepExpired(ctx context.Context) (int64, error) {
	return repo.DeleteExpired(ctx, s.DB, s.Clock.Now().UTC())
}

// SweepAged deletes every record created before the retention horizon and
// returns the number of rows removed. A non-positive horizon disables the
// sweep.
func (s *CleanupService) SweepAged(ctx context.Context) (int64, error) {
	if s.RetentionMaxAge <= 0 {
		return 0, nil
	}
	cutoff := s.Clock.Now().UTC().Add(-s.RetentionMaxAge)
	return repo.DeleteOlderThan(ctx, s.DB, cutoff)
}
