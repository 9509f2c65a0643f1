// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides aggregate queries: lightweight stats for
// conditional responses (ETag generation) and the engagement rollup consumed
// by the metrics endpoint. Each function is context-aware and safe to call
// from services or handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/edupulse/go-coach-backend/internal/domain"
)

// SuggestionsStats returns aggregate metadata for a user's suggestions: the
// total number of rows and the maximum UpdatedAt timestamp among them.
//
// When the user has no records, the returned count is 0 and maxUpdatedAt is
// nil. Used for weak ETag construction in the HTTP layer.
func SuggestionsStats(ctx context.Context, db *gorm.DB, userID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Suggestion{}).Where("user_id = ?", userID)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// EngagementCounts is the raw aggregate over a user's records inside a
// rolling window. Rates are derived in the service layer.
type EngagementCounts struct {
	Total               int64
	Active              int64
	Viewed              int64
	Dismissed           int64
	WithAction          int64 // records bearing a non-null action_url
	DismissedWithAction int64 // action-bearing records that reached dismissed
}

// EngagementStats computes the engagement counts for records created at or
// after since, in a single grouped pass over the suggestions table.
func EngagementStats(ctx context.Context, db *gorm.DB, userID string, since time.Time) (EngagementCounts, error) {
	var c EngagementCounts
	err := db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*)                                                          AS total,
			SUM(CASE WHEN status = 'active'    THEN 1 ELSE 0 END)             AS active,
			SUM(CASE WHEN status = 'viewed'    THEN 1 ELSE 0 END)             AS viewed,
			SUM(CASE WHEN status = 'dismissed' THEN 1 ELSE 0 END)             AS dismissed,
			SUM(CASE WHEN action_url IS NOT NULL THEN 1 ELSE 0 END)           AS with_action,
			SUM(CASE WHEN action_url IS NOT NULL AND status = 'dismissed'
				THEN 1 ELSE 0 END)                                            AS dismissed_with_action
		FROM suggestions
		WHERE user_id = ? AND created_at >= ?`, userID, since).
		Scan(&c).Error
	return c, err
}
