// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Suggestion
// model: batch creation, windowed listings, forward-only status transitions,
// scoped deletes, and the cleanup sweeps.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a record is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - Conditional transitions report the number of rows changed instead of
//     erroring, so acting on an already-transitioned or already-deleted row
//     stays benign.
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edupulse/go-coach-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// BatchItem is one composed suggestion payload to persist, in the order the
// upstream generator emitted it.
type BatchItem struct {
	Type       domain.SuggestionType
	Category   domain.SuggestionCategory
	Message    string
	Priority   int
	ActionName *string
	ActionURL  *string
}

// SuggestionFilter narrows listing queries. Nil fields are ignored. ActiveAt,
// when set, keeps only records whose display window AND hard TTL both contain
// the instant; the two constraints are intersected so an inconsistent
// display_until can never outlive expires_at at read time.
type SuggestionFilter struct {
	Status   *domain.SuggestionStatus
	Trigger  *domain.TriggerType
	ActiveAt *time.Time
}

// CreateSuggestionBatch persists one generation batch atomically. Every
// record shares createdAt and the uniform windows; SequenceOrder is assigned
// 1..N preserving the caller's ordering. Either all rows become visible or
// none do.
func CreateSuggestionBatch(ctx context.Context, db *gorm.DB, userID string, trigger domain.TriggerType, createdAt, displayUntil, expiresAt time.Time, items []BatchItem) ([]domain.Suggestion, error) {
	batch := make([]domain.Suggestion, len(items))
	for i, it := range items {
		du, ea := displayUntil, expiresAt
		batch[i] = domain.Suggestion{
			ID:            uuid.NewString(),
			UserID:        userID,
			Type:          it.Type,
			TriggerType:   trigger,
			Category:      it.Category,
			Message:       it.Message,
			Priority:      it.Priority,
			ActionName:    it.ActionName,
			ActionURL:     it.ActionURL,
			Status:        domain.StatusActive,
			SequenceOrder: i + 1,
			CreatedAt:     createdAt,
			DisplayUntil:  &du,
			ExpiresAt:     &ea,
		}
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&batch).Error
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// HasSuggestionsSince reports whether the user already received a batch for
// the given trigger at or after since (typically local midnight). Generation
// uses it as the same-day duplicate check.
func HasSuggestionsSince(ctx context.Context, db *gorm.DB, userID string, trigger domain.TriggerType, since time.Time) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Suggestion{}).
		Where("user_id = ? AND trigger_type = ? AND created_at >= ?", userID, trigger, since).
		Count(&n).Error
	return n > 0, err
}

func applyFilter(q *gorm.DB, f SuggestionFilter) *gorm.DB {
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Trigger != nil {
		q = q.Where("trigger_type = ?", *f.Trigger)
	}
	if f.ActiveAt != nil {
		q = q.Where("(display_until IS NULL OR display_until >= ?)", *f.ActiveAt).
			Where("(expires_at IS NULL OR expires_at >= ?)", *f.ActiveAt)
	}
	return q
}

// CountSuggestions returns the number of records matching the filter for
// pagination metadata.
func CountSuggestions(ctx context.Context, db *gorm.DB, userID string, f SuggestionFilter) (int64, error) {
	var total int64
	err := applyFilter(db.WithContext(ctx).Model(&domain.Suggestion{}).Where("user_id = ?", userID), f).
		Count(&total).Error
	return total, err
}

// ListSuggestionsPage returns a page of the user's records matching the
// filter, ordered by sequence_order ascending then created_at descending
// (batch order within a day, newest batch first across days).
func ListSuggestionsPage(ctx context.Context, db *gorm.DB, userID string, f SuggestionFilter, offset, limit int) ([]domain.Suggestion, error) {
	var out []domain.Suggestion
	err := applyFilter(db.WithContext(ctx).Where("user_id = ?", userID), f).
		Order("sequence_order ASC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListRecentSuggestions returns a bounded preview slice, most recent first
// unless ascending is requested.
func ListRecentSuggestions(ctx context.Context, db *gorm.DB, userID string, limit int, ascending bool) ([]domain.Suggestion, error) {
	order := "created_at DESC, sequence_order ASC"
	if ascending {
		order = "created_at ASC, sequence_order ASC"
	}
	var out []domain.Suggestion
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(order).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountUnread returns the number of active records for the user. The query
// is served by the (user_id, status) index; no joins.
func CountUnread(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Suggestion{}).
		Where("user_id = ? AND status = ?", userID, domain.StatusActive).
		Count(&n).Error
	return n, err
}

// ListTodaySuggestions returns the feed the streaming service replays:
// records created at or after since (local midnight) with status active or
// viewed, inside both windows at now, ordered by sequence_order ascending
// then created_at descending.
func ListTodaySuggestions(ctx context.Context, db *gorm.DB, userID string, since, now time.Time) ([]domain.Suggestion, error) {
	var out []domain.Suggestion
	err := db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Where("status IN ?", []domain.SuggestionStatus{domain.StatusActive, domain.StatusViewed}).
		Where("(display_until IS NULL OR display_until >= ?)", now).
		Where("(expires_at IS NULL OR expires_at >= ?)", now).
		Order("sequence_order ASC, created_at DESC").
		Find(&out).Error
	return out, err
}

// transitionSources returns the statuses a conditional UPDATE may move to
// next, derived from the lifecycle rules. Re-applying the current state is
// excluded so RowsAffected stays a faithful "did anything change" signal.
func transitionSources(next domain.SuggestionStatus) []domain.SuggestionStatus {
	all := []domain.SuggestionStatus{domain.StatusActive, domain.StatusViewed, domain.StatusDismissed}
	out := make([]domain.SuggestionStatus, 0, len(all))
	for _, s := range all {
		if s != next && s.CanTransitionTo(next) {
			out = append(out, s)
		}
	}
	return out
}

// MarkSuggestionViewed performs the active → viewed transition for a single
// record owned by userID. It returns the number of rows changed: 0 means the
// record was missing, not owned, or already past active, all benign.
func MarkSuggestionViewed(ctx context.Context, db *gorm.DB, userID, id string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Suggestion{}).
		Where("user_id = ? AND id = ? AND status IN ?", userID, id, transitionSources(domain.StatusViewed)).
		Update("status", domain.StatusViewed)
	return res.RowsAffected, res.Error
}

// MarkAllViewed performs the bulk active → viewed transition for all of the
// user's active records and returns how many changed.
func MarkAllViewed(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Suggestion{}).
		Where("user_id = ? AND status IN ?", userID, transitionSources(domain.StatusViewed)).
		Update("status", domain.StatusViewed)
	return res.RowsAffected, res.Error
}

// DismissSuggestion moves a single record to dismissed from either active or
// viewed. Rows already dismissed (or gone) are left alone.
func DismissSuggestion(ctx context.Context, db *gorm.DB, userID, id string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Suggestion{}).
		Where("user_id = ? AND id = ? AND status IN ?", userID, id, transitionSources(domain.StatusDismissed)).
		Update("status", domain.StatusDismissed)
	return res.RowsAffected, res.Error
}

// DismissAll bulk-moves every non-dismissed record of the user to dismissed.
// Operational reset utility; history rows are kept.
func DismissAll(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Suggestion{}).
		Where("user_id = ? AND status IN ?", userID, transitionSources(domain.StatusDismissed)).
		Update("status", domain.StatusDismissed)
	return res.RowsAffected, res.Error
}

// DeleteSuggestion hard-deletes a single record scoped to (userID, id),
// independent of status. Returns ErrNotFound when nothing matched.
func DeleteSuggestion(ctx context.Context, db *gorm.DB, userID, id string) error {
	res := db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&domain.Suggestion{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpired removes every record whose hard TTL elapsed before now,
// regardless of status, and returns the number of rows deleted.
func DeleteExpired(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&domain.Suggestion{})
	return res.RowsAffected, res.Error
}

// DeleteOlderThan removes every record created before cutoff, regardless of
// expires_at or status. Backstop for mis-set TTLs.
func DeleteOlderThan(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&domain.Suggestion{})
	return res.RowsAffected, res.Error
}

// ListBatch returns the batch the user received for the given trigger at
// createdAt, in delivery order. Replays of a receipted generation request
// use this to return the original rows even after the display window moved
// on or a later batch landed the same day.
func ListBatch(ctx context.Context, db *gorm.DB, userID string, trigger domain.TriggerType, createdAt time.Time) ([]domain.Suggestion, error) {
	var out []domain.Suggestion
	err := db.WithContext(ctx).
		Where("user_id = ? AND trigger_type = ? AND created_at = ?", userID, trigger, createdAt).
		Order("sequence_order ASC").
		Find(&out).Error
	return out, err
}

// GetSuggestion fetches a single record by ID and owner. ErrNotFound when
// missing or owned by someone else.
func GetSuggestion(ctx context.Context, db *gorm.DB, userID, id string) (*domain.Suggestion, error) {
	var s domain.Suggestion
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}
