// Package services – SuggestionService
//
// This file implements the SuggestionService, which owns the write side of
// the suggestion lifecycle (batch generation and sequencing, status
// transitions, deletes) and the read side consumed by polling clients
// (paged listing, recent preview, unread count, today's batch).
//
// Generation is the only place records are created: the service receives
// already-composed payloads from the upstream analytics collaborator,
// validates them, checks the same-day idempotency window, assigns sequence
// numbers and the display/TTL windows, and persists the batch atomically.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// user identifiers and batch/pagination parameters where applicable.
package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/edupulse/go-coach-backend/internal/clock"
	"github.com/edupulse/go-coach-backend/internal/domain"
	"github.com/edupulse/go-coach-backend/internal/repo"
)

// ComposedSuggestion is one externally composed coaching message handed to
// the generator. The service treats Message as opaque text.
type ComposedSuggestion struct {
	Type       domain.SuggestionType
	Category   domain.SuggestionCategory
	Message    string
	Priority   int
	ActionName *string
	ActionURL  *string
}

// SuggestionService coordinates suggestion persistence and retrieval.
type SuggestionService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Clock supplies "now" and the local-midnight day boundary.
	Clock clock.Clock

	// DisplayWindow and TTL are applied uniformly to every record of a
	// batch, relative to the batch timestamp. DisplayWindow must not exceed
	// TTL (config validates; the repo clamps at read time regardless).
	DisplayWindow time.Duration
	TTL           time.Duration

	// MaxBatchSize caps the number of composed suggestions per generation.
	MaxBatchSize int
	// RecentLimit caps the "recent" preview listing.
	RecentLimit int
}

// NewSuggestionService constructs a SuggestionService with the reference
// pipeline defaults.
func NewSuggestionService(db *gorm.DB, ck clock.Clock) *SuggestionService {
	return &SuggestionService{
		DB:            db,
		Clock:         ck,
		DisplayWindow: 24 * time.Hour,
		TTL:           7 * 24 * time.Hour,
		MaxBatchSize:  20,
		RecentLimit:   9,
	}
}

// HasToday reports whether the user already received a batch for the trigger
// since local midnight.
func (s *SuggestionService) HasToday(ctx context.Context, userID string, trigger domain.TriggerType) (bool, error) {
	return repo.HasSuggestionsSince(ctx, s.DB, userID, trigger, clock.StartOfDay(s.Clock))
}

// Generate validates and persists one suggestion batch for userID.
//
// Semantics:
//   - trigger must be a known TriggerType; otherwise ErrInvalidTrigger.
//   - items must contain 1..MaxBatchSize entries with non-blank messages;
//     otherwise ErrEmptyBatch / ErrBatchTooLarge / ErrBlankMessage.
//   - If a batch for this trigger already exists since local midnight,
//     ErrBatchExists is returned and nothing is written.
//   - SequenceOrder is assigned 1..N preserving the caller's ordering;
//     DisplayUntil and ExpiresAt are uniform across the batch.
//   - The insert is atomic: readers never observe a partial batch.
func (s *SuggestionService) Generate(ctx context.Context, userID string, trigger domain.TriggerType, items []ComposedSuggestion) ([]domain.Suggestion, error) {
	tr := otel.Tracer("services/SuggestionService")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("trigger", string(trigger)),
			attribute.Int("batch.size", len(items)),
		),
	)
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUser
	}
	if !trigger.Valid() {
		return nil, ErrInvalidTrigger
	}
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}
	if s.MaxBatchSize > 0 && len(items) > s.MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	batch := make([]repo.BatchItem, len(items))
	for i, it := range items {
		msg := strings.TrimSpace(it.Message)
		if msg == "" {
			return nil, ErrBlankMessage
		}
		typ := it.Type
		if typ == "" {
			typ = domain.TypeGuidance
		}
		cat := it.Category
		if cat == "" {
			cat = domain.CategoryOther
		}
		batch[i] = repo.BatchItem{
			Type:       typ,
			Category:   cat,
			Message:    msg,
			Priority:   it.Priority,
			ActionName: normalizeOptional(it.ActionName),
			ActionURL:  normalizeOptional(it.ActionURL),
		}
	}

	exists, err := s.HasToday(ctx, userID, trigger)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrBatchExists
	}

	now := s.Clock.Now().UTC()
	return repo.CreateSuggestionBatch(ctx, s.DB, userID, trigger, now, now.Add(s.DisplayWindow), now.Add(s.TTL), batch)
}

// ListFilter narrows ListPage results. Zero values mean "no filter".
// ActiveOnly keeps records inside both the display window and the hard TTL
// at the current instant.
type ListFilter struct {
	Status     domain.SuggestionStatus
	Trigger    domain.TriggerType
	ActiveOnly bool
}

// ListPage returns a page of the user's suggestions and the total count.
// It applies defaults for invalid page/pageSize.
func (s *SuggestionService) ListPage(ctx context.Context, userID string, f ListFilter, page, pageSize int) ([]domain.Suggestion, int64, error) {
	tr := otel.Tracer("services/SuggestionService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	rf := repo.SuggestionFilter{}
	if f.Status != "" {
		st := f.Status
		rf.Status = &st
	}
	if f.Trigger != "" {
		tg := f.Trigger
		rf.Trigger = &tg
	}
	if f.ActiveOnly {
		now := s.Clock.Now().UTC()
		rf.ActiveAt = &now
	}

	total, err := repo.CountSuggestions(ctx, s.DB, userID, rf)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Suggestion{}, 0, nil
	}

	items, err := repo.ListSuggestionsPage(ctx, s.DB, userID, rf, offset, pageSize)
	return items, total, err
}

// Recent returns the bounded preview listing (most recent first unless
// ascending). Limits above the configured cap are clamped. With activeOnly
// the page is reduced to records still displayable right now, so the preview
// can hide stale rows without changing its ordering.
func (s *SuggestionService) Recent(ctx context.Context, userID string, limit int, ascending, activeOnly bool) ([]domain.Suggestion, error) {
	cap := s.RecentLimit
	if cap <= 0 {
		cap = 9
	}
	if limit <= 0 || limit > cap {
		limit = cap
	}
	items, err := repo.ListRecentSuggestions(ctx, s.DB, userID, limit, ascending)
	if err != nil || !activeOnly {
		return items, err
	}
	now := s.Clock.Now().UTC()
	out := make([]domain.Suggestion, 0, len(items))
	for i := range items {
		if items[i].CurrentlyActive(now) {
			out = append(out, items[i])
		}
	}
	return out, nil
}

// UnreadCount returns the number of active records for the user.
func (s *SuggestionService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return repo.CountUnread(ctx, s.DB, userID)
}

// Today returns the records created since local midnight with status active
// or viewed, in delivery order. This is the feed the streaming service
// replays; reading it has no side effects.
func (s *SuggestionService) Today(ctx context.Context, userID string) ([]domain.Suggestion, error) {
	tr := otel.Tracer("services/SuggestionService")
	ctx, span := tr.Start(ctx, "Today",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	return repo.ListTodaySuggestions(ctx, s.DB, userID, clock.StartOfDay(s.Clock), s.Clock.Now().UTC())
}

// Get fetches one record scoped to the user. Returns ErrSuggestionNotFound
// when the record is missing or owned by someone else.
func (s *SuggestionService) Get(ctx context.Context, userID, id string) (*domain.Suggestion, error) {
	rec, err := repo.GetSuggestion(ctx, s.DB, userID, id)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, ErrSuggestionNotFound
		}
		return nil, err
	}
	return rec, nil
}

// MarkRead transitions one record active → viewed. Acting on a record that
// is already viewed/dismissed or gone is a no-op, not an error.
func (s *SuggestionService) MarkRead(ctx context.Context, userID, id string) error {
	_, err := repo.MarkSuggestionViewed(ctx, s.DB, userID, id)
	return err
}

// MarkAllRead bulk-transitions all of the user's active records to viewed
// and returns how many changed.
func (s *SuggestionService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return repo.MarkAllViewed(ctx, s.DB, userID)
}

// Dismiss moves one record to dismissed (from active or viewed). Already
// dismissed or missing records are left alone.
func (s *SuggestionService) Dismiss(ctx context.Context, userID, id string) error {
	_, err := repo.DismissSuggestion(ctx, s.DB, userID, id)
	return err
}

// Delete hard-removes one record scoped to the user. Returns
// ErrSuggestionNotFound when nothing matched.
func (s *SuggestionService) Delete(ctx context.Context, userID, id string) error {
	if err := repo.DeleteSuggestion(ctx, s.DB, userID, id); err != nil {
		if err == repo.ErrNotFound {
			return ErrSuggestionNotFound
		}
		return err
	}
	return nil
}

// DismissAll bulk-dismisses every non-dismissed record of the user and
// returns how many changed. Operational/testing reset; history is kept.
func (s *SuggestionService) DismissAll(ctx context.Context, userID string) (int64, error) {
	return repo.DismissAll(ctx, s.DB, userID)
}

// normalizeOptional trims an optional string field and collapses blanks to
// nil so the two action fields stay independently nullable.
func normalizeOptional(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
