// Package services – StreamService
//
// This file implements the streaming delivery of "today's batch": a thin
// replay of stored state emitted as discrete events with conversational
// pacing. There is no pub/sub channel behind it: the service reads the
// day's window once and iterates front-to-back, suspending cooperatively
// between items and honoring cancellation between every step.
//
// Delivered records are marked viewed as a best-effort side step: a failed
// mark is logged and never aborts delivery of subsequent items.
package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/edupulse/go-coach-backend/internal/clock"
	"github.com/edupulse/go-coach-backend/internal/repo"
)

// Stream event names, mirrored as SSE event types on the wire.
const (
	EventSuggestion = "suggestion"
	EventEmpty      = "empty"
	EventComplete   = "complete"
	EventError      = "error"
)

// StreamEvent is one framed event of a delivery stream.
type StreamEvent struct {
	Name string
	Data any
}

// SuggestionEvent is the payload of a "suggestion" event. Index is the
// 1-based position in the delivered sequence; Total is the batch size.
type SuggestionEvent struct {
	ID            string  `json:"id"`
	Type          string  `json:"type"`
	Category      string  `json:"category"`
	Message       string  `json:"message"`
	Priority      int     `json:"priority"`
	ActionName    *string `json:"actionName,omitempty"`
	ActionURL     *string `json:"actionUrl,omitempty"`
	SequenceOrder int     `json:"sequenceOrder"`
	Index         int     `json:"index"`
	Total         int     `json:"total"`
}

// EmptyEvent is the payload of the single "empty" event emitted when today's
// batch has no records.
type EmptyEvent struct {
	Message string `json:"message"`
}

// CompleteEvent is the payload of the terminal "complete" event.
type CompleteEvent struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// ErrorEvent is the payload of the terminal "error" event.
type ErrorEvent struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Sink receives stream events in order. Returning an error stops the stream
// (the client is gone or the transport failed); no further events follow.
type Sink func(ev StreamEvent) error

var streamedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "coach_suggestions_streamed_total",
		Help: "Suggestion events delivered over the streaming endpoint.",
	},
	[]string{"outcome"}, // delivered | empty | error
)

func init() {
	prometheus.MustRegister(streamedTotal)
}

// StreamService replays today's batch to one connected client.
type StreamService struct {
	DB    *gorm.DB
	Clock clock.Clock

	// Delay is the pacing between consecutive items. It is applied between
	// items only, never after the last one.
	Delay time.Duration

	// Locale selects the language of the framing messages (empty/complete).
	Locale language.Tag
}

// NewStreamService constructs a StreamService with the reference pacing.
func NewStreamService(db *gorm.DB, ck clock.Clock) *StreamService {
	return &StreamService{
		DB:    db,
		Clock: ck,
		Delay: 500 * time.Millisecond,
	}
}

// StreamToday delivers today's batch to emit, in sequence order.
//
// Protocol:
//   - empty batch: exactly one "empty" event, then done;
//   - otherwise one "suggestion" event per record, a pacing delay between
//     items, then exactly one "complete" event;
//   - on an internal failure, one "error" event and the stream ends;
//     already-sent events stand.
//
// Cancellation: ctx is checked between every emit and during every pacing
// delay; after cancellation nothing further is emitted and no further
// records are marked viewed.
func (s *StreamService) StreamToday(ctx context.Context, userID string, emit Sink) error {
	tr := otel.Tracer("services/StreamService")
	ctx, span := tr.Start(ctx, "StreamToday",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	p := message.NewPrinter(s.localeOrDefault())

	batch, err := repo.ListTodaySuggestions(ctx, s.DB, userID, clock.StartOfDay(s.Clock), s.Clock.Now().UTC())
	if err != nil {
		streamedTotal.WithLabelValues("error").Inc()
		_ = emit(StreamEvent{Name: EventError, Data: ErrorEvent{
			Message: p.Sprintf("Could not load today's coaching suggestions."),
			Error:   err.Error(),
		}})
		return err
	}

	if len(batch) == 0 {
		streamedTotal.WithLabelValues("empty").Inc()
		return emit(StreamEvent{Name: EventEmpty, Data: EmptyEvent{
			Message: p.Sprintf("No coaching suggestions for today yet. Check back after your next session."),
		}})
	}

	total := len(batch)
	for i, rec := range batch {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev := SuggestionEvent{
			ID:            rec.ID,
			Type:          string(rec.Type),
			Category:      string(rec.Category),
			Message:       rec.Message,
			Priority:      rec.Priority,
			ActionName:    rec.ActionName,
			ActionURL:     rec.ActionURL,
			SequenceOrder: rec.SequenceOrder,
			Index:         i + 1,
			Total:         total,
		}
		if err := emit(StreamEvent{Name: EventSuggestion, Data: ev}); err != nil {
			// Client gone or transport failure; stop without further marks.
			return err
		}
		streamedTotal.WithLabelValues("delivered").Inc()

		// Best-effort: delivered via stream counts as viewed.
		if _, err := repo.MarkSuggestionViewed(ctx, s.DB, userID, rec.ID); err != nil {
			log.Warn().
				Str("user_id", userID).
				Str("suggestion_id", rec.ID).
				Err(err).
				Msg("mark viewed after stream delivery failed")
		}

		if i < total-1 && s.Delay > 0 {
			if err := sleepCtx(ctx, s.Delay); err != nil {
				return err
			}
		}
	}

	return emit(StreamEvent{Name: EventComplete, Data: CompleteEvent{
		Message: p.Sprintf("Delivered %d coaching suggestions.", total),
		Count:   total,
	}})
}

// localeOrDefault returns the configured framing locale or English.
func (s *StreamService) localeOrDefault() language.Tag {
	if s.Locale == language.Und {
		return language.English
	}
	return s.Locale
}

// sleepCtx waits for d or until ctx is cancelled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
