// Streaming delivery handler.
//
// This file exposes the server-sent-events endpoint that replays today's
// suggestion batch one item at a time:
//   - GET /suggestions/stream
//
// Event types on the wire: "suggestion", "empty", "complete", "error". The
// handler owns the SSE transport only; sequencing, pacing, and the viewed
// side effect live in the stream service.
package handlers

import (
	"net/http"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/edupulse/go-coach-backend/internal/http/middleware"
	"github.com/edupulse/go-coach-backend/internal/services"
)

// StreamToday godoc
// @ID          streamToday
// @Summary     Stream today's batch (SSE)
// @Description Replays today's suggestions as server-sent events with conversational pacing. Emits one "suggestion" event per item, then "complete"; an empty day yields a single "empty" event. Delivered items are marked viewed.
// @Tags        Suggestions
// @Produce     text/event-stream
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
//
// @Success     200  {string} string "event stream"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     500  {object} handlers.ErrorResponse "Streaming unsupported"
// @Router      /suggestions/stream [get]
func (h *Handlers) StreamToday(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}

	flusher, okFlush := c.Writer.(http.Flusher)
	if !okFlush {
		fail(c, http.StatusInternalServerError, ErrCodeStreamFailed, "streaming unsupported by connection")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	// Disables proxy buffering so events reach the client as they are written.
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	flusher.Flush()

	emit := func(ev services.StreamEvent) error {
		if err := sse.Encode(c.Writer, sse.Event{Event: ev.Name, Data: ev.Data}); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if err := h.streamSvc.StreamToday(c.Request.Context(), uid, emit); err != nil {
		// Headers are already on the wire; log and let the stream end.
		lg := middleware.LoggerFrom(c)
		lg.Warn().Err(err).Str("user_id", uid).Msg("suggestion stream ended with error")
	}
}
