// Suggestion HTTP handlers.
//
// This file exposes REST endpoints for coaching-suggestion resources:
//   - POST   /suggestions/generate        (create a batch)
//   - GET    /suggestions                 (list, paginated, ETag support)
//   - GET    /suggestions/recent          (bounded preview)
//   - GET    /suggestions/unread-count    (badge counter)
//   - GET    /suggestions/today           (today's batch, no side effects)
//   - GET    /suggestions/{id}            (single record)
//   - PUT    /suggestions/{id}/read       (active -> viewed)
//   - PUT    /suggestions/read-all        (bulk active -> viewed)
//   - PUT    /suggestions/{id}/complete   (-> dismissed)
//   - PUT    /suggestions/deactivate-all  (bulk -> dismissed)
//   - DELETE /suggestions/{id}            (hard delete)
//   - GET    /suggestions/metrics         (engagement rollup)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edupulse/go-coach-backend/internal/clock"
	"github.com/edupulse/go-coach-backend/internal/domain"
	"github.com/edupulse/go-coach-backend/internal/http/middleware"
	"github.com/edupulse/go-coach-backend/internal/repo"
	"github.com/edupulse/go-coach-backend/internal/services"
	"github.com/edupulse/go-coach-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// SuggestionAPI defines the suggestion lifecycle operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type SuggestionAPI interface {
	// Generate persists one validated batch for the user and trigger.
	Generate(ctx context.Context, userID string, trigger domain.TriggerType, items []services.ComposedSuggestion) ([]domain.Suggestion, error)
	// ListPage returns a filtered page of the user's suggestions and the total.
	ListPage(ctx context.Context, userID string, f services.ListFilter, page, pageSize int) ([]domain.Suggestion, int64, error)
	// Recent returns the bounded most-recent listing, optionally reduced to
	// records still displayable right now.
	Recent(ctx context.Context, userID string, limit int, ascending, activeOnly bool) ([]domain.Suggestion, error)
	// Get fetches one suggestion owned by the user.
	Get(ctx context.Context, userID, id string) (*domain.Suggestion, error)
	// UnreadCount returns the number of active suggestions.
	UnreadCount(ctx context.Context, userID string) (int64, error)
	// Today returns today's batch in delivery order, without side effects.
	Today(ctx context.Context, userID string) ([]domain.Suggestion, error)
	// MarkRead transitions one suggestion active -> viewed (no-op otherwise).
	MarkRead(ctx context.Context, userID, id string) error
	// MarkAllRead bulk-transitions active -> viewed, returning rows changed.
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	// Dismiss transitions one suggestion to dismissed (no-op otherwise).
	Dismiss(ctx context.Context, userID, id string) error
	// DismissAll bulk-dismisses non-dismissed rows, returning rows changed.
	DismissAll(ctx context.Context, userID string) (int64, error)
	// Delete hard-removes one suggestion owned by the user.
	Delete(ctx context.Context, userID, id string) error
}

// EngagementAPI defines the metrics rollup consumed by HTTP handlers.
type EngagementAPI interface {
	// Summary aggregates engagement over the last windowDays days.
	Summary(ctx context.Context, userID string, windowDays int) (services.EngagementSummary, error)
}

// StreamAPI delivers today's batch as an ordered event sequence.
type StreamAPI interface {
	// StreamToday emits the framed event sequence to the sink.
	StreamToday(ctx context.Context, userID string, emit services.Sink) error
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for suggestions, streaming, and metrics.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	sugSvc    SuggestionAPI
	engSvc    EngagementAPI
	streamSvc StreamAPI

	// idemTTL bounds how long a generation receipt can be replayed.
	idemTTL time.Duration
}

// New constructs and returns a Handlers instance bound to the given services.
func New(sugSvc SuggestionAPI, engSvc EngagementAPI, streamSvc StreamAPI) *Handlers {
	return &Handlers{sugSvc: sugSvc, engSvc: engSvc, streamSvc: streamSvc, idemTTL: 24 * time.Hour}
}

// WithIdempotencyTTL overrides the receipt replay window.
func (h *Handlers) WithIdempotencyTTL(ttl time.Duration) *Handlers {
	if ttl > 0 {
		h.idemTTL = ttl
	}
	return h
}

// userID extracts the resolved user id from Gin context (set by the identity
// middleware). It returns "" when no identity was resolved; handlers reject
// such requests with 401 before touching the store.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// requireUser resolves the user id or fails the request with 401.
func requireUser(c *gin.Context) (string, bool) {
	uid := userID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "user identity required")
		return "", false
	}
	return uid, true
}

//
// DTOs
//

// SuggestionInput is one composed suggestion in a generation request.
type SuggestionInput struct {
	// Type classifies the suggestion (encouragement, warning, celebration,
	// guidance, reminder, motivation, wellness). Defaults to guidance.
	Type string `json:"type" example:"reminder"`
	// Category groups the suggestion for filtering (study_prompt, summary,
	// practice_prompt, other). Defaults to other.
	Category string `json:"category" example:"study_prompt"`
	// Message is the coaching text shown to the learner (required).
	Message string `json:"message" binding:"required" example:"Review yesterday's algebra set before starting a new topic."`
	// Priority orders suggestions within clients; higher is more urgent.
	Priority int `json:"priority" example:"2"`
	// ActionName optionally labels a call-to-action button.
	ActionName *string `json:"action_name,omitempty" example:"Start review"`
	// ActionURL optionally deep-links the call to action.
	ActionURL *string `json:"action_url,omitempty" example:"/review/algebra-1"`
}

// GenerateRequest is the JSON payload for creating a suggestion batch.
type GenerateRequest struct {
	// Trigger names the evaluation that produced this batch.
	Trigger string `json:"trigger" binding:"required" example:"session_analysis"`
	// Suggestions is the ordered composed batch (1..max size).
	Suggestions []SuggestionInput `json:"suggestions" binding:"required"`
}

// GenerateResponse wraps a stored batch.
type GenerateResponse struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
	Count       int                 `json:"count"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListSuggestionsResponse wraps a page of suggestions and pagination info.
type ListSuggestionsResponse struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
	Pagination  Pagination          `json:"pagination"`
}

// UnreadCountResponse carries the badge counter.
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// UpdatedResponse reports how many rows a bulk transition changed.
type UpdatedResponse struct {
	Updated int64 `json:"updated"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

//
// Handlers
//

// GenerateSuggestions godoc
// @ID          generateSuggestions
// @Summary     Store a composed suggestion batch
// @Description Validates and persists one suggestion batch for the current user and trigger. At most one batch per trigger per local day.
// @Tags        Suggestions
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true   "User ID"  example(user123)
// @Param       Idempotency-Key  header  string  false  "Safe-retry key; replays return the original batch"
// @Param       body             body    handlers.GenerateRequest  true  "Composed batch"
//
// @Success     201  {object}  handlers.GenerateResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing identity"
// @Failure     409  {object}  handlers.ErrorResponse  "Batch already generated today"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /suggestions/generate [post]
func (h *Handlers) GenerateSuggestions(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	trigger := domain.TriggerType(strings.TrimSpace(req.Trigger))

	// Receipt lookup: an Idempotency-Key the middleware flagged as seen is
	// replayed with the receipted batch itself, not whatever "today" holds at
	// retry time, so the response stays stable across the display window and
	// later same-day batches.
	idemKey, hasKey := middleware.GetIdempotencyKey(c)
	var db *gorm.DB
	ck := clock.Clock(clock.System{})
	if svc, okSvc := h.sugSvc.(*services.SuggestionService); okSvc {
		db = svc.DB
		if svc.Clock != nil {
			ck = svc.Clock
		}
	}
	if hasKey && db != nil && middleware.IsReplay(c) {
		now := ck.Now().UTC()
		if rec, err := repo.GetReceipt(c.Request.Context(), db, uid, trigger, idemKey, now); err == nil && rec != nil {
			items, terr := repo.ListBatch(c.Request.Context(), db, uid, trigger, rec.BatchAt)
			if terr != nil {
				fail(c, http.StatusInternalServerError, ErrCodeGenerateFailed, terr.Error())
				return
			}
			ok(c, http.StatusOK, GenerateResponse{Suggestions: items, Count: len(items)})
			return
		}
	}

	items := make([]services.ComposedSuggestion, len(req.Suggestions))
	for i, in := range req.Suggestions {
		items[i] = services.ComposedSuggestion{
			Type:       domain.SuggestionType(strings.TrimSpace(in.Type)),
			Category:   domain.SuggestionCategory(strings.TrimSpace(in.Category)),
			Message:    in.Message,
			Priority:   in.Priority,
			ActionName: in.ActionName,
			ActionURL:  in.ActionURL,
		}
	}

	batch, err := h.sugSvc.Generate(c.Request.Context(), uid, trigger, items)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBatchExists):
			fail(c, http.StatusConflict, ErrCodeConflict, "batch already generated today")
		case errors.Is(err, services.ErrInvalidTrigger),
			errors.Is(err, services.ErrEmptyBatch),
			errors.Is(err, services.ErrBatchTooLarge),
			errors.Is(err, services.ErrBlankMessage):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrMissingUser):
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "user identity required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeGenerateFailed, err.Error())
		}
		return
	}

	// Record the receipt so retries with the same key replay this batch.
	if hasKey && db != nil && len(batch) > 0 {
		if _, rerr := repo.CreateReceipt(c.Request.Context(), db, uid, trigger, idemKey, batch[0].CreatedAt, len(batch), ck.Now().UTC(), h.idemTTL); rerr != nil && !errors.Is(rerr, repo.ErrDuplicate) {
			lg := middleware.LoggerFrom(c)
			lg.Warn().Err(rerr).Msg("generation receipt not stored")
		}
	}
	ok(c, http.StatusCreated, GenerateResponse{Suggestions: batch, Count: len(batch)})
}

// ListSuggestions godoc
// @ID          listSuggestions
// @Summary     List suggestions (paginated)
// @Description Returns a page of the user's suggestions, optionally filtered by status, trigger, and liveness. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Suggestions
// @Produce     json
//
// @Param       X-User-ID      header  string  true  "User ID"                      example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"   example(W/\"abc123\")
// @Param       status         query   string  false "Filter by status"             Enums(active, viewed, dismissed)
// @Param       trigger        query   string  false "Filter by trigger type"       example(session_analysis)
// @Param       active_only    query   bool    false "Keep only currently displayable records"
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListSuggestionsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /suggestions [get]
func (h *Handlers) ListSuggestions(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	f := services.ListFilter{}
	if st := strings.TrimSpace(c.Query("status")); st != "" {
		s := domain.SuggestionStatus(st)
		if s != domain.StatusActive && s != domain.StatusViewed && s != domain.StatusDismissed {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown status filter")
			return
		}
		f.Status = s
	}
	if tg := strings.TrimSpace(c.Query("trigger")); tg != "" {
		t := domain.TriggerType(tg)
		if !t.Valid() {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown trigger filter")
			return
		}
		f.Trigger = t
	}
	f.ActiveOnly = utils.BoolParam(c.Query("active_only"))

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, okSvc := h.sugSvc.(*services.SuggestionService); okSvc {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.SuggestionsStats(ctx, db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"suggestions:%s:%d:%d"`, uid, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.sugSvc.ListPage(ctx, uid, f, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := ListSuggestionsResponse{
		Suggestions: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}

// RecentSuggestions godoc
// @ID          recentSuggestions
// @Summary     List most recent suggestions
// @Description Returns the newest suggestions up to a bounded limit, newest first (order=asc reverses).
// @Tags        Suggestions
// @Produce     json
//
// @Param       X-User-ID    header  string  true  "User ID"                    example(user123)
// @Param       limit        query   int     false "Max items (bounded by server cap)" minimum(1)
// @Param       order        query   string  false "Sort direction"             Enums(asc, desc) default(desc)
// @Param       active_only  query   bool    false "Keep only currently displayable records"
//
// @Success     200  {array}  domain.Suggestion
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /suggestions/recent [get]
func (h *Handlers) RecentSuggestions(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	limit := utils.AtoiDefault(c.Query("limit"), 0)
	ascending := strings.EqualFold(c.Query("order"), "asc")
	activeOnly := utils.BoolParam(c.Query("active_only"))

	items, err := h.sugSvc.Recent(c.Request.Context(), uid, limit, ascending, activeOnly)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// UnreadCount godoc
// @ID          unreadCount
// @Summary     Count unread suggestions
// @Description Returns the number of active (never viewed, not dismissed) suggestions for the badge counter.
// @Tags        Suggestions
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
//
// @Success     200  {object} handlers.UnreadCountResponse
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /suggestions/unread-count [get]
func (h *Handlers) UnreadCount(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	n, err := h.sugSvc.UnreadCount(c.Request.Context(), uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, UnreadCountResponse{Count: n})
}

// TodaySuggestions godoc
// @ID          todaySuggestions
// @Summary     Get today's batch
// @Description Returns the suggestions created since local midnight (active and viewed) in delivery order. Reading has no side effects.
// @Tags        Suggestions
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
//
// @Success     200  {object} handlers.GenerateResponse
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /suggestions/today [get]
func (h *Handlers) TodaySuggestions(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	items, err := h.sugSvc.Today(c.Request.Context(), uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, GenerateResponse{Suggestions: items, Count: len(items)})
}

// GetSuggestionByID godoc
// @ID          getSuggestion
// @Summary     Get one suggestion
// @Description Returns a single suggestion owned by the current user.
// @Tags        Suggestions
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"              example(user123)
// @Param       id         path    string  true  "Suggestion ID (UUID)" format(uuid)
//
// @Success     200  {object} domain.Suggestion
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     404  {object} handlers.ErrorResponse "Suggestion not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /suggestions/{id} [get]
func (h *Handlers) GetSuggestionByID(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "suggestion id must be a UUID")
		return
	}
	rec, err := h.sugSvc.Get(c.Request.Context(), uid, id)
	if err != nil {
		if errors.Is(err, services.ErrSuggestionNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "suggestion not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, rec)
}

// MarkSuggestionRead godoc
// @ID          markSuggestionRead
// @Summary     Mark one suggestion as read
// @Description Transitions the suggestion active -> viewed. Repeating the call, or calling it on a dismissed or missing record, is a harmless no-op.
// @Tags        Suggestions
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"              example(user123)
// @Param       id         path    string  true  "Suggestion ID (UUID)" format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /suggestions/{id}/read [put]
func (h *Handlers) MarkSuggestionRead(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "suggestion id must be a UUID")
		return
	}
	if err := h.sugSvc.MarkRead(c.Request.Context(), uid, id); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		return
	}
	noContent(c)
}

// MarkAllRead godoc
// @ID          markAllRead
// @Summary     Mark all suggestions as read
// @Description Bulk-transitions every active suggestion to viewed and reports how many rows changed.
// @Tags        Suggestions
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
//
// @Success     200  {object} handlers.UpdatedResponse
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /suggestions/read-all [put]
func (h *Handlers) MarkAllRead(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	n, err := h.sugSvc.MarkAllRead(c.Request.Context(), uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, UpdatedResponse{Updated: n})
}

// CompleteSuggestion godoc
// @ID          completeSuggestion
// @Summary     Complete (dismiss) one suggestion
// @Description Transitions the suggestion to dismissed from active or viewed. Repeating the call is a harmless no-op.
// @Tags        Suggestions
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"              example(user123)
// @Param       id         path    string  true  "Suggestion ID (UUID)" format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /suggestions/{id}/complete [put]
func (h *Handlers) CompleteSuggestion(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "suggestion id must be a UUID")
		return
	}
	if err := h.sugSvc.Dismiss(c.Request.Context(), uid, id); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		return
	}
	noContent(c)
}

// DeactivateAll godoc
// @ID          deactivateAll
// @Summary     Dismiss all suggestions
// @Description Bulk-dismisses every active and viewed suggestion and reports how many rows changed. History is retained.
// @Tags        Suggestions
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
//
// @Success     200  {object} handlers.UpdatedResponse
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /suggestions/deactivate-all [put]
func (h *Handlers) DeactivateAll(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	n, err := h.sugSvc.DismissAll(c.Request.Context(), uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, UpdatedResponse{Updated: n})
}

// DeleteSuggestion godoc
// @ID          deleteSuggestion
// @Summary     Delete one suggestion
// @Description Permanently removes a suggestion owned by the current user.
// @Tags        Suggestions
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"              example(user123)
// @Param       id         path    string  true  "Suggestion ID (UUID)" format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     404  {object} handlers.ErrorResponse "Suggestion not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /suggestions/{id} [delete]
func (h *Handlers) DeleteSuggestion(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "suggestion id must be a UUID")
		return
	}
	if err := h.sugSvc.Delete(c.Request.Context(), uid, id); err != nil {
		if errors.Is(err, services.ErrSuggestionNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "suggestion not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// EngagementMetrics godoc
// @ID          engagementMetrics
// @Summary     Engagement summary
// @Description Returns status counts and engagement rates over a rolling window (default 7 days).
// @Tags        Metrics
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"        example(user123)
// @Param       days       query   int     false "Window in days" minimum(1) default(7)
//
// @Success     200  {object} services.EngagementSummary
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /suggestions/metrics [get]
func (h *Handlers) EngagementMetrics(c *gin.Context) {
	uid, okUser := requireUser(c)
	if !okUser {
		return
	}
	days := utils.AtoiDefault(c.Query("days"), 0)
	sum, err := h.engSvc.Summary(c.Request.Context(), uid, days)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeMetricsFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, sum)
}
