package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/edupulse/go-coach-backend/internal/clock"
	"github.com/edupulse/go-coach-backend/internal/domain"
	"github.com/edupulse/go-coach-backend/internal/repo"
)

func TestEngagementSummary_RatesAndWindow(t *testing.T) {
	db := newTestDB(t)
	ck := clock.Fixed{T: testNow}
	ctx := context.Background()

	name, url := "Act", "/act"
	items := []repo.BatchItem{
		{Type: domain.TypeGuidance, Category: domain.CategoryOther, Message: "a", ActionName: &name, ActionURL: &url},
		{Type: domain.TypeGuidance, Category: domain.CategoryOther, Message: "b", ActionName: &name, ActionURL: &url},
		{Type: domain.TypeGuidance, Category: domain.CategoryOther, Message: "c"},
		{Type: domain.TypeGuidance, Category: domain.CategoryOther, Message: "d"},
	}
	created := testNow.Add(-24 * time.Hour)
	rows, err := repo.CreateSuggestionBatch(ctx, db, "u1", domain.TriggerDailyAnalysis,
		created, created.Add(24*time.Hour), created.Add(7*24*time.Hour), items)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := repo.DismissSuggestion(ctx, db, "u1", rows[0].ID); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if _, err := repo.MarkSuggestionViewed(ctx, db, "u1", rows[2].ID); err != nil {
		t.Fatalf("view: %v", err)
	}

	// An ancient batch outside any reasonable window.
	old := testNow.Add(-60 * 24 * time.Hour)
	if _, err := repo.CreateSuggestionBatch(ctx, db, "u1", domain.TriggerPostExam,
		old, old.Add(24*time.Hour), old.Add(7*24*time.Hour),
		[]repo.BatchItem{{Type: domain.TypeGuidance, Category: domain.CategoryOther, Message: "stale"}}); err != nil {
		t.Fatalf("seed old: %v", err)
	}

	svc := NewEngagementService(db, ck)
	sum, err := svc.Summary(ctx, "u1", 0) // default window
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if sum.WindowDays != 7 {
		t.Fatalf("window = %d", sum.WindowDays)
	}
	if sum.Total != 4 || sum.Active != 2 || sum.Viewed != 1 || sum.Dismissed != 1 {
		t.Fatalf("counts = %+v", sum)
	}
	approx := func(got, want float64) bool { return math.Abs(got-want) < 1e-9 }
	if !approx(sum.ViewRate, 0.25) { // 1 viewed of 4
		t.Fatalf("view rate = %v", sum.ViewRate)
	}
	if !approx(sum.DismissRate, 0.25) {
		t.Fatalf("dismiss rate = %v", sum.DismissRate)
	}
	if !approx(sum.ActionRate, 0.5) { // one of two action rows resolved
		t.Fatalf("action rate = %v", sum.ActionRate)
	}

	// Widening the window picks up the stale batch.
	sum, err = svc.Summary(ctx, "u1", 90)
	if err != nil || sum.Total != 5 {
		t.Fatalf("wide window: total=%d err=%v", sum.Total, err)
	}
}

func TestEngagementSummary_BulkDismissLeavesViewRateAtZero(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	created := testNow.Add(-time.Hour)
	items := make([]repo.BatchItem, 4)
	for i := range items {
		items[i] = repo.BatchItem{Type: domain.TypeGuidance, Category: domain.CategoryOther, Message: "x"}
	}
	if _, err := repo.CreateSuggestionBatch(ctx, db, "u1", domain.TriggerDailyAnalysis,
		created, created.Add(24*time.Hour), created.Add(7*24*time.Hour), items); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// Active records dismissed in bulk were never viewed.
	if n, err := repo.DismissAll(ctx, db, "u1"); err != nil || n != 4 {
		t.Fatalf("dismiss all: n=%d err=%v", n, err)
	}

	sum, err := NewEngagementService(db, clock.Fixed{T: testNow}).Summary(ctx, "u1", 7)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Total != 4 || sum.Viewed != 0 || sum.Dismissed != 4 {
		t.Fatalf("counts = %+v", sum)
	}
	if sum.ViewRate != 0 {
		t.Fatalf("view rate = %v; want 0", sum.ViewRate)
	}
	if sum.DismissRate != 1 {
		t.Fatalf("dismiss rate = %v; want 1", sum.DismissRate)
	}
}

func TestEngagementSummary_EmptyHasZeroRates(t *testing.T) {
	svc := NewEngagementService(newTestDB(t), clock.Fixed{T: testNow})
	sum, err := svc.Summary(context.Background(), "nobody", 7)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Total != 0 || sum.ViewRate != 0 || sum.DismissRate != 0 || sum.ActionRate != 0 {
		t.Fatalf("expected zeroes, got %+v", sum)
	}
}
