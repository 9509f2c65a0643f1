package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/edupulse/go-coach-backend/internal/clock"
	"github.com/edupulse/go-coach-backend/internal/domain"
	"github.com/edupulse/go-coach-backend/internal/repo"
	"github.com/edupulse/go-coach-backend/internal/services"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedExpired(t *testing.T, db *gorm.DB, now time.Time, n int) {
	t.Helper()
	created := now.Add(-10 * 24 * time.Hour)
	items := make([]repo.BatchItem, n)
	for i := range items {
		items[i] = repo.BatchItem{Type: domain.TypeGuidance, Category: domain.CategoryOther, Message: "stale"}
	}
	if _, err := repo.CreateSuggestionBatch(context.Background(), db, "u1", domain.TriggerDailyAnalysis,
		created, created.Add(24*time.Hour), created.Add(7*24*time.Hour), items); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestNewCleanup_DefaultsInterval(t *testing.T) {
	w := NewCleanup(nil, 0)
	if w.Interval != time.Hour {
		t.Fatalf("interval = %v; want 1h", w.Interval)
	}
	if w = NewCleanup(nil, 5*time.Minute); w.Interval != 5*time.Minute {
		t.Fatalf("interval = %v; want 5m", w.Interval)
	}
}

func TestRun_SweepsImmediatelyAndStopsOnCancel(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	seedExpired(t, db, now, 3)

	svc := services.NewCleanupService(db, clock.Fixed{T: now})
	w := NewCleanup(svc, time.Hour) // first sweep happens before the first tick

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	// The startup sweep removes the expired batch without waiting a full
	// interval.
	deadline := time.After(2 * time.Second)
	for {
		var left int64
		if err := db.Model(&domain.Suggestion{}).Count(&left).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		if left == 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("startup sweep did not run; %d rows left", left)
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
