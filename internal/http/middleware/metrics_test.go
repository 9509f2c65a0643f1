package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/suggestions/unread-count", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"count": 3})
	})
	r.PUT("/suggestions/:id/read", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	hit := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return w
	}

	// Collectors are package globals shared across tests, so assert deltas.
	countBase := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/suggestions/unread-count", "200"))
	readBase := testutil.ToFloat64(httpReqs.WithLabelValues("PUT", "/suggestions/:id/read", "204"))
	missBase := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/suggestions/nope", "404"))

	if w := hit(http.MethodGet, "/suggestions/unread-count"); w.Code != http.StatusOK {
		t.Fatalf("unread-count = %d", w.Code)
	}
	if w := hit(http.MethodGet, "/suggestions/unread-count"); w.Code != http.StatusOK {
		t.Fatalf("unread-count again = %d", w.Code)
	}
	if w := hit(http.MethodPut, "/suggestions/sug-1/read"); w.Code != http.StatusNoContent {
		t.Fatalf("read = %d", w.Code)
	}
	if w := hit(http.MethodGet, "/suggestions/nope"); w.Code != http.StatusNotFound {
		t.Fatalf("missing route = %d", w.Code)
	}

	got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/suggestions/unread-count", "200"))
	if got != countBase+2 {
		t.Fatalf("unread-count requests = %v; want %v", got, countBase+2)
	}

	// The path label is the registered route, not the concrete URL, so a
	// thousand different suggestion ids share one series.
	got = testutil.ToFloat64(httpReqs.WithLabelValues("PUT", "/suggestions/:id/read", "204"))
	if got != readBase+1 {
		t.Fatalf("read transitions = %v; want %v", got, readBase+1)
	}
	if raw := testutil.ToFloat64(httpReqs.WithLabelValues("PUT", "/suggestions/sug-1/read", "204")); raw != 0 {
		t.Fatalf("raw URL leaked into the path label: %v", raw)
	}

	// Unmatched requests fall back to the raw path.
	got = testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/suggestions/nope", "404"))
	if got != missBase+1 {
		t.Fatalf("404 fallback = %v; want %v", got, missBase+1)
	}

	// All requests above have completed.
	if inflight := testutil.ToFloat64(httpInflight); inflight != 0 {
		t.Fatalf("inflight = %v; want 0", inflight)
	}
}
