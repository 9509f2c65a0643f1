package handlers

import (
	"net/http"
	"strings"
	"testing"
)

func TestStreamToday_EmitsEventFrames(t *testing.T) {
	r := newAPIRouter(t)

	if w := doJSON(t, r, http.MethodPost, "/suggestions/generate", "u1", generateBody, nil); w.Code != http.StatusCreated {
		t.Fatalf("seed status = %d", w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/suggestions/stream", "u1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stream status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("content type = %q", ct)
	}
	if w.Header().Get("X-Accel-Buffering") != "no" {
		t.Fatalf("proxy buffering not disabled")
	}

	body := w.Body.String()
	if got := strings.Count(body, "event:suggestion"); got != 2 {
		t.Fatalf("suggestion frames = %d body=%q", got, body)
	}
	if !strings.Contains(body, "event:complete") {
		t.Fatalf("missing complete frame: %q", body)
	}
	if !strings.Contains(body, `"index":1`) || !strings.Contains(body, `"total":2`) {
		t.Fatalf("missing framing fields: %q", body)
	}
	if !strings.Contains(body, "Revisit fractions") {
		t.Fatalf("missing message payload: %q", body)
	}

	// Delivery marked everything viewed.
	if w = doJSON(t, r, http.MethodGet, "/suggestions/unread-count", "u1", "", nil); !strings.Contains(w.Body.String(), `"count":0`) {
		t.Fatalf("unread after stream: %s", w.Body.String())
	}
}

func TestStreamToday_EmptyDay(t *testing.T) {
	r := newAPIRouter(t)

	w := doJSON(t, r, http.MethodGet, "/suggestions/stream", "u1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stream status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "event:empty") || strings.Contains(body, "event:suggestion") {
		t.Fatalf("body = %q", body)
	}
}

func TestStreamToday_RequiresIdentity(t *testing.T) {
	r := newAPIRouter(t)

	w := doJSON(t, r, http.MethodGet, "/suggestions/stream", "", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	if e := decodeError(t, w); e.Code != ErrCodeUnauthorized {
		t.Fatalf("code = %s", e.Code)
	}
}
