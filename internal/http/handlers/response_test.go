package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// envelopeEngine builds a router whose middleware stamps the request id the
// way the real chain does, optionally with a request-scoped logger attached.
func envelopeEngine(reqID string, logTo *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", reqID)
		if logTo != nil {
			lg := zerolog.New(logTo)
			c.Set("logger", &lg)
		}
		c.Next()
	})
	return r
}

func doEnvelope(t *testing.T, r *gin.Engine, method, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode body: %v", method, path, err)
		}
	}
	return w
}

func TestFail_ServerErrorLogsWithEnvelope(t *testing.T) {
	var logs bytes.Buffer
	r := envelopeEngine("rid-gen-1", &logs)
	r.POST("/suggestions/generate", func(c *gin.Context) {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "sequence allocation failed")
	})

	var resp ErrorResponse
	w := doEnvelope(t, r, http.MethodPost, "/suggestions/generate", &resp)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if resp.RequestID != "rid-gen-1" || resp.Code != ErrCodeInternal || resp.Message != "sequence allocation failed" {
		t.Fatalf("envelope = %+v", resp)
	}
	if !strings.Contains(logs.String(), `"level":"error"`) || !strings.Contains(logs.String(), "sequence allocation failed") {
		t.Fatalf("5xx not logged: %s", logs.String())
	}
}

func TestFail_ClientErrorSkipsErrorLog(t *testing.T) {
	var logs bytes.Buffer
	r := envelopeEngine("rid-404", &logs)
	r.GET("/suggestions/missing", func(c *gin.Context) {
		Fail(c, http.StatusNotFound, ErrCodeNotFound, "suggestion not found")
	})

	var resp ErrorResponse
	w := doEnvelope(t, r, http.MethodGet, "/suggestions/missing", &resp)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	if resp.RequestID != "rid-404" || resp.Code != ErrCodeNotFound {
		t.Fatalf("envelope = %+v", resp)
	}
	if strings.Contains(logs.String(), `"level":"error"`) {
		t.Fatalf("4xx logged at error level: %s", logs.String())
	}
}

func TestSuccessHelpers(t *testing.T) {
	r := envelopeEngine("rid-ok", nil)
	r.GET("/suggestions/unread-count", func(c *gin.Context) {
		ok(c, http.StatusOK, gin.H{"count": 4})
	})
	r.DELETE("/suggestions/s1", func(c *gin.Context) {
		noContent(c)
	})

	var body map[string]any
	w := doEnvelope(t, r, http.MethodGet, "/suggestions/unread-count", &body)
	if w.Code != http.StatusOK || body["count"].(float64) != 4 {
		t.Fatalf("ok helper: status=%d body=%v", w.Code, body)
	}

	w = doEnvelope(t, r, http.MethodDelete, "/suggestions/s1", nil)
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("noContent helper: status=%d len=%d", w.Code, w.Body.Len())
	}
}
