package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func securityEngine(opt SecurityOptions, pre gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if pre != nil {
		r.Use(pre)
	}
	r.Use(SecurityHeaders(opt))
	for _, p := range []string{"/suggestions", "/suggestions/stream", "/suggestions/unread-count"} {
		r.GET(p, func(c *gin.Context) { c.Status(http.StatusOK) })
	}
	return r
}

func getPath(r *gin.Engine, path string, mut func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mut != nil {
		mut(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSecurityHeaders_Baseline(t *testing.T) {
	r := securityEngine(SecurityOptions{}, nil)
	h := getPath(r, "/suggestions/unread-count", nil).Header()

	if h.Get("X-Content-Type-Options") != "nosniff" ||
		h.Get("X-Frame-Options") != "DENY" ||
		h.Get("Referrer-Policy") != "no-referrer" {
		t.Fatalf("baseline headers missing: %#v", h)
	}
	// Nothing optional leaks in with a zero config.
	for _, k := range []string{"Permissions-Policy", "Cache-Control", "Strict-Transport-Security"} {
		if h.Get(k) != "" {
			t.Fatalf("unexpected %s: %q", k, h.Get(k))
		}
	}
}

func TestSecurityHeaders_NoStoreSkipsExemptPaths(t *testing.T) {
	r := securityEngine(SecurityOptions{
		NoStore:     true,
		CacheExempt: []string{"/suggestions", "/suggestions/stream"},
	}, nil)

	// Default routes are clamped.
	h := getPath(r, "/suggestions/unread-count", nil).Header()
	if h.Get("Cache-Control") != "no-store" || h.Get("Pragma") != "no-cache" || h.Get("Expires") != "0" {
		t.Fatalf("clamp missing: %#v", h)
	}

	// The ETag listing and the event stream keep their own cache semantics.
	for _, p := range []string{"/suggestions", "/suggestions/stream"} {
		if got := getPath(r, p, nil).Header().Get("Cache-Control"); got != "" {
			t.Fatalf("%s: Cache-Control = %q; want unset", p, got)
		}
	}
}

func TestSecurityHeaders_PolicyAndHSTS(t *testing.T) {
	r := securityEngine(SecurityOptions{
		EnableHSTS:   true,
		HSTSMaxAge:   24 * time.Hour,
		EnablePolicy: true,
	}, nil)

	// Plain HTTP never gets HSTS.
	h := getPath(r, "/suggestions", nil).Header()
	if h.Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS on plain HTTP: %q", h.Get("Strict-Transport-Security"))
	}
	if h.Get("X-Permitted-Cross-Domain-Policies") != "none" || h.Get("Permissions-Policy") == "" {
		t.Fatalf("policy headers missing: %#v", h)
	}

	// Terminated TLS.
	h = getPath(r, "/suggestions", func(req *http.Request) { req.TLS = &tls.ConnectionState{} }).Header()
	if got := h.Get("Strict-Transport-Security"); got != "max-age=86400; includeSubDomains; preload" {
		t.Fatalf("HSTS = %q", got)
	}

	// Proxy-terminated TLS via X-Forwarded-Proto.
	h = getPath(r, "/suggestions", func(req *http.Request) {
		req.Header.Set("X-Forwarded-Proto", "HTTPS")
	}).Header()
	if h.Get("Strict-Transport-Security") == "" {
		t.Fatalf("HSTS missing behind proxy")
	}
}

func TestSecurityHeaders_HSTSMaxAgeDefault(t *testing.T) {
	r := securityEngine(SecurityOptions{EnableHSTS: true}, nil)
	h := getPath(r, "/suggestions", func(req *http.Request) { req.TLS = &tls.ConnectionState{} }).Header()
	if got := h.Get("Strict-Transport-Security"); got != "max-age=15552000; includeSubDomains; preload" {
		t.Fatalf("default HSTS = %q", got)
	}
}

func TestSecurityHeaders_ExposesRequestID(t *testing.T) {
	setRID := func(c *gin.Context) {
		c.Header("X-Request-ID", "rid-123")
		c.Next()
	}

	// Added when absent.
	r := securityEngine(SecurityOptions{}, setRID)
	if got := getPath(r, "/suggestions", nil).Header().Get("Access-Control-Expose-Headers"); got != "X-Request-ID" {
		t.Fatalf("expose = %q", got)
	}

	// Appended to an existing list, never duplicated.
	r = securityEngine(SecurityOptions{}, func(c *gin.Context) {
		c.Header("X-Request-ID", "rid-456")
		c.Header("Access-Control-Expose-Headers", "ETag")
		c.Next()
	})
	if got := getPath(r, "/suggestions", nil).Header().Get("Access-Control-Expose-Headers"); got != "ETag, X-Request-ID" {
		t.Fatalf("append expose = %q", got)
	}
	r = securityEngine(SecurityOptions{}, func(c *gin.Context) {
		c.Header("X-Request-ID", "rid-789")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, ETag")
		c.Next()
	})
	if got := getPath(r, "/suggestions", nil).Header().Get("Access-Control-Expose-Headers"); got != "X-Request-ID, ETag" {
		t.Fatalf("dedupe expose = %q", got)
	}
}

func TestIsHTTPS(t *testing.T) {
	plain := httptest.NewRequest(http.MethodGet, "/", nil)
	if isHTTPS(plain) {
		t.Fatal("plain request reported as HTTPS")
	}
	tlsReq := httptest.NewRequest(http.MethodGet, "/", nil)
	tlsReq.TLS = &tls.ConnectionState{}
	if !isHTTPS(tlsReq) {
		t.Fatal("TLS request not reported as HTTPS")
	}
	fwd := httptest.NewRequest(http.MethodGet, "/", nil)
	fwd.Header.Set("X-Forwarded-Proto", "https")
	if !isHTTPS(fwd) {
		t.Fatal("forwarded request not reported as HTTPS")
	}
}
