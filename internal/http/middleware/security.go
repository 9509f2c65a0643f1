// Hardening headers for the suggestion API.
//
// Every response carries per-learner data, so the default posture is strict:
// no sniffing, no framing, no referrer leakage, and no shared-cache storage.
// Two route classes opt out of the cache clamp: the paginated listing, whose
// clients revalidate with If-None-Match against the weak ETag, and the SSE
// stream, which manages its own Cache-Control.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityOptions configures the headers emitted by SecurityHeaders.
type SecurityOptions struct {
	// EnableHSTS emits Strict-Transport-Security on HTTPS requests only.
	// Leave off unless traffic is HTTPS end to end, proxy hop included.
	EnableHSTS bool
	// HSTSMaxAge is the HSTS lifetime; non-positive falls back to 180 days.
	HSTSMaxAge time.Duration
	// NoStore clamps caching (Cache-Control: no-store plus the legacy pair)
	// on every response except the CacheExempt paths.
	NoStore bool
	// CacheExempt lists exact request paths the NoStore clamp skips.
	CacheExempt []string
	// EnablePolicy adds the browser feature restrictions. Harmless for the
	// non-browser clients that make up most of this API's traffic.
	EnablePolicy bool
}

// SecurityHeaders returns the hardening middleware. The baseline trio
// (X-Content-Type-Options, X-Frame-Options, Referrer-Policy) is always set;
// the rest follows SecurityOptions. When an earlier middleware assigned an
// X-Request-ID, it is appended to Access-Control-Expose-Headers so browser
// clients can correlate failures with server logs.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := opt.HSTSMaxAge
	if maxAge <= 0 {
		maxAge = 180 * 24 * time.Hour
	}
	hstsValue := "max-age=" + strconv.Itoa(int(maxAge.Seconds())) + "; includeSubDomains; preload"

	exempt := make(map[string]struct{}, len(opt.CacheExempt))
	for _, p := range opt.CacheExempt {
		exempt[p] = struct{}{}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}

		if opt.NoStore {
			if _, skip := exempt[c.Request.URL.Path]; !skip {
				h.Set("Cache-Control", "no-store")
				h.Set("Pragma", "no-cache")
				h.Set("Expires", "0")
			}
		}

		// HSTS on plain HTTP would pin a policy the origin cannot honor.
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hstsValue)
		}

		if rid := h.Get("X-Request-ID"); rid != "" {
			const hdr = "Access-Control-Expose-Headers"
			switch cur := h.Get(hdr); {
			case cur == "":
				h.Set(hdr, "X-Request-ID")
			case !strings.Contains(cur, "X-Request-ID"):
				h.Set(hdr, cur+", X-Request-ID")
			}
		}

		c.Next()
	}
}

// isHTTPS reports whether the request arrived over TLS, directly or behind a
// proxy that set X-Forwarded-Proto.
func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
