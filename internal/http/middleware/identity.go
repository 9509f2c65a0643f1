// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the caller's identity for the per-user suggestion feed.
// The service sits behind the platform's API gateway, which authenticates the
// learner and forwards the subject as the X-User-ID header; this middleware
// promotes that header into the Gin context so handlers and downstream
// middleware never read it directly.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// userIDKey is the Gin context key under which the resolved user is stored.
	userIDKey = "userID"
	// userIDHeader carries the authenticated subject set by the gateway.
	userIDHeader = "X-User-ID"
)

// UserFromCtx returns the resolved user id, or "" when none was attached.
func UserFromCtx(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Identity resolves the caller from the X-User-ID header and stores it in the
// Gin context.
//
// When required is true, requests without a resolvable identity are rejected
// with 401 before any handler or store access runs. When false, the request
// proceeds without a user in context and handlers decide per-route (used for
// health, metrics, and documentation endpoints mounted outside the API group).
func Identity(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader(userIDHeader))
		if uid != "" {
			c.Set(userIDKey, uid)
			c.Next()
			return
		}
		if required {
			rid, _ := c.Get(requestIDKey)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": asString(rid),
				"code":       "unauthorized",
				"message":    "user identity required",
			})
			return
		}
		c.Next()
	}
}
