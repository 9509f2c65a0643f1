// Package utils holds small helpers for reading request query parameters.
// A malformed parameter never aborts a request; the caller's default wins.
package utils

import (
	"strconv"
	"strings"
)

// AtoiDefault parses s as a base-10 integer and returns def when s is empty
// or malformed. Used for page, page_size, limit, and days parameters.
func AtoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// BoolParam reports whether a query parameter opts into an optional behavior
// such as active_only. Accepted spellings, case-insensitive: "1", "true",
// "yes", "on". Everything else, including absence, is false.
func BoolParam(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
