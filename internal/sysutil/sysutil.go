// Package sysutil holds process-level helpers shared by the binaries.
package sysutil

import (
	"strings"

	"github.com/rs/zerolog"
)

// SetLogLevel applies lvl to zerolog's global filter. "warning" is accepted
// as an alias for "warn"; empty or unknown values keep the service at info
// so a typo in LOG_LEVEL never silences errors.
func SetLogLevel(lvl string) {
	v := strings.ToLower(strings.TrimSpace(lvl))
	if v == "warning" {
		v = "warn"
	}
	parsed, err := zerolog.ParseLevel(v)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
