// Package clock provides an injectable time source so that "today" windowing
// (local-midnight cutoffs) is deterministic under test. All day-boundary math
// in the service goes through a Clock instead of ad hoc time.Now() calls.
package clock

import "time"

// Clock supplies the current instant and the location used for day-boundary
// calculations.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time
	// Location returns the zone in which local midnight is computed.
	Location() *time.Location
}

// System is a Clock backed by the host's wall clock and local zone.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time { return time.Now() }

// Location returns time.Local.
func (System) Location() *time.Location { return time.Local }

// Fixed is a Clock pinned to a single instant and zone, for tests.
type Fixed struct {
	T   time.Time
	Loc *time.Location
}

// Now returns the pinned instant.
func (f Fixed) Now() time.Time { return f.T }

// Location returns the pinned zone, defaulting to UTC.
func (f Fixed) Location() *time.Location {
	if f.Loc == nil {
		return time.UTC
	}
	return f.Loc
}

// StartOfDay returns local midnight of the clock's current day, in the
// clock's location.
func StartOfDay(c Clock) time.Time {
	now := c.Now().In(c.Location())
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.Location())
}
