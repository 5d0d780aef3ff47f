// Package timeutil centralizes the fixed-timezone wall-clock comparisons
// used by the deadline scheduler.
//
// Event thresholds are stored as naive timestamps carrying the operator's
// wall-clock reading in the configured zone (historically Asia/Tokyo).
// Comparing them against true instants would silently shift every deadline
// by the zone offset, so "now" is converted to the same naive form first.
package timeutil

import "time"

// DefaultZone is the operating timezone when none is configured.
const DefaultZone = "Asia/Tokyo"

// Location resolves a zone name, falling back to DefaultZone when empty.
func Location(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	return time.LoadLocation(name)
}

// WallClock returns t's wall-clock reading in loc, re-stamped as UTC. The
// result compares correctly against naive timestamps scanned from
// timestamp-without-time-zone columns, which database/sql surfaces in UTC.
func WallClock(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
