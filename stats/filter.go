// Package stats aggregates survey responses: filtering, rating summaries,
// week/month buckets, per-category rollups and tabular exports.
package stats

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Filter types accepted in the ?filter= query parameter.
const (
	FilterAll     = "all"
	FilterAfter   = "after"
	FilterWeekday = "weekday"
	FilterWeek    = "week"
	FilterMonth   = "month"
)

// Entry is a single response as seen by the aggregation code.
type Entry struct {
	Rating    int
	CreatedAt string
}

// Filter selects which responses take part in a summary.
type Filter struct {
	Type  string `json:"type"`
	Value string `json:"value"`

	weekday  int
	hasDay   bool
	location *time.Location
}

// ParseFilter builds a filter from raw query values. Day-of-week, week and
// month computations use loc; nil means UTC.
func ParseFilter(filterType, value string, loc *time.Location) Filter {
	if filterType == "" {
		filterType = FilterAll
	}
	if loc == nil {
		loc = time.UTC
	}
	f := Filter{Type: filterType, Value: value, location: loc}
	if filterType == FilterWeekday {
		if day, ok := parseDayIndex(value); ok {
			f.weekday = day
			f.hasDay = true
		}
	}
	return f
}

// parseDayIndex accepts integral numbers, so "3" and "3.0" both mean Wednesday.
func parseDayIndex(value string) (int, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsInf(v, 0) || math.Trunc(v) != v {
		return 0, false
	}
	return int(v), true
}

// Location returns the time zone used for calendar computations.
func (f Filter) Location() *time.Location {
	if f.location == nil {
		return time.UTC
	}
	return f.location
}

// Keep reports whether a response created at createdAt passes the filter.
func (f Filter) Keep(createdAt string) bool {
	switch f.Type {
	case FilterAfter:
		if f.Value == "" {
			return true
		}
		return createdAt >= f.Value
	case FilterWeekday:
		if !f.hasDay {
			return true
		}
		t, ok := ParseTimestamp(createdAt, f.Location())
		if !ok {
			return false
		}
		return int(t.Weekday()) == f.weekday
	default:
		return true
	}
}

// Apply returns the entries that pass the filter, preserving order.
func (f Filter) Apply(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Keep(e.CreatedAt) {
			out = append(out, e)
		}
	}
	return out
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseTimestamp parses a stored timestamp and converts it to loc.
// Timestamps without an offset are read in loc; a bare date is read as UTC
// midnight.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.In(loc), true
	}
	return time.Time{}, false
}
