// Package timeparsing turns human-entered time expressions into timestamps.
//
// Expressions are tried in layers, cheapest first: compact durations
// (+6h, -1d, +2w), absolute timestamps (RFC3339 or date-only), then
// natural language ("tomorrow", "next monday at 2pm", "3 days ago").
package timeparsing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var compactRe = regexp.MustCompile(`^([+-]?)(\d+)([hdwmy])$`)

// IsCompactDuration reports whether s looks like compact duration syntax.
func IsCompactDuration(s string) bool {
	return compactRe.MatchString(s)
}

// ParseCompactDuration parses [+-]?<n><unit> relative to now. Units are
// h, d, w, m, y; a missing sign means forward. Day and larger units use
// calendar arithmetic, so "+1m" from January 31 lands on March 3 the way
// AddDate normalizes it.
func ParseCompactDuration(s string, now time.Time) (time.Time, error) {
	m := compactRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("not a compact duration: %q", s)
	}
	amount, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid duration amount: %q", m[2])
	}
	if m[1] == "-" {
		amount = -amount
	}

	switch m[3] {
	case "h":
		return now.Add(time.Duration(amount) * time.Hour), nil
	case "d":
		return now.AddDate(0, 0, amount), nil
	case "w":
		return now.AddDate(0, 0, amount*7), nil
	case "m":
		return now.AddDate(0, amount, 0), nil
	case "y":
		return now.AddDate(amount, 0, 0), nil
	}
	return now, nil
}

// ParseRelativeTime resolves a time expression against now, trying each
// layer in order and returning the first hit.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}

	if IsCompactDuration(s) {
		return ParseCompactDuration(s, now)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, now.Location()); err == nil {
		return t, nil
	}
	if t, err := ParseNaturalLanguage(s, now); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time expression: %q", s)
}
