// Package timefilter parses the human time windows accepted on the command
// line, such as "last 1 hour" or "2024-05-01 10:00 to 2024-05-01 11:00".
package timefilter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/resolution"
)

// Default is the window used when none is given.
const Default = "last 1 hour"

var layouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"2006-01-02",
}

var clockLayouts = []string{"15:04:05", "15:04", "3:04pm", "3:04 pm"}

// Parse converts s into a window ending no later than now.
//
// Accepted forms:
//
//	last 1 hour | last 15 min | last day
//	<time> to <time>
//
// Times are parsed in now's location. A bare clock time ("10:30") refers
// to today.
func Parse(s string, now time.Time) (domain.TimeFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = Default
	}
	lower := strings.ToLower(s)

	if rest, ok := strings.CutPrefix(lower, "last "); ok {
		secs, err := resolution.Seconds(rest)
		if err != nil || secs <= 0 || secs > int64(math.MaxInt64/time.Second) {
			return domain.TimeFilter{}, fmt.Errorf("invalid time filter %q: bad duration %q", s, rest)
		}
		end := now.Truncate(time.Minute)
		return domain.TimeFilter{Start: end.Add(-time.Duration(secs) * time.Second), End: end}, nil
	}

	if i := strings.Index(lower, " to "); i >= 0 {
		start, err := parseTime(s[:i], now)
		if err != nil {
			return domain.TimeFilter{}, fmt.Errorf("invalid time filter %q: %w", s, err)
		}
		end, err := parseTime(s[i+len(" to "):], now)
		if err != nil {
			return domain.TimeFilter{}, fmt.Errorf("invalid time filter %q: %w", s, err)
		}
		if !end.After(start) {
			return domain.TimeFilter{}, fmt.Errorf("invalid time filter %q: end must be after start", s)
		}
		return domain.TimeFilter{Start: start, End: end}, nil
	}

	return domain.TimeFilter{}, fmt.Errorf("invalid time filter %q: expected \"last <duration>\" or \"<start> to <end>\"", s)
}

func parseTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	loc := now.Location()
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	for _, layout := range clockLayouts {
		if t, err := time.ParseInLocation(layout, strings.ToLower(s), loc); err == nil {
			y, m, d := now.Date()
			return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}
