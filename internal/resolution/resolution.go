// Package resolution maps requested time-bucket sizes onto the fixed set
// the NetProfiler reporting API accepts.
package resolution

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
)

// buckets maps a bucket size in seconds to its appliance name.
var buckets = map[int64]string{
	60:     "1min",
	900:    "15min",
	3600:   "hour",
	21600:  "6hour",
	86400:  "day",
	604800: "week",
}

var unitSeconds = map[string]int64{
	"s": 1, "sec": 1, "secs": 1, "second": 1, "seconds": 1,
	"m": 60, "min": 60, "mins": 60, "minute": 60, "minutes": 60,
	"h": 3600, "hr": 3600, "hrs": 3600, "hour": 3600, "hours": 3600,
	"d": 86400, "day": 86400, "days": 86400,
	"w": 604800, "wk": 604800, "week": 604800, "weeks": 604800,
}

var durationRe = regexp.MustCompile(`^(\d+)?\s*([a-z]+)$`)

// Resolve returns the appliance name for a requested resolution.
//
// "auto" (and the empty string) pass through as "auto". Anything else is
// normalised to seconds and must land exactly on a known bucket, otherwise
// the result wraps domain.ErrUndefinedResolution.
func Resolve(r string) (string, error) {
	r = strings.ToLower(strings.TrimSpace(r))
	if r == "" || r == domain.ResolutionAuto {
		return domain.ResolutionAuto, nil
	}

	secs, err := Seconds(r)
	if err != nil {
		return "", err
	}
	name, ok := buckets[secs]
	if !ok {
		return "", fmt.Errorf("resolution %q (%ds) is not one of %s: %w",
			r, secs, strings.Join(Names(), ", "), domain.ErrUndefinedResolution)
	}
	return name, nil
}

// Seconds parses a resolution string into whole seconds. It accepts bare
// integers ("900"), unit words with an optional count ("hour", "6hour",
// "15 min", "1d") and Go duration syntax ("15m", "1h30m").
func Seconds(r string) (int64, error) {
	r = strings.ToLower(strings.TrimSpace(r))
	if r == "" {
		return 0, fmt.Errorf("empty resolution: %w", domain.ErrUndefinedResolution)
	}

	if n, err := strconv.ParseInt(r, 10, 64); err == nil {
		return n, nil
	}

	if m := durationRe.FindStringSubmatch(r); m != nil {
		if unit, ok := unitSeconds[m[2]]; ok {
			count := int64(1)
			if m[1] != "" {
				n, err := strconv.ParseInt(m[1], 10, 64)
				if err != nil || n > math.MaxInt64/unit {
					return 0, fmt.Errorf("resolution %q is out of range: %w", r, domain.ErrUndefinedResolution)
				}
				count = n
			}
			return count * unit, nil
		}
	}

	if d, err := time.ParseDuration(r); err == nil {
		return int64(d / time.Second), nil
	}

	return 0, fmt.Errorf("cannot parse resolution %q: %w", r, domain.ErrUndefinedResolution)
}

// Names returns the appliance bucket names ordered by size.
func Names() []string {
	secs := make([]int64, 0, len(buckets))
	for s := range buckets {
		secs = append(secs, s)
	}
	sort.Slice(secs, func(i, j int) bool { return secs[i] < secs[j] })

	names := make([]string, len(secs))
	for i, s := range secs {
		names[i] = buckets[s]
	}
	return names
}
