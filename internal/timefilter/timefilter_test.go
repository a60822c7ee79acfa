package timefilter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC)

func TestParse_Last(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"last 1 hour", time.Hour},
		{"last 15 min", 15 * time.Minute},
		{"last day", 24 * time.Hour},
		{"Last 2h", 2 * time.Hour},
		{"", time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tf, err := Parse(tt.in, now)
			require.NoError(t, err)
			require.Equal(t, time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC), tf.End)
			require.Equal(t, tt.want, tf.End.Sub(tf.Start))
		})
	}
}

func TestParse_Range(t *testing.T) {
	tf, err := Parse("2024-04-30 10:00 to 2024-04-30 11:15", now)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC), tf.Start)
	require.Equal(t, time.Date(2024, 4, 30, 11, 15, 0, 0, time.UTC), tf.End)
}

func TestParse_ClockTimesAreToday(t *testing.T) {
	tf, err := Parse("9:00 to 10:30", now)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), tf.Start)
	require.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), tf.End)
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{
		"yesterday",
		"last forever",
		"last 0 min",
		"last 99999999999999999999 min",
		"last 9223372036854775807 s",
		"2024-04-30 11:00 to 2024-04-30 10:00",
		"noon to midnight",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in, now)
			require.Error(t, err)
		})
	}
}
