package reshape

import (
	"testing"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/stretchr/testify/require"
)

var serviceRows = [][]any{
	{"Seattle", "CRM", "NORMAL"},
	{"Seattle", "Mail", "HIGH"},
	{"Boston", "CRM", "MEDIUM"},
	{"Boston", "Mail", "DISABLED"},
	{"Austin", "Mail", "LOW"},
}

func TestServiceHealth(t *testing.T) {
	got, err := ServiceHealth(serviceRows, false)
	require.NoError(t, err)
	require.Equal(t, []string{"location", "CRM", "Mail"}, got.ColumnNames())
	for _, c := range got.Columns {
		require.Equal(t, domain.ColumnEphemeral, c.Kind)
	}
	require.Equal(t, FormatHealth, got.Columns[1].Formatter)
	require.Equal(t, [][]any{
		{"Seattle", "NORMAL", "HIGH"},
		{"Boston", "MEDIUM", "DISABLED"},
		{"Austin", "N/A", "LOW"},
	}, got.Rows)
}

func TestServiceHealth_RGB(t *testing.T) {
	got, err := ServiceHealth(serviceRows, true)
	require.NoError(t, err)
	require.Equal(t, [][]any{
		{"Seattle", "green", "red"},
		{"Boston", "yellow", "gray"},
		{"Austin", "gray", "yellow"},
	}, got.Rows)
}

func TestServiceHealth_Empty(t *testing.T) {
	got, err := ServiceHealth(nil, true)
	require.NoError(t, err)
	require.Zero(t, got.Len())
}

func TestHealthColor(t *testing.T) {
	for state, want := range map[string]string{
		HealthNormal: "green", HealthLow: "yellow", HealthMedium: "yellow", HealthHigh: "red",
		HealthNoData: "gray", HealthInit: "gray", HealthNotAvailable: "gray", "weird": "gray",
	} {
		require.Equal(t, want, HealthColor(state), state)
	}
}
