package reshape

import (
	"testing"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestCombineDirections(t *testing.T) {
	cols := []domain.Column{{Name: "time"}, {Name: "avg_bytes"}, {Name: "label"}}
	in := &domain.ResultSet{Columns: cols, Rows: [][]any{
		{float64(1), 10.0, "x"},
		{float64(2), 20.0, "y"},
	}}
	out := &domain.ResultSet{Columns: cols, Rows: [][]any{
		{float64(2), 5.0, "z"},
		{float64(3), 1.0, "w"},
	}}

	got, err := CombineDirections(in, out, "time")
	require.NoError(t, err)
	require.Equal(t, [][]any{
		{float64(1), 10.0, "x"},
		{float64(2), 25.0, "y"},
		{float64(3), 1.0, "w"},
	}, got.Rows)
	require.Equal(t, 20.0, in.Rows[1][1], "inputs must not be modified")
}

func TestCombineDirections_LegendMismatch(t *testing.T) {
	a := &domain.ResultSet{Columns: []domain.Column{{Name: "time"}, {Name: "in_bytes"}}}
	b := &domain.ResultSet{Columns: []domain.Column{{Name: "time"}, {Name: "out_bytes"}}}
	_, err := CombineDirections(a, b, "time")
	require.Error(t, err)

	_, err = CombineDirections(a, a, "nope")
	require.Error(t, err)
}
