// Package reshape turns raw report rows into display-ready result sets:
// truncation, run-scoped computed columns, residual "other" series,
// top-N column derivation, service health pivots and direction merges.
package reshape

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
)

// ErrKeyMismatch indicates two row sets that must share time buckets do not.
var ErrKeyMismatch = errors.New("time bucket mismatch")

// Truncate keeps the first n rows when n > 0. The input is not modified.
func Truncate(rs *domain.ResultSet, n int) *domain.ResultSet {
	out := &domain.ResultSet{Columns: rs.Columns, Rows: rs.Rows}
	if n > 0 && len(out.Rows) > n {
		out.Rows = out.Rows[:n]
	}
	return out
}

// RunColumns holds the ephemeral columns created during one run. It is
// discarded with the run.
type RunColumns struct {
	cols  []domain.Column
	index map[string]int
}

// NewRunColumns returns an empty registry.
func NewRunColumns() *RunColumns {
	return &RunColumns{index: make(map[string]int)}
}

// Add registers an ephemeral column. Adding an existing name replaces it
// in place.
func (r *RunColumns) Add(name, label, datatype, formatter string) domain.Column {
	c := domain.Column{
		Name:      name,
		Label:     label,
		Datatype:  datatype,
		Formatter: formatter,
		Kind:      domain.ColumnEphemeral,
	}
	if i, ok := r.index[name]; ok {
		r.cols[i] = c
		return c
	}
	r.index[name] = len(r.cols)
	r.cols = append(r.cols, c)
	return c
}

// AddLike registers an ephemeral column that formats like base.
func (r *RunColumns) AddLike(name, label string, base domain.Column) domain.Column {
	c := r.Add(name, label, base.Datatype, base.Formatter)
	c.Units = base.Units
	r.cols[r.index[name]] = c
	return c
}

// Columns returns the registered columns in insertion order.
func (r *RunColumns) Columns() []domain.Column {
	return append([]domain.Column(nil), r.cols...)
}

// MergeOther appends an "other" series: per time bucket, the total minus
// the sum of seriesNames. primary's first column is the time key; totals
// rows are [time, total]. Both must cover exactly the same buckets.
func MergeOther(primary *domain.ResultSet, totals [][]any, seriesNames []string, other domain.Column) (*domain.ResultSet, error) {
	idx := make([]int, len(seriesNames))
	for i, name := range seriesNames {
		if idx[i] = primary.ColumnIndex(name); idx[i] < 0 {
			return nil, fmt.Errorf("merge other: unknown series column %q", name)
		}
	}

	totalByKey := make(map[string]float64, len(totals))
	for _, row := range totals {
		if len(row) < 2 {
			return nil, fmt.Errorf("merge other: totals row has %d cells, want 2", len(row))
		}
		v, _ := ToFloat(row[1])
		totalByKey[keyOf(row[0])] = v
	}

	seen := make(map[string]bool, len(primary.Rows))
	rows := make([][]any, 0, len(primary.Rows))
	for _, row := range primary.Rows {
		k := keyOf(row[0])
		total, ok := totalByKey[k]
		if !ok {
			return nil, fmt.Errorf("merge other: bucket %s missing from totals: %w", k, ErrKeyMismatch)
		}
		seen[k] = true

		var sub float64
		for _, i := range idx {
			v, _ := ToFloat(row[i])
			sub += v
		}

		out := make([]any, len(row), len(row)+1)
		copy(out, row)
		rows = append(rows, append(out, total-sub))
	}
	for _, row := range totals {
		if k := keyOf(row[0]); !seen[k] {
			return nil, fmt.Errorf("merge other: bucket %s missing from series: %w", k, ErrKeyMismatch)
		}
	}

	cols := make([]domain.Column, len(primary.Columns), len(primary.Columns)+1)
	copy(cols, primary.Columns)
	return &domain.ResultSet{Columns: append(cols, other), Rows: rows}, nil
}

// ToFloat converts a numeric cell to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func keyOf(v any) string {
	if f, ok := ToFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
