package reshape

import (
	"fmt"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
)

// CombineDirections sums two result sets with the same legend, aligning
// rows on the key column. Numeric cells are added; other cells come from
// inbound. Buckets present only in outbound are appended in their order.
func CombineDirections(inbound, outbound *domain.ResultSet, key string) (*domain.ResultSet, error) {
	if len(inbound.Columns) != len(outbound.Columns) {
		return nil, fmt.Errorf("combine: legends differ (%d vs %d columns)", len(inbound.Columns), len(outbound.Columns))
	}
	for i, c := range inbound.Columns {
		if outbound.Columns[i].Name != c.Name {
			return nil, fmt.Errorf("combine: column %d is %q inbound but %q outbound", i, c.Name, outbound.Columns[i].Name)
		}
	}
	ki := inbound.ColumnIndex(key)
	if ki < 0 {
		return nil, fmt.Errorf("combine: unknown key column %q", key)
	}

	out := &domain.ResultSet{Columns: inbound.Columns, Rows: make([][]any, 0, len(inbound.Rows))}
	pos := make(map[string]int, len(inbound.Rows))
	for _, row := range inbound.Rows {
		pos[keyOf(row[ki])] = len(out.Rows)
		out.Rows = append(out.Rows, append([]any(nil), row...))
	}

	for _, row := range outbound.Rows {
		i, ok := pos[keyOf(row[ki])]
		if !ok {
			out.Rows = append(out.Rows, append([]any(nil), row...))
			continue
		}
		dst := out.Rows[i]
		for c := range dst {
			if c == ki {
				continue
			}
			a, aok := ToFloat(dst[c])
			b, bok := ToFloat(row[c])
			if aok && bok {
				dst[c] = a + b
			}
		}
	}
	return out, nil
}
