package reshape

import (
	"fmt"
	"strings"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
)

// Parser converts one top-N summary row into a time-series column
// definition.
type Parser func(row []any) (domain.QueryColumnDef, error)

// ParsePort parses a [protoport_parts, ...] row such as "tcp|80" into
// name "tcp80", label "tcp/80".
func ParsePort(row []any) (domain.QueryColumnDef, error) {
	if len(row) == 0 {
		return domain.QueryColumnDef{}, fmt.Errorf("empty port row")
	}
	parts := fmt.Sprint(row[0])
	proto, port, ok := strings.Cut(parts, "|")
	if !ok {
		return domain.QueryColumnDef{}, fmt.Errorf("malformed protoport %q", parts)
	}
	label := proto + "/" + port
	return domain.QueryColumnDef{
		Name:  proto + port,
		Label: label,
		JSON:  map[string]string{"name": label},
	}, nil
}

// ParseApp parses an [app_name, app_raw, ...] row.
func ParseApp(row []any) (domain.QueryColumnDef, error) {
	if len(row) < 2 {
		return domain.QueryColumnDef{}, fmt.Errorf("application row has %d cells, want 2", len(row))
	}
	name := fmt.Sprint(row[0])
	return domain.QueryColumnDef{
		Name:  name,
		Label: name,
		JSON:  map[string]string{"code": fmt.Sprint(row[1])},
	}, nil
}

// TopNColumnDefs derives column definitions from the first n rows of a
// top-N summary.
func TopNColumnDefs(rows [][]any, n int, parse Parser) ([]domain.QueryColumnDef, error) {
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	defs := make([]domain.QueryColumnDef, 0, len(rows))
	for _, row := range rows {
		d, err := parse(row)
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, nil
}
