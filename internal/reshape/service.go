package reshape

import (
	"fmt"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
)

// Service health states reported by the appliance.
const (
	HealthNotAvailable = "N/A"
	HealthDisabled     = "DISABLED"
	HealthInit         = "INIT"
	HealthNormal       = "NORMAL"
	HealthLow          = "LOW"
	HealthMedium       = "MEDIUM"
	HealthHigh         = "HIGH"
	HealthNoData       = "NODATA"
)

// FormatHealth is the formatter name for service health cells.
const FormatHealth = "health"

var healthColors = map[string]string{
	HealthNormal: "green",
	HealthLow:    "yellow",
	HealthMedium: "yellow",
	HealthHigh:   "red",
}

// HealthColor maps a service state to green, yellow, red or gray.
func HealthColor(state string) string {
	if c, ok := healthColors[state]; ok {
		return c
	}
	return "gray"
}

// ServiceHealth pivots [location, service, state] rows into one row per
// location with a column per service, both in first-seen order. Services
// a location does not report show as N/A. With rgb set, states are
// replaced by their colour.
func ServiceHealth(rows [][]any, rgb bool) (*domain.ResultSet, error) {
	if len(rows) == 0 {
		return &domain.ResultSet{}, nil
	}

	cols := NewRunColumns()
	cols.Add("location", "Location", domain.DatatypeString, "")

	var locations []string
	states := make(map[string]map[string]string)
	for _, row := range rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("service row has %d cells, want 3", len(row))
		}
		loc, svc, state := fmt.Sprint(row[0]), fmt.Sprint(row[1]), fmt.Sprint(row[2])
		if _, ok := states[loc]; !ok {
			states[loc] = make(map[string]string)
			locations = append(locations, loc)
		}
		states[loc][svc] = state
		cols.Add(svc, svc, domain.DatatypeString, FormatHealth)
	}

	legend := cols.Columns()
	out := &domain.ResultSet{Columns: legend, Rows: make([][]any, 0, len(locations))}
	for _, loc := range locations {
		row := make([]any, len(legend))
		row[0] = loc
		for i, c := range legend[1:] {
			state, ok := states[loc][c.Name]
			if !ok {
				state = HealthNotAvailable
			}
			if rgb {
				state = HealthColor(state)
			}
			row[i+1] = state
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
