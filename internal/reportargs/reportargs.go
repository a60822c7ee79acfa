// Package reportargs turns run criteria plus a table definition into the
// argument bundle a NetProfiler report submission needs.
package reportargs

import (
	"fmt"
	"strings"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/filterexpr"
	"github.com/bitdogg/EOC-NetProfiler/internal/resolution"
)

// Realms supported by the reporting API.
const (
	RealmTrafficSummary     = "traffic_summary"
	RealmTrafficOverallTime = "traffic_overall_time_series"
	RealmTrafficFlowList    = "traffic_flow_list"
	RealmServiceLocation    = "msq"
)

// TableConfig is the static description of a report table.
type TableConfig struct {
	// Realm and Groupby are required.
	Realm   string
	Groupby string

	// Interface selects interface centricity instead of host.
	Interface bool

	// Limit caps the rows the appliance returns; 0 means no cap.
	Limit int

	// Rows truncates the rows kept locally; 0 or negative keeps all.
	Rows int

	Columns []domain.Column
	SortCol string
}

// DeviceResolver looks up configured appliances by name.
type DeviceResolver interface {
	Lookup(name string) (domain.Device, error)
}

// Build validates c and t and produces the report arguments.
//
// No remote call is made. A missing device is reported as
// domain.ErrConfig, an unknown one as domain.ErrDeviceNotFound, and an
// unmappable resolution as domain.ErrUndefinedResolution.
func Build(c domain.Criteria, t TableConfig, devices DeviceResolver) (*domain.ReportArgs, error) {
	name := strings.TrimSpace(c.Device)
	if name == "" {
		return nil, fmt.Errorf("no NetProfiler device selected: %w", domain.ErrConfig)
	}
	dev, err := devices.Lookup(name)
	if err != nil {
		return nil, err
	}

	if t.Realm == "" {
		return nil, fmt.Errorf("table has no realm: %w", domain.ErrConfig)
	}
	groupby := t.Groupby
	if groupby == "" {
		groupby = c.Groupby
	}
	if groupby == "" {
		return nil, fmt.Errorf("table has no groupby: %w", domain.ErrConfig)
	}

	columns := domain.StaticColumnNames(t.Columns)
	if len(columns) == 0 {
		return nil, fmt.Errorf("table has no columns: %w", domain.ErrConfig)
	}

	res, err := resolution.Resolve(c.Resolution)
	if err != nil {
		return nil, err
	}

	centricity := domain.CentricityHost
	if t.Interface {
		centricity = domain.CentricityInterface
	}

	limit := t.Limit
	if limit == 0 {
		limit = c.Limit
	}

	return &domain.ReportArgs{
		Device:      dev.Name,
		Columns:     columns,
		SortCol:     sortColumn(t),
		TimeFilter:  domain.TimeFilter{Start: c.StartTime, End: c.EndTime},
		TrafficExpr: filterexpr.FromCriteria(c),
		DataFilter:  c.DataFilter,
		Resolution:  res,
		Limit:       limit,
		Centricity:  centricity,
		Realm:       t.Realm,
		Groupby:     groupby,
	}, nil
}

func sortColumn(t TableConfig) string {
	if t.SortCol != "" {
		return t.SortCol
	}
	for _, c := range t.Columns {
		if c.IsSortCol {
			return c.Name
		}
	}
	return ""
}
