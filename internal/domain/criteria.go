package domain

import "time"

// ResolutionAuto lets the appliance pick the time-bucket size.
const ResolutionAuto = "auto"

// Criteria is the caller-supplied description of what to report on.
//
// A run treats Criteria as read-only except for StartTime and EndTime,
// which are replaced by the appliance's actual window once the job
// completes.
type Criteria struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// Device is the configured name of the NetProfiler appliance.
	Device string `json:"device"`

	// FilterExpr is the primary traffic filter expression.
	FilterExpr string `json:"filterexpr,omitempty"`

	// Resolution is "auto", a count of seconds ("60") or a duration
	// string ("1min", "15 min", "hour", "1d").
	Resolution string `json:"resolution,omitempty"`

	Limit   int    `json:"limit,omitempty"`
	Groupby string `json:"groupby,omitempty"`

	// DataFilter holds appliance data filters such as "pct_utilization > 0".
	DataFilter []string `json:"data_filter,omitempty"`

	// SubFilters are named parent expressions ANDed onto FilterExpr in
	// SubFilterOrder order.
	SubFilters     map[string]string `json:"sub_filters,omitempty"`
	SubFilterOrder []string          `json:"sub_filter_order,omitempty"`

	// QueryColumns drives time-series reports; each entry becomes one
	// ephemeral result column.
	QueryColumns []QueryColumnDef `json:"query_columns,omitempty"`
}

// AddSubFilter appends a named parent expression, replacing an existing
// entry with the same name in place.
func (c *Criteria) AddSubFilter(name, expr string) {
	if c.SubFilters == nil {
		c.SubFilters = make(map[string]string)
	}
	if _, ok := c.SubFilters[name]; !ok {
		c.SubFilterOrder = append(c.SubFilterOrder, name)
	}
	c.SubFilters[name] = expr
}

// Duration returns the length of the requested window.
func (c Criteria) Duration() time.Duration {
	return c.EndTime.Sub(c.StartTime)
}

// QueryColumnDef describes one series of a time-series report.
type QueryColumnDef struct {
	Name  string `json:"name"`
	Label string `json:"label"`

	// JSON holds the appliance-specific selector (e.g. {"code": "80"})
	// used to build the series filter.
	JSON map[string]string `json:"json,omitempty"`
}
