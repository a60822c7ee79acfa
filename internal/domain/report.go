package domain

import (
	"context"
	"time"
)

// Report job statuses as returned by the appliance.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Centricity values accepted by the appliance.
const (
	CentricityHost      = "hos"
	CentricityInterface = "int"
)

// TimeFilter is the window a report covers.
type TimeFilter struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ReportArgs bundles everything a single report submission needs.
// It is built once per run and never mutated afterwards.
type ReportArgs struct {
	// Device is the configured device name the report runs against.
	Device string `json:"device"`

	Columns     []string   `json:"columns"`
	SortCol     string     `json:"sort_col,omitempty"`
	TimeFilter  TimeFilter `json:"timefilter"`
	TrafficExpr string     `json:"trafficexpr,omitempty"`
	DataFilter  []string   `json:"data_filter,omitempty"`
	Resolution  string     `json:"resolution"`
	Limit       int        `json:"limit,omitempty"`
	Centricity  string     `json:"centricity"`
	Realm       string     `json:"realm"`
	Groupby     string     `json:"groupby"`

	// QueryColumnsGroupby and QueryColumns select per-series filters for
	// traffic time-series reports ("ports" / [{"name": "tcp/80"}]).
	QueryColumnsGroupby string              `json:"query_columns_groupby,omitempty"`
	QueryColumns        []map[string]string `json:"query_columns,omitempty"`
}

// ReportHandle identifies a submitted report job on the appliance.
// A handle is bound to exactly one ReportArgs and polled by one poller.
type ReportHandle struct {
	ID      string
	QueryID string
	Args    *ReportArgs
}

// ReportStatus is a snapshot of a running job.
type ReportStatus struct {
	Percent float64 `json:"percent"`
	Status  string  `json:"status"`
}

// Done reports whether the job has completed successfully.
func (s ReportStatus) Done() bool { return s.Status == StatusCompleted }

// ReportClient is the remote API a report run needs. Implementations are
// not required to be safe for concurrent use; callers serialize access
// through a report gate.
type ReportClient interface {
	// Submit creates a report job on the appliance.
	Submit(ctx context.Context, args *ReportArgs) (*ReportHandle, error)

	// Status returns the job's current completion state.
	Status(ctx context.Context, h *ReportHandle) (*ReportStatus, error)

	// Data returns the job's rows for the requested columns.
	Data(ctx context.Context, h *ReportHandle, columns []string) ([][]any, error)

	// ActualWindow returns the time window the appliance actually covered,
	// which may differ from the requested one.
	ActualWindow(ctx context.Context, h *ReportHandle) (TimeFilter, error)
}
