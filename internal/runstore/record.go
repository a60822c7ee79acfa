package runstore

import "time"

// RunRecord is one report run as persisted in the local history database.
type RunRecord struct {
	// ID is the auto-increment primary key (assigned on insert).
	ID int64

	// Command names the report, e.g. "traffic-summary" or "wan".
	Command string

	// Device is the configured device name the run targeted.
	Device string

	// ReportID is the appliance-side report id, once submitted.
	ReportID string

	// Criteria is the JSON-encoded domain.Criteria the run was started with.
	Criteria string

	// State is the run lifecycle state (see report.State).
	State string

	// Progress is a percentage (0-100).
	Progress int

	// ErrorMessage explains why the run ended in the errored state.
	ErrorMessage string

	// WindowStart and WindowEnd hold the time window the appliance actually
	// reported on. They are zero until the data has been fetched.
	WindowStart time.Time
	WindowEnd   time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Finished reports whether the run reached a terminal state.
func (r *RunRecord) Finished() bool {
	return r.State == "reshaped" || r.State == "errored"
}
