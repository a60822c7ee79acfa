package runstore

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/report"
)

var (
	_ report.ProgressSink   = (*Recorder)(nil)
	_ report.SubmitObserver = (*Recorder)(nil)
)

// Recorder persists a run's progress as it happens. Save failures are
// logged and otherwise ignored so that history never fails a report.
type Recorder struct {
	repo   Repository
	record *RunRecord
	log    *slog.Logger
}

// Start inserts a new run record for command on device and returns a
// recorder for it.
func Start(repo Repository, command, device string, criteria domain.Criteria, log *slog.Logger) (*Recorder, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	raw, err := json.Marshal(criteria)
	if err != nil {
		return nil, fmt.Errorf("runs: encoding criteria: %w", err)
	}
	record := &RunRecord{Command: command, Device: device, Criteria: string(raw)}
	if err := repo.Save(record); err != nil {
		return nil, err
	}
	return &Recorder{repo: repo, record: record, log: log}, nil
}

// Record returns the tracked run.
func (r *Recorder) Record() *RunRecord { return r.record }

func (r *Recorder) Submitted(h *domain.ReportHandle) {
	r.record.ReportID = h.ID
	r.save()
}

func (r *Recorder) Progress(pct int) {
	if pct == r.record.Progress {
		return
	}
	r.record.Progress = pct
	r.save()
}

func (r *Recorder) Fail(err error) {
	r.record.ErrorMessage = err.Error()
	r.save()
}

// UpdateCriteria stores the window the appliance actually covered and
// rewrites the saved criteria to match it.
func (r *Recorder) UpdateCriteria(window domain.TimeFilter) {
	r.record.WindowStart = window.Start
	r.record.WindowEnd = window.End

	var c domain.Criteria
	if err := json.Unmarshal([]byte(r.record.Criteria), &c); err == nil {
		c.StartTime = window.Start
		c.EndTime = window.End
		if raw, err := json.Marshal(c); err == nil {
			r.record.Criteria = string(raw)
		}
	}
	r.save()
}

func (r *Recorder) Transition(s report.State) {
	r.record.State = string(s)
	if s == report.StateReshaped {
		r.record.Progress = 100
	}
	r.save()
}

func (r *Recorder) save() {
	if err := r.repo.Save(r.record); err != nil {
		r.log.Warn("Failed to save run history", "id", r.record.ID, "error", err)
	}
}
