package report

import (
	"fmt"
	"io"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
)

// ProgressSink receives fire-and-forget updates about a run. Implementations
// must not block and cannot fail the run.
type ProgressSink interface {
	// Progress publishes overall completion in percent.
	Progress(pct int)

	// Fail records the error that ended the run.
	Fail(err error)

	// UpdateCriteria publishes the window the appliance actually covered.
	UpdateCriteria(window domain.TimeFilter)

	// Transition records a lifecycle change.
	Transition(s State)
}

// SubmitObserver is implemented by sinks that want the appliance handle of
// each submitted job.
type SubmitObserver interface {
	Submitted(h *domain.ReportHandle)
}

// NopSink discards every update.
type NopSink struct{}

func (NopSink) Progress(int)                     {}
func (NopSink) Fail(error)                       {}
func (NopSink) UpdateCriteria(domain.TimeFilter) {}
func (NopSink) Transition(State)                 {}

// WriterSink prints progress lines to w, skipping repeats.
type WriterSink struct {
	w    io.Writer
	last int
}

// NewWriterSink returns a sink writing to w (typically stderr).
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w, last: -1}
}

func (s *WriterSink) Progress(pct int) {
	if pct == s.last {
		return
	}
	s.last = pct
	fmt.Fprintf(s.w, "  Progress: %d%%\n", pct)
}

func (s *WriterSink) Fail(err error) {
	fmt.Fprintf(s.w, "  Failed: %v\n", err)
}

func (s *WriterSink) UpdateCriteria(window domain.TimeFilter) {
	fmt.Fprintf(s.w, "  Actual window: %s to %s\n",
		window.Start.Format("2006-01-02 15:04:05"), window.End.Format("2006-01-02 15:04:05"))
}

func (s *WriterSink) Transition(State) {}

// MultiSink fans updates out to several sinks in order.
type MultiSink []ProgressSink

func (m MultiSink) Progress(pct int) {
	for _, s := range m {
		s.Progress(pct)
	}
}

func (m MultiSink) Fail(err error) {
	for _, s := range m {
		s.Fail(err)
	}
}

func (m MultiSink) UpdateCriteria(window domain.TimeFilter) {
	for _, s := range m {
		s.UpdateCriteria(window)
	}
}

func (m MultiSink) Transition(st State) {
	for _, s := range m {
		s.Transition(st)
	}
}

func (m MultiSink) Submitted(h *domain.ReportHandle) {
	for _, s := range m {
		if o, ok := s.(SubmitObserver); ok {
			o.Submitted(h)
		}
	}
}
