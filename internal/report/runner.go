package report

import (
	"context"
	"log/slog"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/reshape"
)

// Runner executes report runs on the calling goroutine.
type Runner struct {
	poller *Poller
	log    *slog.Logger
}

// NewRunner returns a runner backed by p.
func NewRunner(p *Poller) *Runner {
	return &Runner{poller: p, log: p.log}
}

// Table runs a single-query report and returns its rows under the static
// column legend, truncated to rows when rows > 0.
func (r *Runner) Table(ctx context.Context, args *domain.ReportArgs, columns []domain.Column, rows int, sink ProgressSink) (*domain.ResultSet, error) {
	tr := newTracker(sink)

	r.log.Info("Running report", "realm", args.Realm, "groupby", args.Groupby,
		"start", args.TimeFilter.Start, "end", args.TimeFilter.End)

	data, err := r.query(ctx, args, 0, 100, tr)
	if err != nil {
		return nil, tr.fail(err)
	}
	tr.advance(StateCompleted)

	legend := make([]domain.Column, 0, len(columns))
	for _, c := range columns {
		if !c.Ephemeral() {
			legend = append(legend, c)
		}
	}
	rs := reshape.Truncate(&domain.ResultSet{Columns: legend, Rows: data}, rows)
	tr.advance(StateReshaped)

	r.log.Info("Report returned rows", "rows", rs.Len())
	return rs, nil
}

// query submits args, waits for completion and collects the rows,
// publishing progress in [minPct, maxPct].
func (r *Runner) query(ctx context.Context, args *domain.ReportArgs, minPct, maxPct int, tr *tracker) ([][]any, error) {
	h, err := r.poller.Submit(ctx, args)
	if err != nil {
		return nil, err
	}
	if o, ok := tr.sink.(SubmitObserver); ok {
		o.Submitted(h)
	}
	tr.advance(StateSubmitted)

	tr.advance(StatePolling)
	if err := r.poller.Wait(ctx, h, minPct, maxPct, tr.sink); err != nil {
		return nil, err
	}

	data, _, err := r.poller.Collect(ctx, h, args.Columns, tr.sink)
	return data, err
}

// tracker moves a run through its lifecycle, forwarding each accepted
// transition to the sink. Runs with several sub-reports revisit submit and
// poll; those repeats are ignored.
type tracker struct {
	state State
	sink  ProgressSink
}

func newTracker(sink ProgressSink) *tracker {
	if sink == nil {
		sink = NopSink{}
	}
	return &tracker{sink: sink}
}

func (t *tracker) advance(s State) {
	next, err := t.state.Next(s)
	if err != nil {
		return
	}
	t.state = next
	t.sink.Transition(next)
}

func (t *tracker) fail(err error) error {
	t.sink.Fail(err)
	t.advance(StateErrored)
	return err
}
