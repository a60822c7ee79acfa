package report

import (
	"context"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/reshape"
)

// ServiceHealth runs a service-by-location report and pivots it into one
// row per location. With rgb set, health states become colours.
func (r *Runner) ServiceHealth(ctx context.Context, args *domain.ReportArgs, rgb bool, sink ProgressSink) (*domain.ResultSet, error) {
	tr := newTracker(sink)

	r.log.Info("Running service health report", "start", args.TimeFilter.Start, "end", args.TimeFilter.End)
	rows, err := r.query(ctx, args, 0, 100, tr)
	if err != nil {
		return nil, tr.fail(err)
	}
	tr.advance(StateCompleted)

	rs, err := reshape.ServiceHealth(rows, rgb)
	if err != nil {
		return nil, tr.fail(err)
	}
	tr.advance(StateReshaped)

	r.log.Info("Report returned rows", "rows", rs.Len())
	return rs, nil
}
