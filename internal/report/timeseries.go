package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/reportargs"
	"github.com/bitdogg/EOC-NetProfiler/internal/reshape"
)

// seriesGroup describes how one time-series groupby is queried: the
// plural groupby used for query columns, the key columns requested by the
// top-N summary and the parser for its rows.
type seriesGroup struct {
	groupby string
	columns []string
	parse   reshape.Parser
}

var seriesGroups = map[string]seriesGroup{
	"port":        {groupby: "ports", columns: []string{"protoport_parts"}, parse: reshape.ParsePort},
	"application": {groupby: "applications", columns: []string{"app_name", "app_raw"}, parse: reshape.ParseApp},
}

// SeriesGroupbys lists the groupbys TimeSeries accepts.
func SeriesGroupbys() []string {
	names := make([]string, 0, len(seriesGroups))
	for n := range seriesGroups {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// TimeColumn is the key column of every time-series result.
var TimeColumn = domain.Column{Name: "time", Label: "Time", Datatype: domain.DatatypeTime, IsKey: true}

// TimeSeriesOptions selects the series of a traffic time-series run.
type TimeSeriesOptions struct {
	// Groupby is "port" or "application".
	Groupby string

	// BaseColumn is the metric plotted per series, e.g. avg_bytes.
	BaseColumn domain.Column

	// TopN, when positive, derives the series from a top-N summary report.
	// Otherwise QueryColumns is used as given.
	TopN         int
	QueryColumns []domain.QueryColumnDef

	// IncludeOther adds an "other" series computed from an unfiltered
	// totals report.
	IncludeOther bool
}

// TimeSeries runs up to three reports: an optional top-N summary that picks
// the series, the per-series time-series report, and an optional totals
// report for the "other" series. Progress is split evenly between them.
func (r *Runner) TimeSeries(ctx context.Context, base *domain.ReportArgs, opts TimeSeriesOptions, sink ProgressSink) (*domain.ResultSet, error) {
	tr := newTracker(sink)

	group, ok := seriesGroups[opts.Groupby]
	if !ok {
		return nil, tr.fail(fmt.Errorf("time series not supported for groupby %q: %w", opts.Groupby, domain.ErrConfig))
	}

	numReports := 1
	if opts.TopN > 0 {
		numReports++
	}
	if opts.IncludeOther {
		numReports++
	}
	step := 100 / numReports
	cur := 0

	defs := opts.QueryColumns
	if opts.TopN > 0 {
		args := *base
		args.Realm = reportargs.RealmTrafficSummary
		args.Groupby = opts.Groupby
		args.Columns = append(append([]string(nil), group.columns...), opts.BaseColumn.Name)
		args.SortCol = opts.BaseColumn.Name
		args.Limit = 0

		r.log.Info("Running top-N report", "groupby", opts.Groupby, "n", opts.TopN)
		rows, err := r.query(ctx, &args, 0, step, tr)
		if err != nil {
			return nil, tr.fail(err)
		}
		if defs, err = reshape.TopNColumnDefs(rows, opts.TopN, group.parse); err != nil {
			return nil, tr.fail(err)
		}
		cur++
	}
	if len(defs) == 0 {
		return nil, tr.fail(fmt.Errorf("no series selected for time series: %w", domain.ErrConfig))
	}

	args := *base
	args.Realm = reportargs.RealmTrafficOverallTime
	args.Groupby = "tim"
	args.Columns = []string{TimeColumn.Name, opts.BaseColumn.Name}
	args.QueryColumnsGroupby = group.groupby
	args.QueryColumns = make([]map[string]string, len(defs))
	for i, d := range defs {
		args.QueryColumns[i] = d.JSON
	}

	r.log.Info("Running time-series report", "series", len(defs))
	rows, err := r.query(ctx, &args, cur*step, (cur+1)*step, tr)
	if err != nil {
		return nil, tr.fail(err)
	}
	cur++

	cols := reshape.NewRunColumns()
	names := make([]string, len(defs))
	for i, d := range defs {
		cols.AddLike(d.Name, d.Label, opts.BaseColumn)
		names[i] = d.Name
	}
	rs := &domain.ResultSet{
		Columns: append([]domain.Column{TimeColumn}, cols.Columns()...),
		Rows:    rows,
	}

	if opts.IncludeOther {
		totalArgs := *base
		totalArgs.Realm = reportargs.RealmTrafficOverallTime
		totalArgs.Groupby = "tim"
		totalArgs.Columns = []string{TimeColumn.Name, opts.BaseColumn.Name}

		r.log.Info("Running totals report for other")
		totals, err := r.query(ctx, &totalArgs, cur*step, (cur+1)*step, tr)
		if err != nil {
			return nil, tr.fail(err)
		}

		other := cols.AddLike("other", "Other", opts.BaseColumn)
		if rs, err = reshape.MergeOther(rs, totals, names, other); err != nil {
			return nil, tr.fail(err)
		}
	}
	tr.advance(StateCompleted)
	tr.advance(StateReshaped)

	r.log.Info("Report returned rows", "rows", rs.Len())
	return rs, nil
}
