package report

import (
	"context"
	"testing"
	"time"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/reportargs"
	"github.com/bitdogg/EOC-NetProfiler/internal/reshape"
	"github.com/stretchr/testify/require"
)

var baseArgs = domain.ReportArgs{
	Device:     "np1",
	Resolution: "auto",
	Centricity: domain.CentricityHost,
	TimeFilter: domain.TimeFilter{
		Start: time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	},
}

func TestTable_TruncatesAndTracksLifecycle(t *testing.T) {
	window := domain.TimeFilter{
		Start: time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 5, 1, 11, 58, 0, 0, time.UTC),
	}
	client := newFakeClient(
		domain.ReportStatus{Percent: 30, Status: domain.StatusRunning},
		domain.ReportStatus{Percent: 100, Status: domain.StatusCompleted},
	)
	client.window = window
	client.data = func(*domain.ReportArgs) [][]any {
		return [][]any{{"10.0.0.1", 300.0}, {"10.0.0.2", 200.0}, {"10.0.0.3", 100.0}}
	}
	r := NewRunner(newTestPoller(t, client))
	sink := &recordingSink{}

	args := baseArgs
	args.Realm = reportargs.RealmTrafficSummary
	args.Groupby = "hos"
	args.Columns = []string{"host_ip", "avg_bytes"}
	columns := []domain.Column{
		{Name: "host_ip", IsKey: true},
		{Name: "avg_bytes"},
		{Name: "scratch", Kind: domain.ColumnEphemeral},
	}

	rs, err := r.Table(context.Background(), &args, columns, 2, sink)
	require.NoError(t, err)
	require.Equal(t, []string{"host_ip", "avg_bytes"}, rs.ColumnNames())
	require.Equal(t, [][]any{{"10.0.0.1", 300.0}, {"10.0.0.2", 200.0}}, rs.Rows)

	require.Equal(t, []State{StateSubmitted, StatePolling, StateCompleted, StateReshaped}, sink.states)
	require.Equal(t, []int{30, 100}, sink.progress)
	require.Equal(t, window, sink.window)
	require.NoError(t, sink.err)
}

func TestTable_FailureMarksErrored(t *testing.T) {
	client := newFakeClient(domain.ReportStatus{Status: domain.StatusError})
	r := NewRunner(newTestPoller(t, client))
	sink := &recordingSink{}

	_, err := r.Table(context.Background(), &baseArgs, nil, 0, sink)
	require.ErrorIs(t, err, domain.ErrJobFailed)
	require.ErrorIs(t, sink.err, domain.ErrJobFailed)
	require.Equal(t, []State{StateSubmitted, StatePolling, StateErrored}, sink.states)
}

func TestTable_SubmitFailure(t *testing.T) {
	client := newFakeClient()
	client.submitErr = domain.ErrUnauthorized
	r := NewRunner(newTestPoller(t, client))
	sink := &recordingSink{}

	_, err := r.Table(context.Background(), &baseArgs, nil, 0, sink)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	require.Equal(t, []State{StateErrored}, sink.states)
}

func timeSeriesClient() *fakeClient {
	client := newFakeClient(
		domain.ReportStatus{Percent: 50, Status: domain.StatusRunning},
		domain.ReportStatus{Percent: 100, Status: domain.StatusCompleted},
	)
	client.data = func(args *domain.ReportArgs) [][]any {
		switch {
		case args.Realm == reportargs.RealmTrafficSummary:
			return [][]any{{"tcp|80", 900.0}, {"tcp|443", 500.0}, {"udp|53", 1.0}}
		case len(args.QueryColumns) > 0:
			return [][]any{{1000.0, 10.0, 4.0}, {1060.0, 6.0, 2.0}}
		default:
			return [][]any{{1000.0, 20.0}, {1060.0, 8.0}}
		}
	}
	return client
}

func TestTimeSeries_TopNWithOther(t *testing.T) {
	client := timeSeriesClient()
	r := NewRunner(newTestPoller(t, client))
	sink := &recordingSink{}
	base := domain.Column{Name: "avg_bytes", Label: "Avg Bytes/s", Datatype: domain.DatatypeFloat, Formatter: "bytes"}

	args := baseArgs
	rs, err := r.TimeSeries(context.Background(), &args, TimeSeriesOptions{
		Groupby:      "port",
		BaseColumn:   base,
		TopN:         2,
		IncludeOther: true,
	}, sink)
	require.NoError(t, err)

	require.Len(t, client.submitted, 3)
	topn, series, totals := client.submitted[0], client.submitted[1], client.submitted[2]
	require.Equal(t, []string{"protoport_parts", "avg_bytes"}, topn.Columns)
	require.Equal(t, "avg_bytes", topn.SortCol)
	require.Equal(t, "ports", series.QueryColumnsGroupby)
	require.Equal(t, []map[string]string{{"name": "tcp/80"}, {"name": "tcp/443"}}, series.QueryColumns)
	require.Empty(t, totals.QueryColumns)

	require.Equal(t, []string{"time", "tcp80", "tcp443", "other"}, rs.ColumnNames())
	for _, c := range rs.Columns[1:] {
		require.Equal(t, domain.ColumnEphemeral, c.Kind)
		require.Equal(t, "bytes", c.Formatter)
	}
	require.Equal(t, [][]any{
		{1000.0, 10.0, 4.0, 6.0},
		{1060.0, 6.0, 2.0, 0.0},
	}, rs.Rows)

	// Three reports share the bar in thirds.
	require.Equal(t, []int{16, 33, 49, 66, 82, 99}, sink.progress)
	require.Equal(t, []State{StateSubmitted, StatePolling, StateCompleted, StateReshaped}, sink.states)
}

func TestTimeSeries_ExplicitColumns(t *testing.T) {
	client := timeSeriesClient()
	r := NewRunner(newTestPoller(t, client))

	args := baseArgs
	rs, err := r.TimeSeries(context.Background(), &args, TimeSeriesOptions{
		Groupby:    "application",
		BaseColumn: domain.Column{Name: "avg_bytes"},
		QueryColumns: []domain.QueryColumnDef{
			{Name: "HTTP", Label: "HTTP", JSON: map[string]string{"code": "7"}},
			{Name: "SSH", Label: "SSH", JSON: map[string]string{"code": "22"}},
		},
	}, nil)
	require.NoError(t, err)
	require.Len(t, client.submitted, 1)
	require.Equal(t, "applications", client.submitted[0].QueryColumnsGroupby)
	require.Equal(t, []string{"time", "HTTP", "SSH"}, rs.ColumnNames())
}

func TestTimeSeries_Errors(t *testing.T) {
	r := NewRunner(newTestPoller(t, timeSeriesClient()))
	args := baseArgs

	_, err := r.TimeSeries(context.Background(), &args, TimeSeriesOptions{Groupby: "host"}, nil)
	require.ErrorIs(t, err, domain.ErrConfig)

	_, err = r.TimeSeries(context.Background(), &args, TimeSeriesOptions{Groupby: "port"}, nil)
	require.ErrorIs(t, err, domain.ErrConfig)
}

func TestTimeSeries_OtherKeyMismatch(t *testing.T) {
	client := timeSeriesClient()
	inner := client.data
	client.data = func(args *domain.ReportArgs) [][]any {
		if args.Realm == reportargs.RealmTrafficOverallTime && len(args.QueryColumns) == 0 {
			return [][]any{{1000.0, 20.0}}
		}
		return inner(args)
	}
	r := NewRunner(newTestPoller(t, client))
	sink := &recordingSink{}

	args := baseArgs
	_, err := r.TimeSeries(context.Background(), &args, TimeSeriesOptions{
		Groupby:      "port",
		BaseColumn:   domain.Column{Name: "avg_bytes"},
		TopN:         2,
		IncludeOther: true,
	}, sink)
	require.ErrorIs(t, err, reshape.ErrKeyMismatch)
	require.Equal(t, StateErrored, sink.states[len(sink.states)-1])
}

func TestServiceHealth(t *testing.T) {
	client := newFakeClient()
	client.data = func(*domain.ReportArgs) [][]any {
		return [][]any{{"Seattle", "CRM", "HIGH"}, {"Boston", "CRM", "NORMAL"}}
	}
	r := NewRunner(newTestPoller(t, client))

	args := baseArgs
	args.Realm = reportargs.RealmServiceLocation
	rs, err := r.ServiceHealth(context.Background(), &args, true, nil)
	require.NoError(t, err)
	require.Equal(t, [][]any{{"Seattle", "red"}, {"Boston", "green"}}, rs.Rows)
}
