package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/filterexpr"
	"github.com/bitdogg/EOC-NetProfiler/internal/reportargs"
	"github.com/bitdogg/EOC-NetProfiler/internal/reshape"
)

// Direction of WAN traffic relative to the site.
type Direction string

const (
	Inbound  Direction = "inbound"
	Outbound Direction = "outbound"
)

var (
	wanAvgBytes   = domain.Column{Name: "avg_bytes", Label: "Avg Bytes/s", Datatype: domain.DatatypeFloat, Units: "B/s", IsSortCol: true}
	wanTotalBytes = domain.Column{Name: "total_bytes", Label: "Total Bytes", Datatype: domain.DatatypeInteger, Units: "B"}

	// WANSummaryColumns is the legend of a per-device WAN summary.
	WANSummaryColumns = []domain.Column{
		{Name: "device", Label: "Device", Datatype: domain.DatatypeString, IsKey: true},
		wanAvgBytes, wanTotalBytes,
	}

	// WANTimeSeriesColumns is the legend of a WAN time series.
	WANTimeSeriesColumns = []domain.Column{TimeColumn, wanAvgBytes, wanTotalBytes}
)

// WANOptions selects what a WAN run reports on.
type WANOptions struct {
	// DeviceIP is the appliance-visible address of the WAN device. It is
	// used to discover LAN and WAN interfaces when they are not given.
	DeviceIP string

	// LAN and WAN are interface ids ("ip:index").
	LAN []string
	WAN []string

	// TimeSeries selects a time series instead of a per-device summary.
	TimeSeries bool

	Inbound  bool
	Outbound bool
	Combined bool
}

// WANResult holds the tables a WAN run produced. Unrequested ones are nil.
type WANResult struct {
	Inbound  *domain.ResultSet
	Outbound *domain.ResultSet
	Combined *domain.ResultSet
}

// WAN runs the directional traffic reports of a WAN link, discovering its
// interfaces first when opts names only the device.
func (r *Runner) WAN(ctx context.Context, base *domain.ReportArgs, opts WANOptions, sink ProgressSink) (*WANResult, error) {
	tr := newTracker(sink)

	if !opts.Inbound && !opts.Outbound && !opts.Combined {
		return nil, tr.fail(fmt.Errorf("choose at least one of inbound, outbound or combined: %w", domain.ErrConfig))
	}
	discover := len(opts.LAN) == 0 || len(opts.WAN) == 0
	if discover && opts.DeviceIP == "" {
		return nil, tr.fail(fmt.Errorf("a device address or both LAN and WAN interfaces are required: %w", domain.ErrConfig))
	}

	wantIn := opts.Inbound || opts.Combined
	wantOut := opts.Outbound || opts.Combined
	numReports := 0
	for _, b := range []bool{discover, wantIn, wantOut} {
		if b {
			numReports++
		}
	}
	step := 100 / numReports
	cur := 0

	lan, wan := opts.LAN, opts.WAN
	if discover {
		var err error
		lan, wan, err = r.wanInterfaces(ctx, base, opts.DeviceIP, 0, step, tr)
		if err != nil {
			return nil, tr.fail(err)
		}
		cur++
	}

	columns, key := WANSummaryColumns, "device"
	if opts.TimeSeries {
		columns, key = WANTimeSeriesColumns, TimeColumn.Name
	}

	res := &WANResult{}
	run := func(dir Direction) (*domain.ResultSet, error) {
		args := wanArgs(base, opts.TimeSeries, dir, lan, wan)
		r.log.Info("Running WAN report", "direction", dir, "lan", lan, "wan", wan)
		rows, err := r.query(ctx, args, cur*step, (cur+1)*step, tr)
		cur++
		if err != nil {
			return nil, err
		}
		return &domain.ResultSet{Columns: columns, Rows: rows}, nil
	}

	var in, out *domain.ResultSet
	var err error
	if wantIn {
		if in, err = run(Inbound); err != nil {
			return nil, tr.fail(err)
		}
	}
	if wantOut {
		if out, err = run(Outbound); err != nil {
			return nil, tr.fail(err)
		}
	}
	tr.advance(StateCompleted)

	if opts.Inbound {
		res.Inbound = in
	}
	if opts.Outbound {
		res.Outbound = out
	}
	if opts.Combined {
		if res.Combined, err = reshape.CombineDirections(in, out, key); err != nil {
			return nil, tr.fail(err)
		}
	}
	tr.advance(StateReshaped)
	return res, nil
}

// wanInterfaces runs an interface summary for deviceIP and splits the
// interfaces by name into LAN and WAN.
func (r *Runner) wanInterfaces(ctx context.Context, base *domain.ReportArgs, deviceIP string, minPct, maxPct int, tr *tracker) (lan, wan []string, err error) {
	args := *base
	args.Realm = reportargs.RealmTrafficSummary
	args.Groupby = "ifc"
	args.Centricity = domain.CentricityInterface
	args.Columns = []string{"interface_dns", "interface"}
	args.SortCol = ""
	args.Limit = 0
	args.TrafficExpr = filterexpr.Combine("device "+deviceIP, base.TrafficExpr)

	r.log.Info("Discovering WAN interfaces", "device", deviceIP)
	rows, err := r.query(ctx, &args, minPct, maxPct, tr)
	if err != nil {
		return nil, nil, err
	}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		name := strings.ToLower(fmt.Sprint(row[0]))
		addr := fmt.Sprint(row[1])
		switch {
		case strings.Contains(name, "lan"):
			lan = append(lan, addr)
		case strings.Contains(name, "wan"):
			wan = append(wan, addr)
		}
	}
	if len(lan) == 0 || len(wan) == 0 {
		return nil, nil, fmt.Errorf("could not identify LAN and WAN interfaces of device %s (found %d LAN, %d WAN): %w",
			deviceIP, len(lan), len(wan), domain.ErrConfig)
	}
	r.log.Debug("Discovered WAN interfaces", "lan", lan, "wan", wan)
	return lan, wan, nil
}

// wanArgs builds the report for one direction. Inbound traffic enters on a
// WAN interface and leaves on a LAN one; outbound is the reverse.
func wanArgs(base *domain.ReportArgs, timeSeries bool, dir Direction, lan, wan []string) *domain.ReportArgs {
	args := *base
	args.Centricity = domain.CentricityInterface
	args.Resolution = "auto"
	args.Limit = 0
	args.SortCol = ""
	if timeSeries {
		args.Realm = reportargs.RealmTrafficOverallTime
		args.Groupby = "tim"
		args.Columns = domain.StaticColumnNames(WANTimeSeriesColumns)
	} else {
		args.Realm = reportargs.RealmTrafficSummary
		args.Groupby = "dev"
		args.Columns = domain.StaticColumnNames(WANSummaryColumns)
		args.SortCol = wanAvgBytes.Name
	}

	from, to := wan, lan
	if dir == Outbound {
		from, to = lan, wan
	}
	args.TrafficExpr = filterexpr.Combine(
		"inbound interface "+strings.Join(from, ","),
		"outbound interface "+strings.Join(to, ","),
		base.TrafficExpr,
	)
	return &args
}
