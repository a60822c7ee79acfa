package report

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/bitdogg/EOC-NetProfiler/internal/cache"
	"github.com/bitdogg/EOC-NetProfiler/internal/config"
	"github.com/bitdogg/EOC-NetProfiler/internal/devices"
	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/logging"
	"github.com/bitdogg/EOC-NetProfiler/internal/netprofiler"
	"github.com/bitdogg/EOC-NetProfiler/internal/output"
	"github.com/bitdogg/EOC-NetProfiler/internal/report"
	"github.com/bitdogg/EOC-NetProfiler/internal/runstore"
	"github.com/bitdogg/EOC-NetProfiler/internal/services/auth"
	"github.com/bitdogg/EOC-NetProfiler/internal/timefilter"
	"github.com/bitdogg/EOC-NetProfiler/internal/tui/components"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// gate serialises every appliance call made by this process.
var gate = report.NewGate()

// Hooks replaced in tests.
var (
	newManager = func(cfg *config.Config) *devices.Manager {
		return devices.NewManager(cfg, auth.DefaultStore(), cache.NewDefault())
	}
	openRuns = func() (runstore.Repository, error) { return runstore.Open() }
	now      = time.Now
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run NetProfiler traffic reports",
		Long: `Run reports on a NetProfiler appliance and print the results.

Each report is submitted to the appliance, polled until complete and then
fetched. Progress is printed to stderr; results go to stdout. Every run is
recorded in the local history (see 'nprof history').`,
		PersistentPreRunE: resolveDevice,
	}

	cmd.AddCommand(TrafficSummaryCommand())
	cmd.AddCommand(FlowListCommand())
	cmd.AddCommand(TimeSeriesCommand())
	cmd.AddCommand(WANCommand())
	cmd.AddCommand(ServiceHealthCommand())

	cmd.PersistentFlags().String("device", "", "NetProfiler device to query (overrides default)")

	return cmd
}

// resolveDevice fills --device from $NPROF_DEVICE or the configured default
// when it was not passed explicitly.
func resolveDevice(cmd *cobra.Command, args []string) error {
	flag := cmd.Flag("device")
	if flag.Changed {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if name := cfg.ResolveDevice(""); name != "" {
		return flag.Value.Set(name)
	}
	return fmt.Errorf("no device specified: use --device or set a default with 'nprof config set default-device <name>': %w", domain.ErrConfig)
}

// addCriteriaFlags registers the flags shared by every report.
func addCriteriaFlags(cmd *cobra.Command) {
	cmd.Flags().String("timefilter", "", `Time range to analyze (default "last 1 hour" or the configured default-timefilter)`)
	cmd.Flags().String("trafficexpr", "", "Traffic filter expression, e.g. \"host 10.0.0.1\"")
	cmd.Flags().String("resolution", domain.ResolutionAuto, "Data resolution: auto, 1min, 15min, hour, 6hour, day, week")
	cmd.Flags().String("format", "", "Output format: table, csv or json (default table or the configured default-format)")
	cmd.Flags().Bool("csv", false, "Shorthand for --format csv")
	cmd.MarkFlagsMutuallyExclusive("csv", "format")
}

// session is everything one report command needs.
type session struct {
	cfg    *config.Config
	device string
	client *netprofiler.Client
	runner *report.Runner
	log    *slog.Logger
	format string
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	log := logging.New(cmd.ErrOrStderr(), verbose)

	device, _ := cmd.Flags().GetString("device")
	client, err := newManager(cfg).Client(device)
	if err != nil {
		return nil, err
	}

	poller, err := report.NewPoller(report.Config{Client: client, Gate: gate, Logger: log})
	if err != nil {
		return nil, err
	}

	format, _ := cmd.Flags().GetString("format")
	if asCSV, _ := cmd.Flags().GetBool("csv"); asCSV {
		format = output.FormatCSV
	}
	if format == "" {
		format = cfg.DefaultFormat
	}
	if format != "" {
		if err := config.ValidateFormat(format); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrConfig, err)
		}
	}

	return &session{
		cfg:    cfg,
		device: client.Device().Name,
		client: client,
		runner: report.NewRunner(poller),
		log:    log,
		format: format,
	}, nil
}

// criteria builds run criteria from the shared flags.
func (s *session) criteria(cmd *cobra.Command) (domain.Criteria, error) {
	tf, _ := cmd.Flags().GetString("timefilter")
	if strings.TrimSpace(tf) == "" {
		tf = s.cfg.DefaultTimeFilter
	}
	if strings.TrimSpace(tf) == "" {
		tf = timefilter.Default
	}
	window, err := timefilter.Parse(tf, now())
	if err != nil {
		return domain.Criteria{}, fmt.Errorf("%w: %w", domain.ErrConfig, err)
	}

	expr, _ := cmd.Flags().GetString("trafficexpr")
	res, _ := cmd.Flags().GetString("resolution")

	return domain.Criteria{
		StartTime:  window.Start,
		EndTime:    window.End,
		Device:     s.device,
		FilterExpr: strings.TrimSpace(expr),
		Resolution: res,
	}, nil
}

// banner prints a header above table output on a terminal.
func (s *session) banner(cmd *cobra.Command, command string, c domain.Criteria) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) || (s.format != "" && s.format != output.FormatTable) {
		return
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		width = 80
	}
	window := c.StartTime.Local().Format("15:04") + " to " + c.EndTime.Local().Format("15:04")
	fmt.Fprintln(cmd.OutOrStdout(), components.Header(width, command, s.device+"  "+window))
}

// track returns the sink for a run: progress lines on stderr plus the run
// history. The returned func closes the history.
func (s *session) track(cmd *cobra.Command, command string, c domain.Criteria) (report.ProgressSink, func()) {
	s.banner(cmd, command, c)

	sinks := report.MultiSink{report.NewWriterSink(cmd.ErrOrStderr())}

	repo, err := openRuns()
	if err != nil {
		s.log.Warn("Run history unavailable", "error", err)
		return sinks, func() {}
	}
	rec, err := runstore.Start(repo, command, s.device, c, s.log)
	if err != nil {
		s.log.Warn("Failed to record run", "error", err)
		repo.Close()
		return sinks, func() {}
	}
	return append(sinks, rec), func() { repo.Close() }
}
