package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/output"
	"github.com/bitdogg/EOC-NetProfiler/internal/report"
	"github.com/bitdogg/EOC-NetProfiler/internal/reportargs"
	"github.com/bitdogg/EOC-NetProfiler/internal/tui/components"

	"github.com/spf13/cobra"
)

const chartWidth = 80

func TimeSeriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeseries",
		Short: "Plot traffic over time per port or application",
		Long: `Run a traffic time series with one series per port or application.

The series are either the top N by the base column over the same window,
or given explicitly as JSON. --include-other adds the remaining traffic.

Examples:
  nprof report timeseries --groupby port --top-n 5 --include-other --chart
  nprof report timeseries --groupby application \
      --query-columns '[{"name":"HTTP","label":"HTTP","json":{"code":"7"}}]'`,
		Args:         cobra.NoArgs,
		RunE:         runTimeSeries,
		SilenceUsage: true,
	}

	addCriteriaFlags(cmd)
	cmd.Flags().String("base-column", "avg_bytes", "Metric plotted per series")
	cmd.Flags().String("groupby", "port", "Series groupby: "+strings.Join(report.SeriesGroupbys(), " or "))
	cmd.Flags().Int("top-n", 0, "Derive the series from the top N by the base column")
	cmd.Flags().String("query-columns", "", "Explicit series as a JSON list of {name, label, json}")
	cmd.Flags().Bool("include-other", false, "Add an \"other\" series for the remaining traffic")
	cmd.Flags().Bool("chart", false, "Draw a chart instead of printing the rows")

	return cmd
}

func runTimeSeries(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	c, err := s.criteria(cmd)
	if err != nil {
		return err
	}

	baseName, _ := cmd.Flags().GetString("base-column")
	groupby, _ := cmd.Flags().GetString("groupby")
	topN, _ := cmd.Flags().GetInt("top-n")
	qcFlag, _ := cmd.Flags().GetString("query-columns")
	includeOther, _ := cmd.Flags().GetBool("include-other")
	chart, _ := cmd.Flags().GetBool("chart")

	if topN <= 0 && strings.TrimSpace(qcFlag) == "" {
		return fmt.Errorf("%w: either --top-n or --query-columns is required", domain.ErrConfig)
	}
	if strings.TrimSpace(qcFlag) != "" {
		if err := json.Unmarshal([]byte(qcFlag), &c.QueryColumns); err != nil {
			return fmt.Errorf("%w: invalid --query-columns: %w", domain.ErrConfig, err)
		}
	}
	c.Groupby = groupby

	baseCols := reportargs.Columns([]string{baseName})
	if len(baseCols) == 0 {
		return fmt.Errorf("%w: --base-column is required", domain.ErrConfig)
	}
	base := baseCols[0]

	rargs, err := reportargs.Build(c, reportargs.TableConfig{
		Realm:   reportargs.RealmTrafficOverallTime,
		Groupby: "tim",
		Columns: []domain.Column{report.TimeColumn, base},
	}, s.cfg)
	if err != nil {
		return err
	}

	sink, done := s.track(cmd, "timeseries", c)
	defer done()

	rs, err := s.runner.TimeSeries(cmd.Context(), rargs, report.TimeSeriesOptions{
		Groupby:      groupby,
		BaseColumn:   base,
		TopN:         topN,
		QueryColumns: c.QueryColumns,
		IncludeOther: includeOther,
	}, sink)
	if err != nil {
		return err
	}

	if chart {
		_, err := fmt.Fprintln(cmd.OutOrStdout(),
			components.SeriesChart(base.Label, components.SeriesFromResult(rs), chartWidth, base.Units))
		return err
	}
	return output.Render(cmd.OutOrStdout(), s.format, rs)
}
