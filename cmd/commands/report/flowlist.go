package report

import (
	"github.com/bitdogg/EOC-NetProfiler/internal/output"
	"github.com/bitdogg/EOC-NetProfiler/internal/reportargs"
	"github.com/bitdogg/EOC-NetProfiler/internal/util"

	"github.com/spf13/cobra"
)

func FlowListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flowlist",
		Short: "List individual flows",
		Long: `Run a traffic flow list report.

Example:
  nprof report flowlist --trafficexpr "host 10.0.0.1" --limit 50`,
		Args:         cobra.NoArgs,
		RunE:         runFlowList,
		SilenceUsage: true,
	}

	addCriteriaFlags(cmd)
	cmd.Flags().String("columns", "start_time,cli_host_ip,srv_host_ip,protoport_name,total_bytes",
		"Comma-separated columns to request")
	cmd.Flags().String("sort", "", "Column to sort by")
	cmd.Flags().Int("limit", 100, "Maximum flows the appliance returns")

	return cmd
}

func runFlowList(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	c, err := s.criteria(cmd)
	if err != nil {
		return err
	}

	columnsFlag, _ := cmd.Flags().GetString("columns")
	sortCol, _ := cmd.Flags().GetString("sort")
	limit, _ := cmd.Flags().GetInt("limit")

	table := reportargs.TableConfig{
		Realm:   reportargs.RealmTrafficFlowList,
		Groupby: "hos",
		Limit:   limit,
		Columns: reportargs.Columns(util.SplitList(columnsFlag)),
		SortCol: sortCol,
	}
	rargs, err := reportargs.Build(c, table, s.cfg)
	if err != nil {
		return err
	}

	sink, done := s.track(cmd, "flowlist", c)
	defer done()

	rs, err := s.runner.Table(cmd.Context(), rargs, table.Columns, 0, sink)
	if err != nil {
		return err
	}
	return output.Render(cmd.OutOrStdout(), s.format, rs)
}
