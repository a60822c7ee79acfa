package report

import (
	"fmt"
	"strings"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/output"
	"github.com/bitdogg/EOC-NetProfiler/internal/reportargs"
	"github.com/bitdogg/EOC-NetProfiler/internal/util"

	"github.com/spf13/cobra"
)

func TrafficSummaryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "traffic-summary",
		Short: "Summarise traffic grouped by host, port, application or interface",
		Long: `Run a traffic summary report.

Examples:
  nprof report traffic-summary --columns host_ip,avg_bytes,total_bytes
  nprof report traffic-summary --groupby port --columns protoport_name,avg_bytes \
      --timefilter "last 15 min" --trafficexpr "host 10.0.0.1" --rows 10`,
		Args:         cobra.NoArgs,
		RunE:         runTrafficSummary,
		SilenceUsage: true,
	}

	addCriteriaFlags(cmd)
	cmd.Flags().String("columns", "host_ip,avg_bytes,total_bytes", "Comma-separated columns to request")
	cmd.Flags().String("groupby", "host", "Group rows by: host, port, application, interface, ...")
	cmd.Flags().String("centricity", "host", "Centricity: host or interface")
	cmd.Flags().String("sort", "", "Column to sort by (default: first sortable column)")
	cmd.Flags().Int("limit", 0, "Maximum rows the appliance returns (0 for no limit)")
	cmd.Flags().Int("rows", 0, "Keep only the first N rows (0 keeps all)")

	return cmd
}

func runTrafficSummary(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	c, err := s.criteria(cmd)
	if err != nil {
		return err
	}

	interfaceCentric, err := parseCentricity(cmd)
	if err != nil {
		return err
	}
	columnsFlag, _ := cmd.Flags().GetString("columns")
	groupby, _ := cmd.Flags().GetString("groupby")
	sortCol, _ := cmd.Flags().GetString("sort")
	limit, _ := cmd.Flags().GetInt("limit")
	rows, _ := cmd.Flags().GetInt("rows")

	table := reportargs.TableConfig{
		Realm:     reportargs.RealmTrafficSummary,
		Groupby:   groupby,
		Interface: interfaceCentric,
		Limit:     limit,
		Rows:      rows,
		Columns:   reportargs.Columns(util.SplitList(columnsFlag)),
		SortCol:   sortCol,
	}
	rargs, err := reportargs.Build(c, table, s.cfg)
	if err != nil {
		return err
	}

	sink, done := s.track(cmd, "traffic-summary", c)
	defer done()

	rs, err := s.runner.Table(cmd.Context(), rargs, table.Columns, table.Rows, sink)
	if err != nil {
		return err
	}
	return output.Render(cmd.OutOrStdout(), s.format, rs)
}

func parseCentricity(cmd *cobra.Command) (bool, error) {
	v, _ := cmd.Flags().GetString("centricity")
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "host", domain.CentricityHost:
		return false, nil
	case "interface", domain.CentricityInterface:
		return true, nil
	default:
		return false, fmt.Errorf("%w: unknown centricity %q (valid: host, interface)", domain.ErrConfig, v)
	}
}
