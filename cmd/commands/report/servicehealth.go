package report

import (
	"github.com/bitdogg/EOC-NetProfiler/internal/output"
	"github.com/bitdogg/EOC-NetProfiler/internal/reportargs"

	"github.com/spf13/cobra"
)

// serviceHealthColumns are requested from the service-location realm, one
// row per location and service.
var serviceHealthColumns = []string{"location", "service", "state"}

func ServiceHealthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service-health",
		Short: "Show service health per location",
		Long: `Run a service-by-location report and print one row per location with
a column per service.

Example:
  nprof report service-health --timefilter "last 15 min" --rgb`,
		Args:         cobra.NoArgs,
		RunE:         runServiceHealth,
		SilenceUsage: true,
	}

	addCriteriaFlags(cmd)
	cmd.Flags().Bool("rgb", false, "Print health as green/yellow/red/gray instead of the raw state")

	return cmd
}

func runServiceHealth(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	c, err := s.criteria(cmd)
	if err != nil {
		return err
	}
	rgb, _ := cmd.Flags().GetBool("rgb")

	table := reportargs.TableConfig{
		Realm:   reportargs.RealmServiceLocation,
		Groupby: "slm",
		Columns: reportargs.Columns(serviceHealthColumns),
	}
	rargs, err := reportargs.Build(c, table, s.cfg)
	if err != nil {
		return err
	}

	sink, done := s.track(cmd, "service-health", c)
	defer done()

	rs, err := s.runner.ServiceHealth(cmd.Context(), rargs, rgb, sink)
	if err != nil {
		return err
	}
	return output.Render(cmd.OutOrStdout(), s.format, rs)
}
