package history

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/runstore"
	"github.com/bitdogg/EOC-NetProfiler/internal/tui/styles"

	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04:05"

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent report runs",
		Long: `List recent report runs stored locally.

Examples:
  nprof history list
  nprof history list --limit 50
  nprof history list --pending
  nprof history list -o json`,
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of runs to display")
	cmd.Flags().Bool("pending", false, "Only show runs that never finished")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be greater than 0", domain.ErrConfig)
	}
	pending, _ := cmd.Flags().GetBool("pending")
	output, _ := cmd.Flags().GetString("output")
	if output != "table" && output != "json" {
		return fmt.Errorf("%w: unsupported output format %q", domain.ErrConfig, output)
	}

	repo, err := openRuns()
	if err != nil {
		return err
	}
	defer repo.Close()

	var runs []runstore.RunRecord
	if pending {
		runs, err = repo.ListUnfinished()
		if len(runs) > limit {
			runs = runs[:limit]
		}
	} else {
		runs, err = repo.ListRecent(limit)
	}
	if err != nil {
		return err
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No report runs found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tCOMMAND\tDEVICE\tREPORT\tSTATE\tPROGRESS")
	fmt.Fprintln(w, "--\t-------\t-------\t------\t------\t-----\t--------")
	for _, r := range runs {
		report := r.ReportID
		if report == "" {
			report = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%d%%\n",
			r.ID,
			r.CreatedAt.Local().Format(timeLayout),
			r.Command,
			r.Device,
			report,
			styles.StatusIndicator(r.State),
			r.Progress,
		)
	}
	return w.Flush()
}
