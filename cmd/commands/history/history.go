package history

import (
	"github.com/bitdogg/EOC-NetProfiler/internal/runstore"

	"github.com/spf13/cobra"
)

// openRuns is replaced in tests.
var openRuns = func() (runstore.Repository, error) { return runstore.Open() }

// NewCommand returns the "history" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "View and manage report run history",
		Long: "View the local history of report runs and prune old entries.\n\n" +
			"History is stored locally in ~/.config/nprof/nprof.db.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}
