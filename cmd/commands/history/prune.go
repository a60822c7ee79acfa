package history

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"

	"github.com/spf13/cobra"
)

func PruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete finished runs older than a duration",
		Long: `Delete finished report runs older than a duration. Runs that never
finished are kept so they can still be inspected.

Examples:
  nprof history prune --older-than 30d
  nprof history prune --older-than 72h`,
		Args:         cobra.NoArgs,
		RunE:         runPrune,
		SilenceUsage: true,
	}

	cmd.Flags().String("older-than", "", "Remove runs older than this duration (e.g. 30d, 72h)")

	return cmd
}

func runPrune(cmd *cobra.Command, args []string) error {
	olderThanRaw, _ := cmd.Flags().GetString("older-than")
	olderThanRaw = strings.TrimSpace(olderThanRaw)
	if olderThanRaw == "" {
		return fmt.Errorf("%w: --older-than is required", domain.ErrConfig)
	}

	olderThan, err := parseDuration(olderThanRaw)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfig, err)
	}

	repo, err := openRuns()
	if err != nil {
		return err
	}
	defer repo.Close()

	removed, err := repo.DeleteOlderThan(olderThan)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s).\n", removed)
	return nil
}

func parseDuration(input string) (time.Duration, error) {
	if before, ok := strings.CutSuffix(input, "d"); ok {
		days, err := strconv.Atoi(before)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", input)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be positive")
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", input)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return d, nil
}
