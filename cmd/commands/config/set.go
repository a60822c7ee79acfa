package config

import (
	"fmt"
	"strings"

	"github.com/bitdogg/EOC-NetProfiler/internal/config"
	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  nprof config set default-device np1\n" +
			"  nprof config set default-timefilter \"last 15 min\"",
		Args:         cobra.ExactArgs(2),
		RunE:         runSet,
		SilenceUsage: true,
	}

	return cmd
}

func runSet(cmd *cobra.Command, args []string) error {
	spec := config.Lookup(util.NormalizeKey(args[0]))
	if spec == nil {
		return fmt.Errorf("%w: unknown configuration key %q (valid: %s)",
			domain.ErrConfig, args[0], strings.Join(config.KeyNames(), ", "))
	}
	value := strings.TrimSpace(args[1])

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if spec.Validate != nil {
		if err := spec.Validate(cfg, value); err != nil {
			return fmt.Errorf("%w: invalid value for %s: %w", domain.ErrConfig, spec.Name, err)
		}
	}

	spec.Set(cfg, value)
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, spec.Get(cfg))
	return nil
}
