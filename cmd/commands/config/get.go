package config

import (
	"fmt"
	"strings"

	"github.com/bitdogg/EOC-NetProfiler/internal/config"
	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/tui/styles"
	"github.com/bitdogg/EOC-NetProfiler/internal/util"

	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value",
		Long: "Get a persistent configuration value.\n\n" +
			"Without a key, every setting is listed.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  nprof config get                   # list all values\n" +
			"  nprof config get default-device    # print a single value",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runGet,
		SilenceUsage: true,
	}

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(args) == 0 {
		for _, spec := range config.Keys {
			value := spec.Get(cfg)
			if value == "" {
				value = styles.MutedText.Render("(not set)")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", spec.Name, value)
		}
		return nil
	}

	spec := config.Lookup(util.NormalizeKey(args[0]))
	if spec == nil {
		return fmt.Errorf("%w: unknown configuration key %q (valid: %s)",
			domain.ErrConfig, args[0], strings.Join(config.KeyNames(), ", "))
	}

	value := spec.Get(cfg)
	if value == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "not set")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), value)
	}
	return nil
}
