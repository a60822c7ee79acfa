package config

import (
	"github.com/bitdogg/EOC-NetProfiler/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage nprof configuration",
		Long: "View and modify persistent nprof settings.\n\n" +
			"Configuration is stored at ~/.config/nprof/config.json.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
