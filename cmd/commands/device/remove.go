package device

import (
	"errors"
	"fmt"

	"github.com/bitdogg/EOC-NetProfiler/internal/config"
	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/services/auth"
	"github.com/bitdogg/EOC-NetProfiler/internal/util"

	"github.com/spf13/cobra"
)

func RemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "remove <name>",
		Short:        "Remove an appliance and its stored password",
		Args:         cobra.ExactArgs(1),
		RunE:         runRemove,
		SilenceUsage: true,
	}
	return cmd
}

func runRemove(cmd *cobra.Command, args []string) error {
	name := util.NormalizeKey(args[0])

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.RemoveDevice(name) {
		return fmt.Errorf("device %q is not configured: %w", name, domain.ErrDeviceNotFound)
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	if err := authStore().DeletePassword(name); err != nil && !errors.Is(err, auth.ErrPasswordNotFound) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to delete stored password: %v\n", err)
	}
	if err := newCache().InvalidatePrefix("netprofiler_" + name + "_"); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to clear cached metadata: %v\n", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed device %s\n", name)
	return nil
}
