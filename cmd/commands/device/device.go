package device

import (
	"github.com/bitdogg/EOC-NetProfiler/internal/cache"
	"github.com/bitdogg/EOC-NetProfiler/internal/config"
	"github.com/bitdogg/EOC-NetProfiler/internal/devices"
	"github.com/bitdogg/EOC-NetProfiler/internal/services/auth"

	"github.com/spf13/cobra"
)

// Hooks replaced in tests.
var (
	authStore  = auth.DefaultStore
	newCache   = cache.NewDefault
	newManager = func(cfg *config.Config) *devices.Manager {
		return devices.NewManager(cfg, authStore(), newCache())
	}
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Manage NetProfiler appliances",
		Long: `Add, list, remove and check the NetProfiler appliances nprof talks to.

Connection details are stored in the config file; passwords are kept in
the OS keychain (see 'nprof auth login').`,
	}

	cmd.AddCommand(AddCommand())
	cmd.AddCommand(ListCommand())
	cmd.AddCommand(RemoveCommand())
	cmd.AddCommand(CheckCommand())

	return cmd
}
