package auth

import (
	"github.com/bitdogg/EOC-NetProfiler/internal/services/auth"

	"github.com/spf13/cobra"
)

// authStore is replaced in tests.
var authStore = auth.DefaultStore

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage appliance passwords",
		Long: `Manage the passwords nprof uses to log in to NetProfiler appliances.

Passwords are stored in the OS keychain. Setting NPROF_PASSWORD_<DEVICE>
overrides the stored password for that device.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(LogoutCommand())
	cmd.AddCommand(StatusCommand())

	return cmd
}
