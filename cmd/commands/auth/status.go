package auth

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/bitdogg/EOC-NetProfiler/internal/config"
	"github.com/bitdogg/EOC-NetProfiler/internal/services/auth"
	"github.com/bitdogg/EOC-NetProfiler/internal/tui/styles"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which appliances have stored passwords",
		Long: `Show which configured appliances have a stored password.

Example:
  nprof auth status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			list := cfg.DeviceList()
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No devices configured.")
				return nil
			}

			store := authStore()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			for _, d := range list {
				fmt.Fprintf(w, "%s\t%s\n", d.Name, loginState(store, d.Name))
			}
			return w.Flush()
		},
		SilenceUsage: true,
	}

	return cmd
}

func loginState(store auth.Store, device string) string {
	if os.Getenv(auth.EnvVar(device)) != "" {
		return styles.AccentText.Render("logged in (" + auth.EnvVar(device) + ")")
	}
	_, err := store.GetPassword(device)
	switch {
	case err == nil:
		return styles.SuccessText.Render("logged in")
	case errors.Is(err, auth.ErrPasswordNotFound):
		return styles.MutedText.Render("not logged in")
	default:
		return styles.ErrorText.Render(fmt.Sprintf("error (%v)", err))
	}
}
