package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bitdogg/EOC-NetProfiler/internal/config"
	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/services/auth"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <device>",
		Short: "Store the password for an appliance",
		Long: `Store the API password for a configured appliance in the local keychain.

Example:
  nprof auth login np1`,
		Args:         cobra.ExactArgs(1),
		RunE:         runLogin,
		SilenceUsage: true,
	}

	cmd.Flags().String("password", "", "Password (optional, overrides prompt)")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dev, err := cfg.Lookup(args[0])
	if err != nil {
		return err
	}

	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Password for %s@%s: ", dev.Username, dev.Address())
		bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(string(bytes), "\r\n")
	}
	if password == "" {
		return fmt.Errorf("%w: password cannot be empty", domain.ErrConfig)
	}

	if err := authStore().SetPassword(dev.Name, password); err != nil {
		return fmt.Errorf("failed to store password: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved password for device %s\n", dev.Name)
	return nil
}

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "logout <device>",
		Short:        "Delete the stored password for an appliance",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := auth.NormalizeDevice(args[0])
			err := authStore().DeletePassword(name)
			switch {
			case errors.Is(err, auth.ErrPasswordNotFound):
				fmt.Fprintf(cmd.OutOrStdout(), "No password stored for %s\n", name)
			case err != nil:
				return fmt.Errorf("failed to delete password: %w", err)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted password for device %s\n", name)
			}
			return nil
		},
	}
	return cmd
}
