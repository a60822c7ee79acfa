package device

import (
	"fmt"
	"strings"

	"github.com/bitdogg/EOC-NetProfiler/internal/config"
	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/util"

	"github.com/spf13/cobra"
)

func AddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add or update a NetProfiler appliance",
		Long: `Add or update a named NetProfiler appliance.

Example:
  nprof device add np1 --host np1.example.com --username admin --default
  nprof auth login np1`,
		Args:         cobra.ExactArgs(1),
		RunE:         runAdd,
		SilenceUsage: true,
	}

	cmd.Flags().String("host", "", "Hostname or IP address of the appliance (required)")
	cmd.Flags().Int("port", domain.DefaultPort, "HTTPS port")
	cmd.Flags().String("username", "admin", "API username")
	cmd.Flags().Bool("insecure", false, "Skip TLS certificate verification")
	cmd.Flags().Bool("default", false, "Make this the default device")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	name := util.NormalizeKey(args[0])
	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")
	username, _ := cmd.Flags().GetString("username")
	insecure, _ := cmd.Flags().GetBool("insecure")
	makeDefault, _ := cmd.Flags().GetBool("default")

	host = strings.TrimSpace(host)
	if err := util.ValidateDeviceName(name); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfig, err)
	}
	if host == "" {
		return fmt.Errorf("%w: --host is required", domain.ErrConfig)
	}
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%w: invalid port %d", domain.ErrConfig, port)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.PutDevice(domain.Device{Name: name, Host: host, Port: port, Username: username, Insecure: insecure})
	if makeDefault || cfg.DefaultDevice == "" {
		cfg.DefaultDevice = name
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved device %s (%s)\n", name, host)
	if _, err := authStore().GetPassword(name); err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Store its password with: nprof auth login %s\n", name)
	}
	return nil
}
