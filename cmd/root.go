package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/bitdogg/EOC-NetProfiler/cmd/commands/auth"
	cfgcmd "github.com/bitdogg/EOC-NetProfiler/cmd/commands/config"
	"github.com/bitdogg/EOC-NetProfiler/cmd/commands/device"
	"github.com/bitdogg/EOC-NetProfiler/cmd/commands/history"
	"github.com/bitdogg/EOC-NetProfiler/cmd/commands/report"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "nprof",
		Short: "Run NetProfiler reports from the command line",
		Long: `nprof runs traffic reports against Riverbed NetProfiler appliances and
prints the results as tables, CSV or JSON.

Quick start:
  nprof device add np1 --host np1.example.com --default
  nprof auth login np1
  nprof report traffic-summary --timefilter "last 1 hour"
  nprof report wan --device-name edge-rtr --summary --inbound --outbound`,
		PersistentPreRunE: loadEnvFile,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log report progress and API calls")
	cmd.PersistentFlags().String("env-file", "", "Load environment variables (e.g. NPROF_PASSWORD_<DEVICE>) from a file")

	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(device.NewCommand())
	cmd.AddCommand(report.NewCommand())
	cmd.AddCommand(history.NewCommand())

	return cmd
}

func loadEnvFile(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("env-file")
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Run the root env-file hook as well as the device resolution hooks
	// on the command groups.
	cobra.EnableTraverseRunHooks = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var root = rootCmd()
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
