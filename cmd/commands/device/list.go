package device

import (
	"fmt"
	"text/tabwriter"

	"github.com/bitdogg/EOC-NetProfiler/internal/config"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List configured appliances",
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	list := cfg.DeviceList()
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No devices configured. Add one with 'nprof device add'.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tADDRESS\tUSERNAME\tTLS\tDEFAULT")
	fmt.Fprintln(w, "----\t-------\t--------\t---\t-------")
	for _, d := range list {
		tls := "verify"
		if d.Insecure {
			tls = "insecure"
		}
		def := ""
		if d.Name == cfg.DefaultDevice {
			def = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Name, d.Address(), d.Username, tls, def)
	}
	return w.Flush()
}
