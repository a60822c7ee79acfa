package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/netprofiler"
	"github.com/bitdogg/EOC-NetProfiler/internal/output"
	"github.com/bitdogg/EOC-NetProfiler/internal/report"
	"github.com/bitdogg/EOC-NetProfiler/internal/reportargs"
	"github.com/bitdogg/EOC-NetProfiler/internal/tui/styles"

	"github.com/spf13/cobra"
)

func WANCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wan",
		Short: "Report inbound and outbound traffic of a WAN link",
		Long: `Report traffic crossing a WAN device.

Identify the device by address or name, or give its LAN and WAN interfaces
directly. Interfaces are discovered by name when only the device is given.

Examples:
  nprof report wan --device-address 10.1.1.1 --summary --inbound --outbound
  nprof report wan --device-name branch-rtr --time-series --combined
  nprof report wan --lan-address 10.1.1.1:1 --wan-address 10.1.1.1:2 --summary --combined`,
		Args:         cobra.NoArgs,
		RunE:         runWAN,
		SilenceUsage: true,
	}

	addCriteriaFlags(cmd)
	cmd.Flags().String("device-address", "", "IP address of the WAN device")
	cmd.Flags().String("device-name", "", "Text of the device name to search for (plain substring match)")
	cmd.Flags().String("lan-address", "", "LAN interface address (ip:index)")
	cmd.Flags().String("wan-address", "", "WAN interface address (ip:index)")
	cmd.Flags().Bool("summary", false, "Generate a summary report")
	cmd.Flags().Bool("time-series", false, "Generate a time-series report")
	cmd.Flags().Bool("inbound", false, "Print inbound statistics")
	cmd.Flags().Bool("outbound", false, "Print outbound statistics")
	cmd.Flags().Bool("combined", false, "Print combined inbound/outbound statistics")

	return cmd
}

func runWAN(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	deviceAddr, _ := f.GetString("device-address")
	deviceName, _ := f.GetString("device-name")
	lanAddr, _ := f.GetString("lan-address")
	wanAddr, _ := f.GetString("wan-address")
	summary, _ := f.GetBool("summary")
	timeSeries, _ := f.GetBool("time-series")

	opts := report.WANOptions{TimeSeries: timeSeries}
	opts.Inbound, _ = f.GetBool("inbound")
	opts.Outbound, _ = f.GetBool("outbound")
	opts.Combined, _ = f.GetBool("combined")

	switch {
	case deviceAddr == "" && deviceName == "" && (lanAddr == "" || wanAddr == ""):
		return fmt.Errorf("%w: either --device-address, --device-name or both --lan-address and --wan-address required", domain.ErrConfig)
	case !summary && !timeSeries:
		return fmt.Errorf("%w: either --summary or --time-series required", domain.ErrConfig)
	case summary && timeSeries:
		return fmt.Errorf("%w: choose only one of --summary and --time-series", domain.ErrConfig)
	case !opts.Inbound && !opts.Outbound && !opts.Combined:
		return fmt.Errorf("%w: choose at least one output option: --inbound, --outbound, --combined", domain.ErrConfig)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	c, err := s.criteria(cmd)
	if err != nil {
		return err
	}

	switch {
	case lanAddr != "" && wanAddr != "":
		opts.LAN = []string{lanAddr}
		opts.WAN = []string{wanAddr}
		opts.DeviceIP, _, _ = strings.Cut(wanAddr, ":")
	case deviceName != "":
		ip, err := findDeviceIP(cmd, s.client, deviceName)
		if err != nil {
			return err
		}
		opts.DeviceIP = ip
	default:
		opts.DeviceIP = deviceAddr
	}

	rargs, err := reportargs.Build(c, reportargs.TableConfig{
		Realm:     reportargs.RealmTrafficSummary,
		Groupby:   "dev",
		Interface: true,
		Columns:   report.WANSummaryColumns,
	}, s.cfg)
	if err != nil {
		return err
	}

	sink, done := s.track(cmd, "wan", c)
	defer done()

	res, err := s.runner.WAN(cmd.Context(), rargs, opts, sink)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sections := []struct {
		header string
		rs     *domain.ResultSet
	}{
		{"Inbound traffic:", res.Inbound},
		{"Outbound traffic:", res.Outbound},
		{"Combined Inbound/Outbound traffic:", res.Combined},
	}
	for _, sec := range sections {
		if sec.rs == nil {
			continue
		}
		if s.format == "" || s.format == output.FormatTable {
			fmt.Fprintln(out, styles.Title.Render(sec.header))
		}
		if err := output.Render(out, s.format, sec.rs); err != nil {
			return err
		}
	}
	return nil
}

// findDeviceIP searches the appliance's device list by name.
func findDeviceIP(cmd *cobra.Command, client *netprofiler.Client, name string) (string, error) {
	list, err := client.Devices(cmd.Context())
	if err != nil {
		return "", fmt.Errorf("failed to list NetProfiler devices: %w", err)
	}
	d, ok := netprofiler.FindDevice(list, name)
	if !ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "Device %s cannot be found in NetProfiler device list\n"+
			"Try specifying the name differently or use an IP address\n", name)
		return "", fmt.Errorf("device %q: %w", name, domain.ErrDeviceNotFound)
	}
	if d.IPAddr == "" {
		return "", errors.New("device " + d.Name + " has no IP address")
	}
	return d.IPAddr, nil
}
