package device

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bitdogg/EOC-NetProfiler/internal/config"
	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/netprofiler"
	"github.com/bitdogg/EOC-NetProfiler/internal/tui/styles"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

func CheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [name]",
		Short: "Check connectivity and credentials for an appliance",
		Long: `Connect to an appliance, verify the stored credentials and fetch the
reporting metadata nprof relies on.

Example:
  nprof device check np1`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runCheck,
		SilenceUsage: true,
	}
	return cmd
}

// checkResult is what a successful check learned about the appliance.
type checkResult struct {
	info       *netprofiler.Info
	groupbys   []netprofiler.GroupBy
	hostGroups []netprofiler.HostGroupType
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	name = cfg.ResolveDevice(name)
	if name == "" {
		return fmt.Errorf("no device specified: pass a name or set a default with 'nprof config set default-device <name>': %w", domain.ErrConfig)
	}

	client, err := newManager(cfg).Client(name)
	if err != nil {
		return err
	}

	var (
		res      *checkResult
		checkErr error
	)
	check := func() { res, checkErr = checkDevice(cmd.Context(), client) }

	if term.IsTerminal(int(os.Stdout.Fd())) {
		spinErr := spinner.New().
			Title("Checking " + client.Device().Address() + "...").
			Accessible(os.Getenv("ACCESSIBLE") != "").
			Output(cmd.ErrOrStderr()).
			Action(check).
			Run()
		if spinErr != nil {
			return spinErr
		}
	} else {
		check()
	}
	if checkErr != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), styles.ErrorText.Render("✗ "+client.Device().Name+" is not reachable"))
		return checkErr
	}

	out := cmd.OutOrStdout()
	dev := client.Device()
	fmt.Fprintln(out, styles.SuccessText.Render("✓ "+dev.Name+" OK"))
	fmt.Fprintf(out, "%s %s\n", styles.Label.Render("Address:"), dev.Address())
	fmt.Fprintf(out, "%s %s %s\n", styles.Label.Render("Model:  "), res.info.Model, res.info.SWVersion)
	fmt.Fprintf(out, "%s %d\n", styles.Label.Render("Groupbys:"), len(res.groupbys))

	names := make([]string, len(res.hostGroups))
	for i, g := range res.hostGroups {
		names[i] = g.Name
	}
	fmt.Fprintf(out, "%s %s\n", styles.Label.Render("Host group types:"), strings.Join(names, ", "))
	return nil
}

// checkDevice checks credentials, then fetches the metadata lists
// concurrently.
func checkDevice(ctx context.Context, client *netprofiler.Client) (*checkResult, error) {
	info, err := client.Info(ctx)
	if err != nil {
		return nil, err
	}
	res := &checkResult{info: info}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res.groupbys, err = client.GroupBys(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		res.hostGroups, err = client.HostGroupTypes(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
