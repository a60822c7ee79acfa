package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/tui/styles"

	"github.com/spf13/cobra"
)

func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one report run in detail",
		Long: `Show the criteria, state and time window of a single report run.

Example:
  nprof history show 12`,
		Args:         cobra.ExactArgs(1),
		RunE:         runShow,
		SilenceUsage: true,
	}
	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("%w: invalid run id %q", domain.ErrConfig, args[0])
	}

	repo, err := openRuns()
	if err != nil {
		return err
	}
	defer repo.Close()

	r, err := repo.Get(id)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("run %d not found", id)
	}

	out := cmd.OutOrStdout()
	field := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(out, "%s %s\n", styles.Label.Render(fmt.Sprintf("%-10s", label+":")), value)
	}

	field("Run", strconv.FormatInt(r.ID, 10))
	field("Command", r.Command)
	field("Device", r.Device)
	field("Report", r.ReportID)
	field("State", styles.StatusIndicator(r.State))
	field("Progress", fmt.Sprintf("%d%%", r.Progress))
	field("Started", r.CreatedAt.Local().Format(timeLayout))
	field("Updated", r.UpdatedAt.Local().Format(timeLayout))
	if !r.WindowStart.IsZero() {
		field("Window", r.WindowStart.Local().Format(timeLayout)+" to "+r.WindowEnd.Local().Format(timeLayout))
	}
	if r.ErrorMessage != "" {
		field("Error", styles.ErrorText.Render(r.ErrorMessage))
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(r.Criteria), "", "  "); err != nil {
		pretty.Reset()
		pretty.WriteString(r.Criteria)
	}
	fmt.Fprintln(out, styles.Label.Render("Criteria:"))
	fmt.Fprintln(out, pretty.String())
	return nil
}
