// Package components provides render-only helpers shared by the report
// commands when writing to a terminal.
package components

import (
	"strings"

	"github.com/bitdogg/EOC-NetProfiler/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Header renders a report banner with a rule underneath.
//
//	nprof > traffic-summary       np1  10:00 to 11:00
//	──────────────────────────────────────────────────
func Header(width int, breadcrumb string, detail string) string {
	if width < 10 {
		return ""
	}

	left := styles.AccentText.Bold(true).Render("nprof")
	if breadcrumb != "" {
		left += styles.MutedText.Render(" > ") + styles.Title.Render(breadcrumb)
	}
	right := styles.MutedText.Render(detail)

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	content := left + strings.Repeat(" ", gap) + right

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderBottom(true).
		BorderForeground(styles.Muted).
		Render(content)
}
