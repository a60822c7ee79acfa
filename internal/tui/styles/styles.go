package styles

import (
	"github.com/bitdogg/EOC-NetProfiler/internal/reshape"
	"github.com/charmbracelet/lipgloss"
)

// --- Typography ---

var (
	// Title is the main header text style.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(White)

	// Label is used for field names in detail views.
	Label = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	// Value is used for field values in detail views.
	Value = lipgloss.NewStyle().
		Foreground(White)

	// MutedText is for help text, hints, and less important info.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	AccentText = lipgloss.NewStyle().
			Foreground(Blue)

	ErrorText = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	SuccessText = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	WarningText = lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true)
)

// --- Status badges ---

// StateStyle returns the style for a run lifecycle state.
func StateStyle(state string) lipgloss.Style {
	switch state {
	case "reshaped":
		return lipgloss.NewStyle().Foreground(Green).Bold(true)
	case "submitted", "polling", "completed":
		return lipgloss.NewStyle().Foreground(Yellow)
	case "errored":
		return lipgloss.NewStyle().Foreground(Red).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}

// StatusIndicator returns a small dot + state text with appropriate color.
func StatusIndicator(state string) string {
	style := StateStyle(state)
	return style.Render("●") + " " + style.Render(state)
}

// HealthStyle maps a service health state to a colour.
func HealthStyle(state string) lipgloss.Style {
	var c lipgloss.Color
	switch reshape.HealthColor(state) {
	case "green":
		c = Green
	case "yellow":
		c = Yellow
	case "red":
		c = Red
	default:
		c = Gray
	}
	return lipgloss.NewStyle().Foreground(c)
}
