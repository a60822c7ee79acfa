package components

import (
	"fmt"
	"strings"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/reshape"
	"github.com/bitdogg/EOC-NetProfiler/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// chartHeight is the fixed plot height.
const chartHeight = 10

var palette = []asciigraph.AnsiColor{
	asciigraph.DodgerBlue, asciigraph.LightCoral, asciigraph.MediumSeaGreen,
	asciigraph.Gold, asciigraph.Orchid, asciigraph.Turquoise,
	asciigraph.SandyBrown, asciigraph.SlateGray,
}

// Series is one plotted line.
type Series struct {
	Name   string
	Values []float64
}

// SeriesFromResult extracts one series per non-key numeric column of a
// time-series result, in legend order. Missing cells plot as zero.
func SeriesFromResult(rs *domain.ResultSet) []Series {
	var out []Series
	for i, c := range rs.Columns {
		if c.IsKey || (c.Datatype != domain.DatatypeFloat && c.Datatype != domain.DatatypeInteger) {
			continue
		}
		s := Series{Name: c.Label, Values: make([]float64, rs.Len())}
		if s.Name == "" {
			s.Name = c.Name
		}
		for r, row := range rs.Rows {
			if i < len(row) {
				s.Values[r], _ = reshape.ToFloat(row[i])
			}
		}
		out = append(out, s)
	}
	return out
}

// SeriesChart renders several series on one plot with a legend and a
// per-series summary line.
func SeriesChart(label string, series []Series, width int, suffix string) string {
	var data [][]float64
	var legends []string
	var colors []asciigraph.AnsiColor
	for i, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		data = append(data, s.Values)
		legends = append(legends, s.Name)
		colors = append(colors, palette[i%len(palette)])
	}
	if len(data) == 0 {
		return styles.MutedText.Render(label + ": no data")
	}

	// Reserve space for Y-axis labels (number + " ┤" ≈ 9 chars).
	plotWidth := max(width-9, 10)

	chart := asciigraph.PlotMany(data,
		asciigraph.Height(chartHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.LabelColor(asciigraph.Default),
	)

	var summary []string
	for i, values := range data {
		lo, hi := minMax(values)
		summary = append(summary, fmt.Sprintf("  %s  cur: %s  min: %s  max: %s",
			legends[i], formatValue(values[len(values)-1], suffix),
			formatValue(lo, suffix), formatValue(hi, suffix)))
	}

	header := styles.Label.Render(label)
	return lipgloss.JoinVertical(lipgloss.Left, header, chart,
		styles.MutedText.Render(strings.Join(summary, "\n")))
}

func minMax(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}
	lo, hi := data[0], data[0]
	for _, v := range data[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// formatValue renders a float with an optional suffix, using human-readable
// formatting for large values.
func formatValue(v float64, suffix string) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%.1fG%s", v/1_000_000_000, suffix)
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM%s", v/1_000_000, suffix)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK%s", v/1_000, suffix)
	default:
		return fmt.Sprintf("%.1f%s", v, suffix)
	}
}
