// Package output renders report results as a table, CSV or JSON.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/reshape"
	"github.com/bitdogg/EOC-NetProfiler/internal/tui/styles"
	"github.com/olekukonko/tablewriter"
)

const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

// TimeLayout is used for time cells in table and CSV output.
const TimeLayout = "2006-01-02 15:04:05"

// Render writes rs to w in the given format. An empty format means table.
func Render(w io.Writer, format string, rs *domain.ResultSet) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatTable:
		return Table(w, rs)
	case FormatCSV:
		return CSV(w, rs)
	case FormatJSON:
		return JSON(w, rs)
	default:
		return fmt.Errorf("%w: unknown output format %q", domain.ErrConfig, format)
	}
}

// Table writes rs as a bordered table with column labels as headers.
func Table(w io.Writer, rs *domain.ResultSet) error {
	if rs.Len() == 0 {
		_, err := fmt.Fprintln(w, "No data returned.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetBorder(true)

	header := make([]string, len(rs.Columns))
	aligns := make([]int, len(rs.Columns))
	for i, c := range rs.Columns {
		header[i] = headerLabel(c)
		aligns[i] = tablewriter.ALIGN_LEFT
		if c.Datatype == domain.DatatypeInteger || c.Datatype == domain.DatatypeFloat {
			aligns[i] = tablewriter.ALIGN_RIGHT
		}
	}
	table.SetHeader(header)
	table.SetColumnAlignment(aligns)

	for _, row := range rs.Rows {
		cells := make([]string, len(rs.Columns))
		for i, c := range rs.Columns {
			if i >= len(row) {
				continue
			}
			cells[i] = Cell(c, row[i])
			if c.Formatter == reshape.FormatHealth {
				cells[i] = styles.HealthStyle(cells[i]).Render(cells[i])
			}
		}
		table.Append(cells)
	}
	table.Render()
	return nil
}

// CSV writes rs with a header row of column labels.
func CSV(w io.Writer, rs *domain.ResultSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rs.ColumnLabels()); err != nil {
		return err
	}
	for _, row := range rs.Rows {
		rec := make([]string, len(rs.Columns))
		for i, c := range rs.Columns {
			if i < len(row) {
				rec[i] = Cell(c, row[i])
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonResult struct {
	Columns []domain.Column  `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// JSON writes rs as an object holding the legend and one object per row.
func JSON(w io.Writer, rs *domain.ResultSet) error {
	out := jsonResult{Columns: rs.Columns, Rows: make([]map[string]any, 0, rs.Len())}
	for _, row := range rs.Rows {
		obj := make(map[string]any, len(rs.Columns))
		for i, c := range rs.Columns {
			if i < len(row) {
				obj[c.Name] = row[i]
			}
		}
		out.Rows = append(out.Rows, obj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Cell formats one value for display according to its column.
func Cell(c domain.Column, v any) string {
	if v == nil {
		return ""
	}
	switch c.Datatype {
	case domain.DatatypeTime:
		if f, ok := reshape.ToFloat(v); ok {
			return time.Unix(int64(f), 0).UTC().Format(TimeLayout)
		}
	case domain.DatatypeFloat:
		if f, ok := reshape.ToFloat(v); ok {
			return strconv.FormatFloat(f, 'f', 2, 64)
		}
	case domain.DatatypeInteger:
		if f, ok := reshape.ToFloat(v); ok {
			return strconv.FormatInt(int64(f), 10)
		}
	}
	return fmt.Sprint(v)
}

func headerLabel(c domain.Column) string {
	label := c.Label
	if label == "" {
		label = c.Name
	}
	if c.Units != "" {
		label += "\n(" + c.Units + ")"
	}
	return label
}
