package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *domain.ResultSet {
	return &domain.ResultSet{
		Columns: []domain.Column{
			{Name: "time", Label: "Time", Datatype: domain.DatatypeTime, IsKey: true},
			{Name: "avg_bytes", Label: "Avg Bytes", Datatype: domain.DatatypeFloat, Units: "B/s"},
			{Name: "host", Label: "Host", Datatype: domain.DatatypeString},
		},
		Rows: [][]any{
			{json.Number("1709287200"), 1234.5, "10.0.0.1"},
			{float64(1709287260), "99", nil},
		},
	}
}

func TestCell(t *testing.T) {
	rs := sampleResult()
	assert.Equal(t, "2024-03-01 10:00:00", Cell(rs.Columns[0], rs.Rows[0][0]))
	assert.Equal(t, "1234.50", Cell(rs.Columns[1], rs.Rows[0][1]))
	assert.Equal(t, "99.00", Cell(rs.Columns[1], rs.Rows[1][1]))
	assert.Equal(t, "", Cell(rs.Columns[2], nil))
	assert.Equal(t, "7", Cell(domain.Column{Datatype: domain.DatatypeInteger}, 7.9))
	assert.Equal(t, "n/a", Cell(domain.Column{Datatype: domain.DatatypeFloat}, "n/a"))
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "CSV", sampleResult()))

	want := "Time,Avg Bytes,Host\n" +
		"2024-03-01 10:00:00,1234.50,10.0.0.1\n" +
		"2024-03-01 10:01:00,99.00,\n"
	assert.Equal(t, want, buf.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatJSON, sampleResult()))

	var got struct {
		Columns []domain.Column  `json:"columns"`
		Rows    []map[string]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "10.0.0.1", got.Rows[0]["host"])
	assert.Equal(t, 1234.5, got.Rows[0]["avg_bytes"])
	assert.Equal(t, "avg_bytes", got.Columns[1].Name)
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "", sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "Avg Bytes")
	assert.Contains(t, out, "(B/s)")
	assert.Contains(t, out, "2024-03-01 10:01:00")
	assert.Contains(t, out, "1234.50")
}

func TestTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, &domain.ResultSet{}))
	assert.Equal(t, "No data returned.", strings.TrimSpace(buf.String()))
}

func TestRender_UnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, "xml", sampleResult())
	assert.True(t, errors.Is(err, domain.ErrConfig))
}
