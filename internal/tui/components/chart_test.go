package components

import (
	"strings"
	"testing"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
)

func TestSeriesFromResult(t *testing.T) {
	rs := &domain.ResultSet{
		Columns: []domain.Column{
			{Name: "time", Datatype: domain.DatatypeTime, IsKey: true},
			{Name: "tcp80", Label: "tcp/80", Datatype: domain.DatatypeFloat},
			{Name: "note", Datatype: domain.DatatypeString},
			{Name: "other", Datatype: domain.DatatypeFloat},
		},
		Rows: [][]any{
			{1.0, 10.0, "x", 1.0},
			{2.0, 20.0, "y"},
		},
	}

	series := SeriesFromResult(rs)
	if len(series) != 2 {
		t.Fatalf("got %d series, want 2", len(series))
	}
	if series[0].Name != "tcp/80" || series[1].Name != "other" {
		t.Errorf("names = %q, %q", series[0].Name, series[1].Name)
	}
	if series[0].Values[1] != 20 || series[1].Values[1] != 0 {
		t.Errorf("values = %v, %v", series[0].Values, series[1].Values)
	}
}

func TestSeriesChart(t *testing.T) {
	out := SeriesChart("Traffic", []Series{
		{Name: "tcp/80", Values: []float64{1, 2, 3}},
		{Name: "udp/53", Values: []float64{1500, 2500, 1200}},
	}, 60, "B/s")

	for _, want := range []string{"Traffic", "tcp/80", "udp/53", "max: 2.5KB/s"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q:\n%s", want, out)
		}
	}
}

func TestSeriesChart_NoData(t *testing.T) {
	out := SeriesChart("Traffic", nil, 60, "")
	if !strings.Contains(out, "no data") {
		t.Errorf("expected no data message, got %q", out)
	}
}

func TestHeader(t *testing.T) {
	got := Header(60, "traffic-summary", "np1  10:00 to 11:00")
	for _, want := range []string{"nprof", "traffic-summary", "np1  10:00 to 11:00", "─"} {
		if !strings.Contains(got, want) {
			t.Errorf("Header missing %q:\n%s", want, got)
		}
	}
	if Header(5, "x", "y") != "" {
		t.Error("expected empty header for tiny width")
	}
}
