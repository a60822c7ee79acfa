package reportargs

import (
	"strings"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
)

// knownColumns describes the columns most reports use. Anything else is
// treated as a plain string column.
var knownColumns = map[string]domain.Column{
	"time":            {Label: "Time", Datatype: domain.DatatypeTime, IsKey: true},
	"host_ip":         {Label: "Host IP", Datatype: domain.DatatypeString, IsKey: true},
	"host_dns":        {Label: "Host DNS", Datatype: domain.DatatypeString},
	"group_name":      {Label: "Group", Datatype: domain.DatatypeString, IsKey: true},
	"device":          {Label: "Device", Datatype: domain.DatatypeString, IsKey: true},
	"interface":       {Label: "Interface", Datatype: domain.DatatypeString, IsKey: true},
	"interface_dns":   {Label: "Interface DNS", Datatype: domain.DatatypeString},
	"protoport_name":  {Label: "Port", Datatype: domain.DatatypeString, IsKey: true},
	"protoport_parts": {Label: "Port", Datatype: domain.DatatypeString, IsKey: true},
	"app_name":        {Label: "Application", Datatype: domain.DatatypeString, IsKey: true},
	"cli_host_ip":     {Label: "Client IP", Datatype: domain.DatatypeString},
	"srv_host_ip":     {Label: "Server IP", Datatype: domain.DatatypeString},
	"start_time":      {Label: "Start", Datatype: domain.DatatypeTime},
	"end_time":        {Label: "End", Datatype: domain.DatatypeTime},
	"avg_bytes":       {Label: "Avg Bytes/s", Datatype: domain.DatatypeFloat, Units: "B/s", IsSortCol: true},
	"avg_pkts":        {Label: "Avg Pkts/s", Datatype: domain.DatatypeFloat, Units: "pkt/s"},
	"avg_bytes_rtx":   {Label: "Avg Retrans Bytes/s", Datatype: domain.DatatypeFloat, Units: "B/s"},
	"network_rtt":     {Label: "Network RTT", Datatype: domain.DatatypeFloat, Units: "ms"},
	"response_time":   {Label: "Response Time", Datatype: domain.DatatypeFloat, Units: "ms"},
	"total_bytes":     {Label: "Total Bytes", Datatype: domain.DatatypeInteger, Units: "B"},
	"total_pkts":      {Label: "Total Pkts", Datatype: domain.DatatypeInteger},
	"connections":     {Label: "Connections", Datatype: domain.DatatypeInteger},
}

// Columns builds static columns for names, filling in labels, datatypes
// and units for the well-known ones. Names are trimmed; empty ones skipped.
func Columns(names []string) []domain.Column {
	cols := make([]domain.Column, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		c, ok := knownColumns[n]
		if !ok {
			c = domain.Column{Label: n, Datatype: domain.DatatypeString}
		}
		c.Name = n
		cols = append(cols, c)
	}
	return cols
}
