package report

import (
	"context"
	"strings"
	"testing"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/reportargs"
	"github.com/stretchr/testify/require"
)

func wanClient() *fakeClient {
	client := newFakeClient()
	client.data = func(args *domain.ReportArgs) [][]any {
		switch {
		case args.Groupby == "ifc":
			return [][]any{
				{"site1-LAN0", "10.1.1.1:1"},
				{"site1-WAN0", "10.1.1.1:2"},
				{"mgmt", "10.1.1.1:3"},
			}
		case strings.HasPrefix(args.TrafficExpr, "(inbound interface 10.1.1.1:2)"):
			return [][]any{{1000.0, 10.0, 600.0}, {1060.0, 20.0, 1200.0}}
		default:
			return [][]any{{1000.0, 1.0, 60.0}, {1060.0, 2.0, 120.0}}
		}
	}
	return client
}

func TestWAN_DiscoversInterfacesAndCombines(t *testing.T) {
	client := wanClient()
	r := NewRunner(newTestPoller(t, client))
	sink := &recordingSink{}

	args := baseArgs
	res, err := r.WAN(context.Background(), &args, WANOptions{
		DeviceIP:   "10.1.1.1",
		TimeSeries: true,
		Inbound:    true,
		Combined:   true,
	}, sink)
	require.NoError(t, err)

	require.Len(t, client.submitted, 3)
	discovery, in, out := client.submitted[0], client.submitted[1], client.submitted[2]
	require.Equal(t, "device 10.1.1.1", discovery.TrafficExpr)
	require.Equal(t, domain.CentricityInterface, discovery.Centricity)
	require.Equal(t, "(inbound interface 10.1.1.1:2) and (outbound interface 10.1.1.1:1)", in.TrafficExpr)
	require.Equal(t, "(inbound interface 10.1.1.1:1) and (outbound interface 10.1.1.1:2)", out.TrafficExpr)
	require.Equal(t, reportargs.RealmTrafficOverallTime, in.Realm)
	require.Equal(t, []string{"time", "avg_bytes", "total_bytes"}, in.Columns)

	require.NotNil(t, res.Inbound)
	require.Nil(t, res.Outbound)
	require.Equal(t, [][]any{{1000.0, 11.0, 660.0}, {1060.0, 22.0, 1320.0}}, res.Combined.Rows)
	require.Equal(t, []string{"time", "avg_bytes", "total_bytes"}, res.Combined.ColumnNames())

	require.Equal(t, []int{33, 66, 99}, sink.progress)
	require.Equal(t, StateReshaped, sink.states[len(sink.states)-1])
}

func TestWAN_ExplicitInterfacesSummary(t *testing.T) {
	client := wanClient()
	r := NewRunner(newTestPoller(t, client))

	args := baseArgs
	args.TrafficExpr = "app HTTP"
	res, err := r.WAN(context.Background(), &args, WANOptions{
		LAN:      []string{"10.2.2.2:1"},
		WAN:      []string{"10.2.2.2:5", "10.2.2.2:6"},
		Outbound: true,
	}, nil)
	require.NoError(t, err)

	require.Len(t, client.submitted, 1)
	out := client.submitted[0]
	require.Equal(t, "dev", out.Groupby)
	require.Equal(t, reportargs.RealmTrafficSummary, out.Realm)
	require.Equal(t, "(inbound interface 10.2.2.2:1) and (outbound interface 10.2.2.2:5,10.2.2.2:6) and (app HTTP)", out.TrafficExpr)
	require.Equal(t, []string{"device", "avg_bytes", "total_bytes"}, res.Outbound.ColumnNames())
	require.Nil(t, res.Inbound)
	require.Nil(t, res.Combined)
}

func TestWAN_Validation(t *testing.T) {
	r := NewRunner(newTestPoller(t, wanClient()))
	args := baseArgs

	_, err := r.WAN(context.Background(), &args, WANOptions{DeviceIP: "10.1.1.1"}, nil)
	require.ErrorIs(t, err, domain.ErrConfig)

	_, err = r.WAN(context.Background(), &args, WANOptions{LAN: []string{"a:1"}, Inbound: true}, nil)
	require.ErrorIs(t, err, domain.ErrConfig)
}

func TestWAN_InterfacesNotFound(t *testing.T) {
	client := newFakeClient()
	client.data = func(*domain.ReportArgs) [][]any { return [][]any{{"eth0", "10.1.1.1:1"}} }
	r := NewRunner(newTestPoller(t, client))
	sink := &recordingSink{}

	args := baseArgs
	_, err := r.WAN(context.Background(), &args, WANOptions{DeviceIP: "10.1.1.1", Inbound: true}, sink)
	require.ErrorIs(t, err, domain.ErrConfig)
	require.Equal(t, StateErrored, sink.states[len(sink.states)-1])
}
