// This file is part of Banglemu.
//
// Banglemu is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Banglemu is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Banglemu.  If not, see <https://www.gnu.org/licenses/>.

package metrics_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/banglemu/banglemu/metrics"
	"github.com/banglemu/banglemu/test"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNil(t *testing.T) {
	var m *metrics.Metrics

	// none of these should panic
	m.Event("tick")
	m.Advance(time.Millisecond)
	m.Frame()
	m.DeviceOperation()
	m.ConsoleIn(10)
	m.ConsoleOut(10)
	m.ClientConnected()
	m.ClientDisconnected()
	m.Replaced()
	m.Dropped()
	test.ExpectSuccess(t, m.Registry() == nil)
}

func TestCounters(t *testing.T) {
	m := metrics.NewMetrics()

	m.Event("tick")
	m.Event("tick")
	m.Event("console")
	m.ConsoleIn(5)
	m.Replaced()

	n, err := testutil.GatherAndCount(m.Registry(), "banglemu_router_events_total")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n, 2)

	expected := `
# HELP banglemu_console_input_bytes_total Bytes written to the device console.
# TYPE banglemu_console_input_bytes_total counter
banglemu_console_input_bytes_total 5
`
	err = testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "banglemu_console_input_bytes_total")
	test.ExpectSuccess(t, err)
}

func TestServer(t *testing.T) {
	m := metrics.NewMetrics()
	m.Event("terminal")

	srv, err := metrics.Listen("localhost:0", m)
	test.DemandSuccess(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- srv.Serve(ctx)
	}()

	resp, err := http.Get("http://" + srv.Addr().String() + "/metrics")
	test.DemandSuccess(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, strings.Contains(string(body), `banglemu_router_events_total{source="terminal"} 1`))

	cancel()
	test.ExpectSuccess(t, <-done)
}
