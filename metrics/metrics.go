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

package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/banglemu/banglemu/curated"
	"github.com/banglemu/banglemu/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sentinal errors.
const (
	ListenFailed = "metrics: cannot listen on %s: %v"
)

const namespace = "banglemu"

// Metrics is the collection of Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	events      *prometheus.CounterVec
	advance     prometheus.Histogram
	frames      prometheus.Counter
	consoleIn   prometheus.Counter
	consoleOut  prometheus.Counter
	clients     prometheus.Gauge
	replaced    prometheus.Counter
	dropped     prometheus.Counter
	deviceCalls prometheus.Counter
}

// NewMetrics is the preferred method of initialisation for the Metrics type.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "router",
			Name:      "events_total",
			Help:      "Number of events applied to the device, by source.",
		}, []string{"source"}),

		advance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "device",
			Name:      "advance_seconds",
			Help:      "Wall time taken to advance the device.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),

		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "device",
			Name:      "frames_total",
			Help:      "Number of changed frames read from display memory.",
		}),

		deviceCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "device",
			Name:      "operations_total",
			Help:      "Number of operations performed on the device.",
		}),

		consoleIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "console",
			Name:      "input_bytes_total",
			Help:      "Bytes written to the device console.",
		}),

		consoleOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "console",
			Name:      "output_bytes_total",
			Help:      "Bytes of console output generated by the device.",
		}),

		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "console",
			Name:      "clients",
			Help:      "Number of connected console clients.",
		}),

		replaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "console",
			Name:      "replaced_total",
			Help:      "Number of console connections replaced by a newer connection.",
		}),

		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "console",
			Name:      "dropped_total",
			Help:      "Number of output messages dropped by the console bridge.",
		}),
	}

	m.registry.MustRegister(
		m.events, m.advance, m.frames, m.deviceCalls,
		m.consoleIn, m.consoleOut, m.clients, m.replaced, m.dropped,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the registry that the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Event counts an event from the named source.
func (m *Metrics) Event(source string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(source).Inc()
}

// Advance records the time taken to advance the device.
func (m *Metrics) Advance(d time.Duration) {
	if m == nil {
		return
	}
	m.advance.Observe(d.Seconds())
}

// Frame counts a changed frame.
func (m *Metrics) Frame() {
	if m == nil {
		return
	}
	m.frames.Inc()
}

// DeviceOperation counts an operation performed on the device.
func (m *Metrics) DeviceOperation() {
	if m == nil {
		return
	}
	m.deviceCalls.Inc()
}

// ConsoleIn counts bytes written to the device console.
func (m *Metrics) ConsoleIn(n int) {
	if m == nil {
		return
	}
	m.consoleIn.Add(float64(n))
}

// ConsoleOut counts bytes of console output.
func (m *Metrics) ConsoleOut(n int) {
	if m == nil {
		return
	}
	m.consoleOut.Add(float64(n))
}

// ClientConnected increases the number of connected console clients.
func (m *Metrics) ClientConnected() {
	if m == nil {
		return
	}
	m.clients.Inc()
}

// ClientDisconnected decreases the number of connected console clients.
func (m *Metrics) ClientDisconnected() {
	if m == nil {
		return
	}
	m.clients.Dec()
}

// Replaced counts a replaced console connection.
func (m *Metrics) Replaced() {
	if m == nil {
		return
	}
	m.replaced.Inc()
}

// Dropped counts a dropped output message.
func (m *Metrics) Dropped() {
	if m == nil {
		return
	}
	m.dropped.Inc()
}

// Handler returns the HTTP handler that serves the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Server serves the metrics over HTTP.
type Server struct {
	ln  net.Listener
	srv *http.Server
}

// Listen creates a Server listening on the address. The metrics are served
// at the /metrics path.
func Listen(addr string, m *Metrics) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, curated.Errorf(ListenFailed, addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	return &Server{
		ln: ln,
		srv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	logger.Logf(logger.Allow, "metrics", "serving on %s", s.ln.Addr())

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdown)
	}()

	err := s.srv.Serve(s.ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
