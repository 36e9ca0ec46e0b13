package asyncpipe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors shared by every pipe configured
// with WithMetrics. A nil *Metrics records nothing.
type Metrics struct {
	bytes      *prometheus.CounterVec
	parks      *prometheus.CounterVec
	brokenPipe prometheus.Counter
	buffered   prometheus.Gauge
	open       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		bytes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "asyncpipe",
			Name:      "bytes_total",
			Help:      "Bytes moved through pipes, by direction.",
		}, []string{"direction"}),
		parks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "asyncpipe",
			Name:      "parks_total",
			Help:      "Times a writer or reader suspended waiting for its counterpart.",
		}, []string{"side"}),
		brokenPipe: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "asyncpipe",
			Name:      "broken_pipe_total",
			Help:      "Writes rejected because the read end was closed.",
		}),
		buffered: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "asyncpipe",
			Name:      "buffered_bytes",
			Help:      "Bytes written but not yet read, across live pipes.",
		}),
		open: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "asyncpipe",
			Name:      "open_pipes",
			Help:      "Pipes whose shared state has not been released.",
		}),
	}
}

func (m *Metrics) wrote(n int) {
	if m == nil || n == 0 {
		return
	}
	m.bytes.WithLabelValues("write").Add(float64(n))
	m.buffered.Add(float64(n))
}

func (m *Metrics) read(n int) {
	if m == nil || n == 0 {
		return
	}
	m.bytes.WithLabelValues("read").Add(float64(n))
	m.buffered.Sub(float64(n))
}

func (m *Metrics) parked(side string) {
	if m == nil {
		return
	}
	m.parks.WithLabelValues(side).Inc()
}

func (m *Metrics) broken() {
	if m == nil {
		return
	}
	m.brokenPipe.Inc()
}

func (m *Metrics) opened() {
	if m == nil {
		return
	}
	m.open.Inc()
}

// released accounts for a pipe whose leftover bytes were dropped unread.
func (m *Metrics) released(dropped int) {
	if m == nil {
		return
	}
	m.open.Dec()
	m.buffered.Sub(float64(dropped))
}
