package host

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports per-tree tick statistics.
type Metrics struct {
	ticks    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	drift    *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modtree_ticks_total",
				Help: "Total number of ticks per parameter tree",
			},
			[]string{"tree"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "modtree_tick_duration_seconds",
				Help:    "Duration of one tree tick",
				Buckets: prometheus.ExponentialBuckets(1e-7, 4, 10),
			},
			[]string{"tree"},
		),
		drift: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "modtree_drifting_nodes",
				Help: "Nodes whose value was outside their bounds after the last checked tick",
			},
			[]string{"tree"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.ticks, m.duration, m.drift} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

func (m *Metrics) observeTick(tree string, d time.Duration) {
	if m == nil {
		return
	}
	m.ticks.WithLabelValues(tree).Inc()
	m.duration.WithLabelValues(tree).Observe(d.Seconds())
}

func (m *Metrics) observeDrift(tree string, n int) {
	if m == nil {
		return
	}
	m.drift.WithLabelValues(tree).Set(float64(n))
}
