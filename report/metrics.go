package report

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fluxcd/statwatch/diff"
	"github.com/fluxcd/statwatch/metrics"
)

// Metrics exposes changes to Prometheus: a count of changes per path,
// and the latest per-second rate of each path that has one.
type Metrics struct {
	changes *prometheus.CounterVec
	rate    *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "changes_total",
			Help:      "Number of samples in which the value at a path changed.",
		}, []string{metrics.LabelPath}),
		rate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metrics.Namespace,
			Name:      "rate",
			Help:      "Latest change per second of the value at a path; durations are in seconds.",
		}, []string{metrics.LabelPath}),
	}
	if reg != nil {
		reg.MustRegister(m.changes, m.rate)
	}
	return m
}

func (m *Metrics) Report(at time.Time, changes []diff.Change) error {
	for _, c := range changes {
		m.changes.WithLabelValues(c.Path).Inc()

		// with a one second interval the delta is the rate
		rate := c.Rate
		if !c.HasRate() {
			rate = c.Delta
		}
		if secs, ok := rate.Seconds(); ok {
			m.rate.WithLabelValues(c.Path).Set(secs)
		}
	}
	return nil
}
