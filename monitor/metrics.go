package monitor

import (
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"

	swmetrics "github.com/fluxcd/statwatch/metrics"
)

var (
	cycleCount = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: swmetrics.Namespace,
		Subsystem: "monitor",
		Name:      "cycles_total",
		Help:      "Number of sampling cycles, by the stage reached and whether it succeeded.",
	}, []string{swmetrics.LabelStage, swmetrics.LabelSuccess})

	fetchDuration = prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
		Namespace: swmetrics.Namespace,
		Subsystem: "monitor",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of fetching a status snapshot, in seconds.",
		Buckets:   stdprometheus.ExponentialBuckets(0.001, 4, 8),
	}, []string{swmetrics.LabelSuccess})

	trackedPaths = prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
		Namespace: swmetrics.Namespace,
		Subsystem: "monitor",
		Name:      "paths",
		Help:      "Number of paths whose last value is being kept.",
	}, []string{})
)
