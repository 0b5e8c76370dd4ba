// Package metrics defines the Prometheus collectors describing one indexing
// run. Collectors live on a private registry that is written out in the text
// exposition format at the end of the run, ready for a node-exporter textfile
// collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for a run.
type Metrics struct {
	registry         *prometheus.Registry
	TokensTotal      prometheus.Counter
	DistinctWords    prometheus.Gauge
	TableCapacity    prometheus.Gauge
	TableGrowsTotal  prometheus.Counter
	MaxProbeDistance prometheus.Gauge
	PhaseDuration    *prometheus.HistogramVec
	PublishTotal     *prometheus.CounterVec
	LastRunTimestamp prometheus.Gauge
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		TokensTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wordindex_tokens_total",
				Help: "Total word tokens read from the input.",
			},
		),
		DistinctWords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wordindex_distinct_words",
				Help: "Number of distinct words in the finished index.",
			},
		),
		TableCapacity: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wordindex_table_capacity",
				Help: "Slot count of the hash table after indexing.",
			},
		),
		TableGrowsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wordindex_table_grows_total",
				Help: "Number of times the hash table doubled.",
			},
		),
		MaxProbeDistance: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wordindex_max_probe_distance",
				Help: "Largest displacement of any entry from its home slot.",
			},
		),
		PhaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wordindex_phase_duration_seconds",
				Help:    "Duration of each run phase in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"phase"},
		),
		PublishTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordindex_publish_total",
				Help: "Sink publish attempts by sink and status.",
			},
			[]string{"sink", "status"},
		),
		LastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wordindex_last_run_timestamp_seconds",
				Help: "Unix time at which the run finished.",
			},
		),
	}

	m.registry.MustRegister(
		m.TokensTotal,
		m.DistinctWords,
		m.TableCapacity,
		m.TableGrowsTotal,
		m.MaxProbeDistance,
		m.PhaseDuration,
		m.PublishTotal,
		m.LastRunTimestamp,
	)

	return m
}

// WriteTextfile writes every collector to path, replacing the file
// atomically.
func (m *Metrics) WriteTextfile(path string) error {
	m.LastRunTimestamp.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, m.registry)
}
