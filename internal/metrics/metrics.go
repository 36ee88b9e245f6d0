// Package metrics records packing runs as Prometheus metrics on a private
// registry, so the CLI can drop them into a node_exporter textfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/piwi3910/BoxStack/internal/model"
)

const namespace = "boxstack"

// Recorder holds the pack collectors and the registry they live on.
type Recorder struct {
	registry *prometheus.Registry

	runs       *prometheus.CounterVec
	placed     *prometheus.CounterVec
	unplaced   *prometheus.CounterVec
	efficiency *prometheus.GaugeVec
	duration   *prometheus.HistogramVec
}

// NewRecorder creates the collectors and registers them.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pack_runs_total",
				Help:      "Total number of packing runs",
			},
			[]string{"container"},
		),
		placed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parts_placed_total",
				Help:      "Total number of part instances placed inside a container",
			},
			[]string{"container"},
		),
		unplaced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parts_unplaced_total",
				Help:      "Total number of part instances that found no room",
			},
			[]string{"container"},
		),
		efficiency: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "volume_efficiency_percent",
				Help:      "Share of container volume filled by the last run",
			},
			[]string{"container"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pack_duration_seconds",
				Help:      "Time taken by a packing run",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"algorithm"},
		),
	}
	r.registry.MustRegister(r.runs, r.placed, r.unplaced, r.efficiency, r.duration)
	return r
}

// Observe records one packing run.
func (r *Recorder) Observe(result model.PackResult, algorithm model.Algorithm, took time.Duration) {
	label := result.Container.Label
	placed := result.PlacedCount()

	r.runs.WithLabelValues(label).Inc()
	r.placed.WithLabelValues(label).Add(float64(placed))
	r.unplaced.WithLabelValues(label).Add(float64(len(result.Placements) - placed))
	r.efficiency.WithLabelValues(label).Set(result.Efficiency())
	r.duration.WithLabelValues(string(algorithm)).Observe(took.Seconds())
}

// Registry exposes the underlying registry as a Gatherer.
func (r *Recorder) Registry() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes every metric in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
