// Package prometheus exports cwater run metrics to a Prometheus registry.
package prometheus

import (
	"time"

	"github.com/hupe1980/cwater"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cwater"

// Collector implements cwater.MetricsCollector on top of client_golang.
type Collector struct {
	stageLatency *prometheus.HistogramVec
	excluded     *prometheus.CounterVec
	runs         prometheus.Counter
	waters       prometheus.Counter
	clusters     prometheus.Counter
	accepted     prometheus.Counter
	lastWaters   prometheus.Gauge
}

var _ cwater.MetricsCollector = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		stageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage", "status"}),
		excluded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "structures_excluded_total",
			Help:      "Structures dropped from runs",
		}, []string{"reason"}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clusterings_total",
			Help:      "Completed clusterings",
		}),
		waters: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waters_clustered_total",
			Help:      "Water oxygens passed to the clusterer",
		}),
		clusters: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clusters_total",
			Help:      "Flat clusters produced",
		}),
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clusters_accepted_total",
			Help:      "Clusters at or above the probability cutoff",
		}),
		lastWaters: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_waters",
			Help:      "Merged water count of the most recent clustering",
		}),
	}

	for _, m := range []prometheus.Collector{
		c.stageLatency, c.excluded, c.runs, c.waters, c.clusters, c.accepted, c.lastWaters,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// RecordStage implements cwater.MetricsCollector.
func (c *Collector) RecordStage(stage string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.stageLatency.WithLabelValues(stage, status).Observe(duration.Seconds())
}

// RecordExcluded implements cwater.MetricsCollector.
func (c *Collector) RecordExcluded(reason string) {
	c.excluded.WithLabelValues(reason).Inc()
}

// RecordClusters implements cwater.MetricsCollector.
func (c *Collector) RecordClusters(waters, clusters, accepted int) {
	c.runs.Inc()
	c.waters.Add(float64(waters))
	c.clusters.Add(float64(clusters))
	c.accepted.Add(float64(accepted))
	c.lastWaters.Set(float64(waters))
}
