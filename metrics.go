package cwater

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stage names passed to MetricsCollector.RecordStage.
const (
	StageLoad    = "load"
	StageFilter  = "filter"
	StageCollect = "collect"
	StageCluster = "cluster"
	StageScore   = "score"
	StagePublish = "publish"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// see metric/prometheus for a ready-made adapter.
type MetricsCollector interface {
	// RecordStage is called after each pipeline stage.
	// duration is the time taken, err is nil if successful.
	RecordStage(stage string, duration time.Duration, err error)

	// RecordExcluded is called for every structure dropped from a run.
	// reason is "load", "parse" or "refinement".
	RecordExcluded(reason string)

	// RecordClusters is called once per clustered run with the merged water
	// count, the number of flat clusters and the number of accepted ones.
	RecordClusters(waters, clusters, accepted int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordStage(string, time.Duration, error) {}
func (NoopMetricsCollector) RecordExcluded(string)                    {}
func (NoopMetricsCollector) RecordClusters(int, int, int)             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	Runs           atomic.Int64
	Waters         atomic.Int64
	Clusters       atomic.Int64
	Accepted       atomic.Int64
	StageCount     atomic.Int64
	StageErrors    atomic.Int64
	StageTotalNano atomic.Int64

	mu       sync.Mutex
	excluded map[string]int64
}

// RecordStage implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStage(stage string, duration time.Duration, err error) {
	b.StageCount.Add(1)
	b.StageTotalNano.Add(duration.Nanoseconds())
	if err != nil {
		b.StageErrors.Add(1)
	}
}

// RecordExcluded implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExcluded(reason string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.excluded == nil {
		b.excluded = make(map[string]int64)
	}
	b.excluded[reason]++
}

// RecordClusters implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClusters(waters, clusters, accepted int) {
	b.Runs.Add(1)
	b.Waters.Add(int64(waters))
	b.Clusters.Add(int64(clusters))
	b.Accepted.Add(int64(accepted))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	b.mu.Lock()
	excluded := make(map[string]int64, len(b.excluded))
	for k, v := range b.excluded {
		excluded[k] = v
	}
	b.mu.Unlock()

	stats := BasicMetricsStats{
		Runs:        b.Runs.Load(),
		Waters:      b.Waters.Load(),
		Clusters:    b.Clusters.Load(),
		Accepted:    b.Accepted.Load(),
		StageCount:  b.StageCount.Load(),
		StageErrors: b.StageErrors.Load(),
		Excluded:    excluded,
	}
	if stats.StageCount > 0 {
		stats.StageAvgNanos = b.StageTotalNano.Load() / stats.StageCount
	}
	return stats
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	Runs          int64
	Waters        int64
	Clusters      int64
	Accepted      int64
	StageCount    int64
	StageErrors   int64
	StageAvgNanos int64
	Excluded      map[string]int64
}
