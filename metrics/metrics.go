// Package metrics records search and pipeline activity as Prometheus metrics.
package metrics

import (
	"fmt"
	"time"

	"github.com/poiesic/alphagraph/core"
	"github.com/poiesic/alphagraph/pipeline"
	"github.com/poiesic/alphagraph/search"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "alphagraph"

// Recorder collects metrics for one process. It implements
// search.SearchMonitor and pipeline.StageObserver.
type Recorder struct {
	registry *prometheus.Registry

	searchTotal      prometheus.Counter
	searchDuration   prometheus.Histogram
	searchCandidates prometheus.Histogram
	searchResults    prometheus.Histogram
	topScore         prometheus.Gauge

	buildChunks    prometheus.Counter
	buildCacheHits prometheus.Counter
	buildDuration  prometheus.Histogram

	stageTotal    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

var (
	_ search.SearchMonitor   = (*Recorder)(nil)
	_ pipeline.StageObserver = (*Recorder)(nil)
)

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	r := &Recorder{
		registry: registry,
		searchTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "queries_total",
			Help:      "Total fused searches executed.",
		}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Fused search duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
		searchCandidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "vector_candidates",
			Help:      "Vector candidates considered per search.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128},
		}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "results",
			Help:      "Results returned per search.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
		topScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "top_score",
			Help:      "Fused score of the best result of the most recent search.",
		}),
		buildChunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "index",
			Name:      "chunks_total",
			Help:      "Chunks embedded into built indexes.",
		}),
		buildCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "index",
			Name:      "cache_hits_total",
			Help:      "Chunk embeddings served from the embedding cache.",
		}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "index",
			Name:      "build_duration_seconds",
			Help:      "Index build duration in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
		}),
		stageTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_runs_total",
			Help:      "Pipeline stage executions by stage and status.",
		}, []string{"stage", "status"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
	}

	registry.MustRegister(
		r.searchTotal, r.searchDuration, r.searchCandidates, r.searchResults, r.topScore,
		r.buildChunks, r.buildCacheHits, r.buildDuration,
		r.stageTotal, r.stageDuration,
	)
	return r
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) Start(_ string) {
	r.searchTotal.Inc()
}

func (r *Recorder) AfterVectorSearch(neighbors []search.Neighbor) {
	r.searchCandidates.Observe(float64(len(neighbors)))
}

func (r *Recorder) AfterLexicalScoring(_ []float64) {}

func (r *Recorder) Finish(results []core.ScoredResult, elapsed time.Duration) {
	r.searchDuration.Observe(elapsed.Seconds())
	r.searchResults.Observe(float64(len(results)))
	if len(results) > 0 {
		r.topScore.Set(results[0].Score)
	}
}

func (r *Recorder) BuildFinished(chunks, cacheHits int, elapsed time.Duration) {
	r.buildChunks.Add(float64(chunks))
	r.buildCacheHits.Add(float64(cacheHits))
	r.buildDuration.Observe(elapsed.Seconds())
}

// ObserveStage records one pipeline stage execution.
func (r *Recorder) ObserveStage(stage string, elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.stageTotal.WithLabelValues(stage, status).Inc()
	r.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// WriteTextfile writes every collected metric to path in the text exposition
// format, for pickup by a node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
