package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all collectors of the service on a private prometheus registry
type Registry struct {
	registry *prometheus.Registry

	GraphBuildsTotal        *prometheus.CounterVec
	GraphBuildDuration      prometheus.Histogram
	GraphNodes              prometheus.Histogram
	GraphEdges              prometheus.Histogram
	GraphSkippedEdgesTotal  *prometheus.CounterVec
	GraphCacheLookupsTotal  *prometheus.CounterVec
	GraphInvalidationsTotal *prometheus.CounterVec

	SuggestionTransitionsTotal *prometheus.CounterVec
	ObservationMergesTotal     *prometheus.CounterVec
	QueueMessagesTotal         *prometheus.CounterVec
}

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{registry: reg}
	r.initGraphMetrics()
	r.initSuggestionMetrics()
	return r
}

func (r *Registry) initGraphMetrics() {
	r.GraphBuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_graph_builds_total",
			Help: "Graph builds by outcome",
		},
		[]string{"status"},
	)

	r.GraphBuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "atlas_graph_build_duration_seconds",
			Help:    "Time to load and synthesize a graph",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.GraphNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "atlas_graph_nodes",
			Help:    "Nodes per built graph",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000},
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "atlas_graph_edges",
			Help:    "Edges per built graph",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 20000},
		},
	)

	r.GraphSkippedEdgesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_graph_skipped_edges_total",
			Help: "Edges dropped during synthesis",
		},
		[]string{"reason"},
	)

	r.GraphCacheLookupsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_graph_cache_lookups_total",
			Help: "Graph cache lookups by result",
		},
		[]string{"result"},
	)

	r.GraphInvalidationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_graph_invalidations_total",
			Help: "Graph cache invalidations by origin",
		},
		[]string{"origin"},
	)
}

func (r *Registry) initSuggestionMetrics() {
	r.SuggestionTransitionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_suggestion_transitions_total",
			Help: "Suggestion review transitions",
		},
		[]string{"transition"},
	)

	r.ObservationMergesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_observation_merges_total",
			Help: "Observation merges by outcome",
		},
		[]string{"outcome"},
	)

	r.QueueMessagesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_queue_messages_total",
			Help: "Observation stream messages by result",
		},
		[]string{"result"},
	)
}

// RecordGraphBuild records a successful or failed build
func (r *Registry) RecordGraphBuild(err error, duration time.Duration, nodes, edges int) {
	if err != nil {
		r.GraphBuildsTotal.WithLabelValues("error").Inc()
		return
	}
	r.GraphBuildsTotal.WithLabelValues("ok").Inc()
	r.GraphBuildDuration.Observe(duration.Seconds())
	r.GraphNodes.Observe(float64(nodes))
	r.GraphEdges.Observe(float64(edges))
}

func (r *Registry) RecordSkippedEdges(reason string, n int) {
	if n > 0 {
		r.GraphSkippedEdgesTotal.WithLabelValues(reason).Add(float64(n))
	}
}

func (r *Registry) RecordCacheLookup(hit bool) {
	if hit {
		r.GraphCacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	r.GraphCacheLookupsTotal.WithLabelValues("miss").Inc()
}

func (r *Registry) RecordInvalidation(origin string) {
	r.GraphInvalidationsTotal.WithLabelValues(origin).Inc()
}

func (r *Registry) RecordTransition(transition string) {
	r.SuggestionTransitionsTotal.WithLabelValues(transition).Inc()
}

func (r *Registry) RecordMerge(outcome string) {
	r.ObservationMergesTotal.WithLabelValues(outcome).Inc()
}

func (r *Registry) RecordQueueMessage(result string) {
	r.QueueMessagesTotal.WithLabelValues(result).Inc()
}

// RegisterPoolStats exposes database pool gauges read from stats on
// every scrape.
func (r *Registry) RegisterPoolStats(stats func() (total, idle, acquired int32)) {
	gauge := func(name, help string, pick func(total, idle, acquired int32) int32) {
		promauto.With(r.registry).NewGaugeFunc(
			prometheus.GaugeOpts{Name: name, Help: help},
			func() float64 { return float64(pick(stats())) },
		)
	}
	gauge("atlas_db_pool_total_conns", "Open connections in the pool",
		func(t, _, _ int32) int32 { return t })
	gauge("atlas_db_pool_idle_conns", "Idle connections in the pool",
		func(_, i, _ int32) int32 { return i })
	gauge("atlas_db_pool_acquired_conns", "Connections currently checked out",
		func(_, _, a int32) int32 { return a })
}

// Handler serves the registry in the prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
