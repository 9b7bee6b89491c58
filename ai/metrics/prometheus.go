// Package metrics provides Prometheus metrics export for the writing assistant.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quillzy"

// PrometheusExporter exports AI metrics in Prometheus format.
type PrometheusExporter struct {
	registry *prometheus.Registry

	// Writing assistant metrics
	writingRequests *prometheus.CounterVec
	writingLatency  *prometheus.HistogramVec
	writingActive   prometheus.Gauge

	// Remote model metrics
	llmCalls   *prometheus.CounterVec
	llmLatency *prometheus.HistogramVec

	// Result cache metrics
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
}

// Config configures the Prometheus exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64

	// RuntimeCollectors adds the Go runtime and process collectors.
	RuntimeCollectors bool
}

// DefaultConfig returns default Prometheus configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}
}

// NewPrometheusExporter creates a new Prometheus metrics exporter.
func NewPrometheusExporter(cfg Config) *PrometheusExporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &PrometheusExporter{registry: registry}

	e.writingRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "writing",
			Name:      "requests_total",
			Help:      "Total number of writing assistant requests by result source",
		},
		[]string{"operation", "source"},
	)

	e.writingLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "writing",
			Name:      "latency_seconds",
			Help:      "Writing assistant request latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"operation", "source"},
	)

	e.writingActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "writing",
			Name:      "active",
			Help:      "Number of writing assistant requests in flight",
		},
	)

	e.llmCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Total number of remote model attempts",
		},
		[]string{"model", "status"},
	)

	e.llmLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "latency_seconds",
			Help:      "Remote model attempt latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"model"},
	)

	e.cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of cache hits",
		},
		[]string{"operation"},
	)

	e.cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of cache misses",
		},
		[]string{"operation"},
	)

	registry.MustRegister(
		e.writingRequests,
		e.writingLatency,
		e.writingActive,
		e.llmCalls,
		e.llmLatency,
		e.cacheHits,
		e.cacheMisses,
	)
	if cfg.RuntimeCollectors {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return e
}

// RecordWritingRequest records a completed writing request and where its
// result came from (llm, cache or fallback).
func (e *PrometheusExporter) RecordWritingRequest(operation, source string, latency time.Duration) {
	e.writingRequests.WithLabelValues(operation, source).Inc()
	e.writingLatency.WithLabelValues(operation, source).Observe(latency.Seconds())
}

// TrackActive increments the in-flight gauge and returns the matching
// decrement.
func (e *PrometheusExporter) TrackActive() func() {
	e.writingActive.Inc()
	return e.writingActive.Dec
}

// RecordLLMCall records one remote model attempt.
func (e *PrometheusExporter) RecordLLMCall(model string, latency time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	e.llmCalls.WithLabelValues(model, status).Inc()
	e.llmLatency.WithLabelValues(model).Observe(latency.Seconds())
}

// RecordCacheHit records a cache hit.
func (e *PrometheusExporter) RecordCacheHit(operation string) {
	e.cacheHits.WithLabelValues(operation).Inc()
}

// RecordCacheMiss records a cache miss.
func (e *PrometheusExporter) RecordCacheMiss(operation string) {
	e.cacheMisses.WithLabelValues(operation).Inc()
}

// Handler returns an HTTP handler for the metrics endpoint.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{Registry: e.registry})
}

// Registry returns the Prometheus registry.
func (e *PrometheusExporter) Registry() *prometheus.Registry {
	return e.registry
}
