// Package rulemetrics exposes Prometheus counters and histograms for the
// rule classification engine: per-outcome evaluation counts, evaluation
// latency, and result-cache hit/miss rates.
package rulemetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Collector holds every metric the engine reports and serves them over
// HTTP in Prometheus exposition format.
type Collector struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	cacheHitsTotal     prometheus.Counter
	cacheMissesTotal   prometheus.Counter
	batchSize          prometheus.Histogram

	httpHandler fasthttp.RequestHandler
}

// Outcome labels reported on evaluations_total.
const (
	OutcomeMatched    = "matched"
	OutcomeNoMatch    = "no_match"
	OutcomeInvalidURL = "invalid_url"
)

// New creates a metrics collector under namespace, registered against the
// default Prometheus registry.
func New(namespace string) *Collector {
	return NewWithRegistry(namespace, prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a metrics collector registered against registerer,
// useful for tests that want an isolated registry.
func NewWithRegistry(namespace string, registerer prometheus.Registerer) *Collector {
	c := &Collector{}

	c.evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "evaluations_total",
			Help:      "Total number of URL evaluations by outcome",
		},
		[]string{"outcome"},
	)

	c.evaluationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "evaluation_duration_seconds",
			Help:      "Time taken to evaluate a single URL against the rule set",
			Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 12),
		},
	)

	c.cacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "result_cache_hits_total",
			Help:      "Total number of evaluate results served from the result cache",
		},
	)

	c.cacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "result_cache_misses_total",
			Help:      "Total number of evaluations that missed the result cache",
		},
	)

	c.batchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "batch_size",
			Help:      "Number of URL lines processed per batch run",
			Buckets:   prometheus.ExponentialBuckets(1, 8, 10),
		},
	)

	registerer.MustRegister(
		c.evaluationsTotal,
		c.evaluationDuration,
		c.cacheHitsTotal,
		c.cacheMissesTotal,
		c.batchSize,
	)

	gatherer, ok := registerer.(prometheus.Gatherer)
	if !ok {
		gatherer = prometheus.DefaultGatherer
	}
	c.httpHandler = fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return c
}

// RecordEvaluation records one URL evaluation's outcome and latency.
func (c *Collector) RecordEvaluation(outcome string, duration time.Duration) {
	c.evaluationsTotal.WithLabelValues(outcome).Inc()
	c.evaluationDuration.Observe(duration.Seconds())
}

// RecordCacheHit records a result served from the result cache.
func (c *Collector) RecordCacheHit() {
	c.cacheHitsTotal.Inc()
}

// RecordCacheMiss records an evaluation that required a real rule-engine pass.
func (c *Collector) RecordCacheMiss() {
	c.cacheMissesTotal.Inc()
}

// RecordBatchSize records the number of URL lines in one batch run.
func (c *Collector) RecordBatchSize(n int) {
	c.batchSize.Observe(float64(n))
}

// ServeHTTP serves the collected metrics in Prometheus exposition format.
func (c *Collector) ServeHTTP(ctx *fasthttp.RequestCtx) {
	c.httpHandler(ctx)
}
