// Package metrics collects the Prometheus counters and histograms the
// gateway exposes on /metrics. It is internal and should not be imported by
// external projects.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector owns every instrument the proxy orchestrator updates. Names and
// label sets are stable so dashboards built against them keep working.
type Collector struct {
	numRequests          prometheus.Counter
	requestsPerPolicy    *prometheus.CounterVec
	requestsPerModel     *prometheus.CounterVec
	routingPolicyUsage   *prometheus.CounterVec
	requestSuccess       prometheus.Counter
	requestFailure       *prometheus.CounterVec
	requestLatency       prometheus.Histogram
	modelSelectionTime   prometheus.Histogram
	llmResponseTime      *prometheus.HistogramVec
	proxyOverheadLatency prometheus.Histogram
	tokenUsage           *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector registers every instrument under namespace and returns the
// Collector the orchestrator records through.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.numRequests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "num_requests",
		Help:      "Total number of requests",
	})

	c.requestsPerPolicy = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_per_policy",
		Help:      "Total number of requests per policy",
	}, []string{"policy"})

	c.requestsPerModel = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_per_model",
		Help:      "Total number of requests per model",
	}, []string{"model"})

	c.routingPolicyUsage = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "routing_policy_usage",
		Help:      "Number of times each routing strategy was used",
	}, []string{"routing_policy"})

	c.requestSuccess = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_success_total",
		Help:      "Total successful requests",
	})

	c.requestFailure = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_failure_total",
		Help:      "Total failed requests, broken down by error type (4xx, 5xx, other, system)",
	}, []string{"error_type"})

	c.requestLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_latency_seconds",
		Help:      "Latency of processing requests in seconds",
		Buckets:   prometheus.DefBuckets,
	})

	c.modelSelectionTime = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "model_selection_time_seconds",
		Help:      "Time taken for model selection via the classifier",
		Buckets:   prometheus.DefBuckets,
	})

	c.llmResponseTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "llm_response_time_seconds",
		Help:      "Response time for each LLM",
		Buckets:   prometheus.DefBuckets,
	}, []string{"llm"})

	c.proxyOverheadLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "proxy_overhead_latency_seconds",
		Help:      "Overhead latency of the proxy: overall latency minus model selection and LLM response time",
		Buckets:   prometheus.DefBuckets,
	})

	c.tokenUsage = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "llm_token_usage",
		Help:      "Token usage per LLM and category (prompt, completion, total)",
	}, []string{"llm_name", "category"})

	return c
}

// RecordRequestStart marks the start of a request.
func (c *Collector) RecordRequestStart() {
	c.numRequests.Inc()
}

// RecordPolicyUsage increments the per-policy request counter.
func (c *Collector) RecordPolicyUsage(policy string) {
	c.requestsPerPolicy.WithLabelValues(policy).Inc()
}

// RecordModelUsage increments the per-model request counter.
func (c *Collector) RecordModelUsage(model string) {
	c.requestsPerModel.WithLabelValues(model).Inc()
}

// RecordRoutingStrategy increments the routing-strategy usage counter.
func (c *Collector) RecordRoutingStrategy(strategy string) {
	c.routingPolicyUsage.WithLabelValues(strategy).Inc()
}

// RecordOutcome increments the success counter, or the failure counter
// bucketed into "4xx", "5xx", "other" for any remaining status, or "system"
// for non-HTTP failures.
func (c *Collector) RecordOutcome(status int, systemFailure bool) {
	if systemFailure {
		c.requestFailure.WithLabelValues("system").Inc()
		return
	}
	if status >= 200 && status < 400 {
		c.requestSuccess.Inc()
		return
	}
	switch {
	case status >= 400 && status < 500:
		c.requestFailure.WithLabelValues("4xx").Inc()
	case status >= 500 && status < 600:
		c.requestFailure.WithLabelValues("5xx").Inc()
	default:
		c.requestFailure.WithLabelValues("other").Inc()
	}
}

// ObserveRequestLatency records the overall request latency.
func (c *Collector) ObserveRequestLatency(seconds float64) {
	c.requestLatency.Observe(seconds)
}

// ObserveModelSelectionTime records the time spent in the classifier call.
func (c *Collector) ObserveModelSelectionTime(seconds float64) {
	c.modelSelectionTime.Observe(seconds)
}

// ObserveLLMResponseTime records the time spent waiting on the chosen LLM.
func (c *Collector) ObserveLLMResponseTime(llm string, seconds float64) {
	c.llmResponseTime.WithLabelValues(llm).Observe(seconds)
}

// ObserveProxyOverhead records latency not attributable to the classifier or
// the LLM call.
func (c *Collector) ObserveProxyOverhead(seconds float64) {
	c.proxyOverheadLatency.Observe(seconds)
}

// RecordTokenUsage increments prompt/completion/total counters for llm from
// a parsed usage object. Zero-value fields are skipped, matching the
// upstream convention of omitting a category rather than reporting zero.
func (c *Collector) RecordTokenUsage(llm string, prompt, completion, total uint64) {
	if prompt > 0 {
		c.tokenUsage.WithLabelValues(llm, "prompt").Add(float64(prompt))
	}
	if completion > 0 {
		c.tokenUsage.WithLabelValues(llm, "completion").Add(float64(completion))
	}
	if total > 0 {
		c.tokenUsage.WithLabelValues(llm, "total").Add(float64(total))
	}
}
