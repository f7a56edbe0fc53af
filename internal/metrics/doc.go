// Package metrics exposes the gateway's Prometheus instruments: request
// counts by policy/model/strategy, success/failure counters, the latency
// decomposition (classifier time, LLM time, overhead), and token usage by
// LLM and category. Instruments are registered via promauto so callers
// never touch the default registry directly.
package metrics
