// Package observability wires Prometheus metrics and OpenTelemetry tracing
// for the gateway: per-endpoint API call counts, token refresh counts,
// breaker state, and rate-limiter utilization.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds every Prometheus collector the gateway exposes.
type Metrics struct {
	registry *prometheus.Registry

	apiCallsTotal   *prometheus.CounterVec
	apiCallDuration *prometheus.HistogramVec

	tokenRefreshesTotal *prometheus.CounterVec

	breakerState           prometheus.Gauge
	breakerConsecutiveFail prometheus.Gauge

	rateLimiterTokensAvailable prometheus.Gauge
	rateLimiterUtilizationPct  prometheus.Gauge

	toolCallsTotal   *prometheus.CounterVec
	toolCallDuration *prometheus.HistogramVec
}

// NewMetrics builds and registers every collector on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		apiCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arubamcp_api_calls_total",
			Help: "Total vendor API calls by endpoint and status class.",
		}, []string{"endpoint", "status_class"}),
		apiCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arubamcp_api_call_duration_seconds",
			Help:    "Vendor API call duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint", "status_class"}),
		tokenRefreshesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arubamcp_token_refreshes_total",
			Help: "Total OAuth2 token exchanges, by trigger (proactive, forced).",
		}, []string{"trigger"}),
		breakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arubamcp_circuit_breaker_state",
			Help: "Circuit breaker state: 0=closed, 1=open, 2=half_open.",
		}),
		breakerConsecutiveFail: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arubamcp_circuit_breaker_consecutive_failures",
			Help: "Consecutive failures recorded by the circuit breaker.",
		}),
		rateLimiterTokensAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arubamcp_rate_limiter_tokens_available",
			Help: "Tokens currently available in the rate limiter bucket.",
		}),
		rateLimiterUtilizationPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arubamcp_rate_limiter_utilization_percent",
			Help: "Rate limiter bucket utilization, 0-100.",
		}),
		toolCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arubamcp_tool_calls_total",
			Help: "Total tool invocations by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		toolCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arubamcp_tool_call_duration_seconds",
			Help:    "Tool invocation duration in seconds.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"tool", "outcome"}),
	}

	registry.MustRegister(
		m.apiCallsTotal,
		m.apiCallDuration,
		m.tokenRefreshesTotal,
		m.breakerState,
		m.breakerConsecutiveFail,
		m.rateLimiterTokensAvailable,
		m.rateLimiterUtilizationPct,
		m.toolCallsTotal,
		m.toolCallDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry exposes the underlying registry for a /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// RecordAPICall records one vendor API call's status class and duration.
func (m *Metrics) RecordAPICall(endpoint, statusClass string, d time.Duration) {
	m.apiCallsTotal.WithLabelValues(endpoint, statusClass).Inc()
	m.apiCallDuration.WithLabelValues(endpoint, statusClass).Observe(d.Seconds())
}

// RecordTokenRefresh records an OAuth2 exchange, tagged by what triggered it.
func (m *Metrics) RecordTokenRefresh(trigger string) {
	m.tokenRefreshesTotal.WithLabelValues(trigger).Inc()
}

// SetBreakerState reports the breaker's current numeric state and streak.
func (m *Metrics) SetBreakerState(state int, consecutiveFailures int) {
	m.breakerState.Set(float64(state))
	m.breakerConsecutiveFail.Set(float64(consecutiveFailures))
}

// SetRateLimiterSnapshot reports the bucket's current fill level.
func (m *Metrics) SetRateLimiterSnapshot(tokensAvailable float64, utilizationPct float64) {
	m.rateLimiterTokensAvailable.Set(tokensAvailable)
	m.rateLimiterUtilizationPct.Set(utilizationPct)
}

// RecordToolCall records a tool invocation's outcome and duration.
func (m *Metrics) RecordToolCall(tool, outcome string, d time.Duration) {
	m.toolCallsTotal.WithLabelValues(tool, outcome).Inc()
	m.toolCallDuration.WithLabelValues(tool, outcome).Observe(d.Seconds())
}
