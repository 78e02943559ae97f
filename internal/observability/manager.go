package observability

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/arubanetworks/central-mcp-gateway/internal/config"
)

// ServiceName identifies this process to the trace backend; the service
// version is the version argument passed to New.
const ServiceName = "arubamcp"

// Manager bundles the metrics registry and tracer behind the single
// ObservabilityEnabled / TracingEnabled switches in config.Config.
type Manager struct {
	Metrics *Metrics
	Tracer  *Tracer
}

// New builds a Manager honoring cfg.ObservabilityEnabled and
// cfg.TracingEnabled. Metrics are always collected internally (cheap,
// in-process counters); ObservabilityEnabled gates whether anything reads
// them, so the manager always returns a non-nil *Metrics.
func New(cfg *config.Config, version string, logger *zap.Logger) (*Manager, error) {
	tracer, err := NewTracer(logger, TracingConfig{
		Enabled:        cfg.ObservabilityEnabled && cfg.TracingEnabled,
		ServiceName:    ServiceName,
		ServiceVersion: version,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     1.0,
	})
	if err != nil {
		return nil, err
	}

	return &Manager{
		Metrics: NewMetrics(),
		Tracer:  tracer,
	}, nil
}

// MetricsHandler returns an HTTP handler for a /metrics scrape endpoint.
func (m *Manager) MetricsHandler() http.Handler {
	return metricsHandler(m.Metrics.Registry())
}

// StatusClass buckets an HTTP status code into the label used by
// RecordAPICall, e.g. 200 -> "2xx", 503 -> "5xx".
func StatusClass(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
