package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TracingConfig configures the OpenTelemetry tracer provider.
type TracingConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	OTLPEndpoint   string
	SampleRate     float64
}

// Tracer wraps an OpenTelemetry tracer, becoming a no-op when tracing is
// disabled so call sites never need to branch on Enabled themselves.
type Tracer struct {
	logger   *zap.Logger
	config   TracingConfig
	tracer   oteltrace.Tracer
	provider *trace.TracerProvider
	enabled  bool
}

// NewTracer builds a Tracer. When cfg.Enabled is false it returns
// immediately with a disabled, no-op tracer.
func NewTracer(logger *zap.Logger, cfg TracingConfig) (*Tracer, error) {
	t := &Tracer{logger: logger, config: cfg, enabled: cfg.Enabled}
	if !cfg.Enabled {
		logger.Info("tracing disabled")
		return t, nil
	}

	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: creating OTLP exporter: %w", err)
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: building resource: %w", err)
	}

	t.provider = trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(cfg.SampleRate)),
	)
	otel.SetTracerProvider(t.provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.tracer = otel.Tracer(cfg.ServiceName)

	logger.Info("tracing initialized",
		zap.String("service_name", cfg.ServiceName),
		zap.String("otlp_endpoint", cfg.OTLPEndpoint),
		zap.Float64("sample_rate", cfg.SampleRate))

	return t, nil
}

// Shutdown flushes and stops the tracer provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if !t.enabled || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// Enabled reports whether tracing is active.
func (t *Tracer) Enabled() bool { return t.enabled }

// StartToolSpan opens a span for one call_tool dispatch.
func (t *Tracer) StartToolSpan(ctx context.Context, tool string) (context.Context, oteltrace.Span) {
	if !t.enabled {
		return ctx, oteltrace.SpanFromContext(ctx)
	}
	return t.tracer.Start(ctx, "tool.call", oteltrace.WithAttributes(
		attribute.String("tool.name", tool),
	))
}

// StartAPICallSpan opens a span for one orchestrator.Call invocation.
func (t *Tracer) StartAPICallSpan(ctx context.Context, method, endpoint string) (context.Context, oteltrace.Span) {
	if !t.enabled {
		return ctx, oteltrace.SpanFromContext(ctx)
	}
	return t.tracer.Start(ctx, "api.call", oteltrace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.endpoint", endpoint),
	))
}

// SetSpanError marks the current span as failed.
func (t *Tracer) SetSpanError(ctx context.Context, err error) {
	if !t.enabled || err == nil {
		return
	}
	span := oteltrace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.Bool("error", true),
		attribute.String("error.message", err.Error()),
	)
}

// SpanID returns the current span's id as a correlation id, or "" if
// tracing is disabled or no span is active (the fallback to a
// generated id belongs to internal/reqid).
func (t *Tracer) SpanID(ctx context.Context) string {
	if !t.enabled {
		return ""
	}
	span := oteltrace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().SpanID().String()
}
