package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arubanetworks/central-mcp-gateway/internal/auth"
	"github.com/arubanetworks/central-mcp-gateway/internal/breaker"
	"github.com/arubanetworks/central-mcp-gateway/internal/observability"
	"github.com/arubanetworks/central-mcp-gateway/internal/orchestrator"
	"github.com/arubanetworks/central-mcp-gateway/internal/reqid"
)

// secretArgNames are argument keys whose values are never logged verbatim,
// mirroring the handler contract's prohibition on leaking credentials.
var secretArgNames = map[string]bool{
	"client_secret": true,
	"access_token":  true,
}

// Dispatcher is the single entry point tool calls flow through.
type Dispatcher struct {
	registry *Registry
	tracer   *observability.Tracer
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewDispatcher wires a Registry to the observability shim.
func NewDispatcher(reg *Registry, tracer *observability.Tracer, metrics *observability.Metrics, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{registry: reg, tracer: tracer, metrics: metrics, logger: logger}
}

// ListTools returns the discovery payload.
func (d *Dispatcher) ListTools() []Descriptor {
	return d.registry.List()
}

// CallTool dispatches one invocation and always returns a well-formed
// report string: failures never propagate as protocol-level errors.
func (d *Dispatcher) CallTool(ctx context.Context, name string, args map[string]any) string {
	handler, ok := d.registry.Lookup(name)
	if !ok {
		correlationID := reqid.New(ctx, d.tracer)
		d.logger.With(zap.String("correlation_id", correlationID), zap.String("tool", name)).Warn("unknown tool requested")
		return fmt.Sprintf("[ERR] Unknown tool: %s", name)
	}

	ctx, span := d.tracer.StartToolSpan(ctx, name)
	defer span.End()

	correlationID := reqid.New(ctx, d.tracer)
	logger := d.logger.With(zap.String("correlation_id", correlationID), zap.String("tool", name))

	if violations := Validate(handler.InputSchema(), args); len(violations) > 0 {
		logger.Info("rejected invalid input", zap.Int("violation_count", len(violations)))
		report := invalidInputReport(violations)
		d.tracer.SetSpanError(ctx, fmt.Errorf("invalid input"))
		if d.metrics != nil {
			d.metrics.RecordToolCall(name, "invalid_input", 0)
		}
		return report
	}

	logger.Info("dispatching tool call", zap.Any("args", redact(args)))

	start := time.Now()
	report, err := d.execute(ctx, handler, args)
	duration := time.Since(start)

	outcome := "success"
	if err != nil {
		outcome = "error"
		d.tracer.SetSpanError(ctx, err)
		logger.Error("tool call failed", zap.Error(err), zap.Duration("duration", duration))
		report = errorEnvelope(name, err)
	} else {
		logger.Info("tool call succeeded", zap.Duration("duration", duration))
	}

	if d.metrics != nil {
		d.metrics.RecordToolCall(name, outcome, duration)
	}

	return report
}

// execute recovers from a handler panic and folds it into the same
// "Other" error kind a returned error would hit, so a programming bug in
// one handler can never crash the server.
func (d *Dispatcher) execute(ctx context.Context, handler Handler, args map[string]any) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Execute(ctx, args)
}

func invalidInputReport(violations []Violation) string {
	var b strings.Builder
	b.WriteString("[ERR] Invalid input")
	for _, v := range violations {
		fmt.Fprintf(&b, "\n- %s %s", v.Field, v.Reason)
	}
	return b.String()
}

// errorEnvelope maps each error kind to its message-prefix.
func errorEnvelope(tool string, err error) string {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return "[ERR] Authentication failed"
	}
	if errors.Is(err, breaker.ErrOpen) {
		return "[ERR] Upstream temporarily unavailable"
	}

	var clientErr *orchestrator.UpstreamClientError
	if errors.As(err, &clientErr) {
		return fmt.Sprintf("[ERR] %s: %s", tool, reasonForStatus(clientErr.StatusCode))
	}

	var unavailableErr *orchestrator.UpstreamUnavailableError
	if errors.As(err, &unavailableErr) {
		return fmt.Sprintf("[ERR] %s: Upstream server error", tool)
	}

	var timeoutErr *orchestrator.TimeoutError
	if errors.As(err, &timeoutErr) {
		return fmt.Sprintf("[ERR] %s: Request timed out", tool)
	}

	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return fmt.Sprintf("[ERR] %s: %s %s", tool, schemaErr.Field, schemaErr.Reason)
	}

	return fmt.Sprintf("[ERR] %s: %s", tool, shortMessage(err))
}

func reasonForStatus(statusCode int) string {
	switch statusCode {
	case 400:
		return "bad request"
	case 403:
		return "forbidden"
	case 404:
		return "not found"
	case 429:
		return "rate limited by vendor"
	default:
		return fmt.Sprintf("request rejected (%d)", statusCode)
	}
}

// shortMessage trims a wrapped error chain down to something safe and
// concise to show the model; it never includes request bodies or headers.
func shortMessage(err error) string {
	msg := err.Error()
	const maxLen = 200
	if len(msg) > maxLen {
		return msg[:maxLen] + "…"
	}
	return msg
}

// redact replaces any argument whose key names a known secret so it never
// reaches the logs.
func redact(args map[string]any) map[string]any {
	redacted := make(map[string]any, len(args))
	for k, v := range args {
		if secretArgNames[k] {
			redacted[k] = "****"
			continue
		}
		redacted[k] = v
	}
	return redacted
}
