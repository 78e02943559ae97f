// Package reqid generates the correlation id attached to every dispatcher
// log line: the OTel span id when tracing is enabled,
// otherwise a generated id.
package reqid

import (
	"context"

	"github.com/google/uuid"

	"github.com/arubanetworks/central-mcp-gateway/internal/observability"
)

// New returns the current span id from tracer, if tracing produced one for
// ctx, or a freshly generated id otherwise.
func New(ctx context.Context, tracer *observability.Tracer) string {
	if tracer != nil {
		if id := tracer.SpanID(ctx); id != "" {
			return id
		}
	}
	return uuid.NewString()
}
