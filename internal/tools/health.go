package tools

import (
	"context"

	"github.com/arubanetworks/central-mcp-gateway/internal/health"
	"github.com/arubanetworks/central-mcp-gateway/internal/registry"
)

// ServerHealthHandler adapts health.Probe to registry.Handler as the
// check_server_health pseudo-tool; unlike every other handler it never
// calls through the orchestrator, so a dead circuit breaker cannot hide
// its own status from a caller.
type ServerHealthHandler struct {
	probe *health.Probe
}

func NewServerHealthHandler(probe *health.Probe) *ServerHealthHandler {
	return &ServerHealthHandler{probe: probe}
}

func (h *ServerHealthHandler) Name() string { return "check_server_health" }
func (h *ServerHealthHandler) Description() string {
	return "Reports the gateway's own health: token freshness, circuit breaker state, rate limiter utilization, and vendor reachability."
}
func (h *ServerHealthHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{}
}

func (h *ServerHealthHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	overall, components := h.probe.Check(ctx)
	return health.BuildReport(overall, components)
}
