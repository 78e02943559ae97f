package tools

import (
	"context"
	"fmt"

	"github.com/arubanetworks/central-mcp-gateway/internal/orchestrator"
	"github.com/arubanetworks/central-mcp-gateway/internal/registry"
	"github.com/arubanetworks/central-mcp-gateway/internal/report"
)

// NetworkUsageTrendHandler implements get_network_usage_trend over
// /network-monitoring/v1/usage/trend.
type NetworkUsageTrendHandler struct {
	client *orchestrator.Orchestrator
}

func NewNetworkUsageTrendHandler(client *orchestrator.Orchestrator) *NetworkUsageTrendHandler {
	return &NetworkUsageTrendHandler{client: client}
}

func (h *NetworkUsageTrendHandler) Name() string { return "get_network_usage_trend" }
func (h *NetworkUsageTrendHandler) Description() string {
	return "Reports aggregate network throughput over a recent time window."
}
func (h *NetworkUsageTrendHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{
		"period": {Type: registry.TypeString, Enum: []string{"1h", "24h", "7d", "30d"}},
	}
}

func (h *NetworkUsageTrendHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	period := stringArg(args, "period", "24h")
	result, err := h.client.Call(ctx, "GET", "/network-monitoring/v1/usage/trend", map[string]any{"period": period}, nil)
	if err != nil {
		return "", err
	}

	samples := asMapSlice(result, "samples")
	items := make([]string, 0, len(samples))
	for _, s := range samples {
		items = append(items, fmt.Sprintf("- %s: rx=%s tx=%s", field(s, "timestamp"), report.Bytes(fieldInt64(s, "rx_bytes")), report.Bytes(fieldInt64(s, "tx_bytes"))))
	}

	b := report.New().
		Line(report.LabelTrend, fmt.Sprintf("network usage trend (%s)", period)).
		List(report.LabelTrend, "samples", items)
	return b.Build()
}

// ClientCountTrendHandler implements get_client_count_trend over
// /network-monitoring/v1/clients/trend.
type ClientCountTrendHandler struct {
	client *orchestrator.Orchestrator
}

func NewClientCountTrendHandler(client *orchestrator.Orchestrator) *ClientCountTrendHandler {
	return &ClientCountTrendHandler{client: client}
}

func (h *ClientCountTrendHandler) Name() string { return "get_client_count_trend" }
func (h *ClientCountTrendHandler) Description() string {
	return "Reports connected client count over a recent time window."
}
func (h *ClientCountTrendHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{
		"period": {Type: registry.TypeString, Enum: []string{"1h", "24h", "7d", "30d"}},
	}
}

func (h *ClientCountTrendHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	period := stringArg(args, "period", "24h")
	result, err := h.client.Call(ctx, "GET", "/network-monitoring/v1/clients/trend", map[string]any{"period": period}, nil)
	if err != nil {
		return "", err
	}

	samples := asMapSlice(result, "samples")
	items := make([]string, 0, len(samples))
	for _, s := range samples {
		items = append(items, fmt.Sprintf("- %s: %s clients", field(s, "timestamp"), field(s, "client_count")))
	}

	b := report.New().
		Line(report.LabelTrend, fmt.Sprintf("client count trend (%s)", period)).
		List(report.LabelTrend, "samples", items)
	return b.Build()
}
