package tools

import (
	"context"
	"fmt"

	"github.com/arubanetworks/central-mcp-gateway/internal/orchestrator"
	"github.com/arubanetworks/central-mcp-gateway/internal/registry"
	"github.com/arubanetworks/central-mcp-gateway/internal/report"
)

// WANHealthHandler implements get_wan_health over
// /network-monitoring/v1/wan/health.
type WANHealthHandler struct {
	client *orchestrator.Orchestrator
}

func NewWANHealthHandler(client *orchestrator.Orchestrator) *WANHealthHandler {
	return &WANHealthHandler{client: client}
}

func (h *WANHealthHandler) Name() string        { return "get_wan_health" }
func (h *WANHealthHandler) Description() string { return "Reports aggregate WAN health across sites." }
func (h *WANHealthHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{}
}

func (h *WANHealthHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	result, err := h.client.Call(ctx, "GET", "/network-monitoring/v1/wan/health", nil, nil)
	if err != nil {
		return "", err
	}

	b := report.New().
		Line(report.LabelNet, "WAN health").
		Fact("Healthy uplinks", field(result, "healthy_uplinks")).
		Fact("Degraded uplinks", field(result, "degraded_uplinks")).
		Fact("Down uplinks", field(result, "down_uplinks")).
		Fact("Average latency", fmt.Sprintf("%s ms", field(result, "avg_latency_ms")))
	return b.Build()
}

// WANUplinkStatsHandler implements get_wan_uplink_stats over
// /network-monitoring/v1/wan/uplinks.
type WANUplinkStatsHandler struct {
	client *orchestrator.Orchestrator
}

func NewWANUplinkStatsHandler(client *orchestrator.Orchestrator) *WANUplinkStatsHandler {
	return &WANUplinkStatsHandler{client: client}
}

func (h *WANUplinkStatsHandler) Name() string { return "get_wan_uplink_stats" }
func (h *WANUplinkStatsHandler) Description() string {
	return "Lists WAN uplink throughput and quality metrics across sites."
}
func (h *WANUplinkStatsHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"limit": {Type: registry.TypeInt, Min: floatPtr(1), Max: floatPtr(500)}}
}

func (h *WANUplinkStatsHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	params := map[string]any{"limit": intArg(args, "limit", 50)}
	result, err := h.client.Call(ctx, "GET", "/network-monitoring/v1/wan/uplinks", params, nil)
	if err != nil {
		return "", err
	}

	uplinks := asMapSlice(result, "uplinks")
	items := make([]string, 0, len(uplinks))
	for _, u := range uplinks {
		items = append(items, fmt.Sprintf("- %s jitter=%sms loss=%s throughput_rx=%s", field(u, "name"), field(u, "jitter_ms"), report.Percent(fieldFloat(u, "packet_loss_pct")), report.Bytes(fieldInt64(u, "rx_bytes"))))
	}

	b := report.New().List(report.LabelNet, "WAN uplinks", items)
	b.Total("Total uplinks", int64(len(uplinks)), int64(len(uplinks)))
	return b.Build()
}
