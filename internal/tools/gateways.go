package tools

import (
	"context"
	"fmt"

	"github.com/arubanetworks/central-mcp-gateway/internal/orchestrator"
	"github.com/arubanetworks/central-mcp-gateway/internal/registry"
	"github.com/arubanetworks/central-mcp-gateway/internal/report"
)

// GatewayListHandler implements get_gateway_list over
// /monitoring/v1/gateways.
type GatewayListHandler struct {
	client *orchestrator.Orchestrator
}

func NewGatewayListHandler(client *orchestrator.Orchestrator) *GatewayListHandler {
	return &GatewayListHandler{client: client}
}

func (h *GatewayListHandler) Name() string        { return "get_gateway_list" }
func (h *GatewayListHandler) Description() string { return "Lists gateways and their connection status." }
func (h *GatewayListHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"limit": {Type: registry.TypeInt, Min: floatPtr(1), Max: floatPtr(1000)}}
}

func (h *GatewayListHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	params := map[string]any{"limit": intArg(args, "limit", 100)}
	result, err := h.client.Call(ctx, "GET", "/monitoring/v1/gateways", params, nil)
	if err != nil {
		return "", err
	}

	gateways := asMapSlice(result, "gateways")
	items := make([]string, 0, len(gateways))
	for _, g := range gateways {
		label := report.LabelUp
		if field(g, "status") != "Up" {
			label = report.LabelDown
		}
		items = append(items, fmt.Sprintf("%s %s serial=%s", label, field(g, "name"), field(g, "serial")))
	}

	b := report.New().List(report.LabelGateway, "gateways", items)
	b.Total("Total gateways", int64(len(gateways)), int64(len(gateways)))
	return b.Build()
}

// GatewayDetailsHandler implements get_gateway_details over
// /monitoring/v1/gateways/{serial}.
type GatewayDetailsHandler struct {
	client *orchestrator.Orchestrator
}

func NewGatewayDetailsHandler(client *orchestrator.Orchestrator) *GatewayDetailsHandler {
	return &GatewayDetailsHandler{client: client}
}

func (h *GatewayDetailsHandler) Name() string        { return "get_gateway_details" }
func (h *GatewayDetailsHandler) Description() string { return "Returns detailed status for one gateway." }
func (h *GatewayDetailsHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"serial": {Type: registry.TypeString, Required: true}}
}

func (h *GatewayDetailsHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	serial := stringArg(args, "serial", "")
	result, err := h.client.Call(ctx, "GET", "/monitoring/v1/gateways/"+serial, nil, nil)
	if err != nil {
		return "", err
	}

	b := report.New().
		Line(report.LabelGateway, fmt.Sprintf("%s (%s)", field(result, "name"), field(result, "status"))).
		Fact("Model", field(result, "model")).
		Fact("Firmware", field(result, "firmware_version")).
		Fact("Uptime", report.Uptime(fieldInt64(result, "uptime")))
	return b.Build()
}

// GatewayWANUplinksHandler implements get_gateway_wan_uplinks over
// /monitoring/v1/gateways/{serial}/uplinks.
type GatewayWANUplinksHandler struct {
	client *orchestrator.Orchestrator
}

func NewGatewayWANUplinksHandler(client *orchestrator.Orchestrator) *GatewayWANUplinksHandler {
	return &GatewayWANUplinksHandler{client: client}
}

func (h *GatewayWANUplinksHandler) Name() string { return "get_gateway_wan_uplinks" }
func (h *GatewayWANUplinksHandler) Description() string {
	return "Returns WAN uplink state and throughput for one gateway."
}
func (h *GatewayWANUplinksHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"serial": {Type: registry.TypeString, Required: true}}
}

func (h *GatewayWANUplinksHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	serial := stringArg(args, "serial", "")
	result, err := h.client.Call(ctx, "GET", "/monitoring/v1/gateways/"+serial+"/uplinks", nil, nil)
	if err != nil {
		return "", err
	}

	uplinks := asMapSlice(result, "uplinks")
	items := make([]string, 0, len(uplinks))
	for _, u := range uplinks {
		label := report.LabelUp
		if field(u, "status") != "Up" {
			label = report.LabelDown
		}
		items = append(items, fmt.Sprintf("%s %s latency=%sms loss=%s", label, field(u, "name"), field(u, "latency_ms"), report.Percent(fieldFloat(u, "packet_loss_pct"))))
	}

	b := report.New().List(report.LabelNet, "WAN uplinks", items)
	return b.Build()
}
