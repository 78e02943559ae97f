package tools

import (
	"context"
	"fmt"

	"github.com/arubanetworks/central-mcp-gateway/internal/orchestrator"
	"github.com/arubanetworks/central-mcp-gateway/internal/registry"
	"github.com/arubanetworks/central-mcp-gateway/internal/report"
)

// VPNTunnelsHandler implements get_vpn_tunnels over
// /network-monitoring/v1/vpn/tunnels.
type VPNTunnelsHandler struct {
	client *orchestrator.Orchestrator
}

func NewVPNTunnelsHandler(client *orchestrator.Orchestrator) *VPNTunnelsHandler {
	return &VPNTunnelsHandler{client: client}
}

func (h *VPNTunnelsHandler) Name() string        { return "get_vpn_tunnels" }
func (h *VPNTunnelsHandler) Description() string { return "Lists site-to-site VPN tunnels and their up/down state." }
func (h *VPNTunnelsHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"limit": {Type: registry.TypeInt, Min: floatPtr(1), Max: floatPtr(500)}}
}

func (h *VPNTunnelsHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	params := map[string]any{"limit": intArg(args, "limit", 50)}
	result, err := h.client.Call(ctx, "GET", "/network-monitoring/v1/vpn/tunnels", params, nil)
	if err != nil {
		return "", err
	}

	tunnels := asMapSlice(result, "tunnels")
	var up, down int64
	items := make([]string, 0, len(tunnels))
	for _, t := range tunnels {
		label := report.LabelUp
		if field(t, "status") != "Up" {
			label = report.LabelDown
			down++
		} else {
			up++
		}
		items = append(items, fmt.Sprintf("%s %s peer=%s", label, field(t, "name"), field(t, "peer_ip")))
	}

	b := report.New().
		Line(report.LabelVPN, "VPN tunnel status").
		List(report.LabelVPN, "tunnels", items).
		Fact("Up", fmt.Sprintf("%d", up)).
		Fact("Down", fmt.Sprintf("%d", down))
	b.Total("Total tunnels", int64(len(tunnels)), up, down)
	return b.Build()
}

// VPNTunnelDetailsHandler implements get_vpn_tunnel_details over
// /network-monitoring/v1/vpn/tunnels/{id}.
type VPNTunnelDetailsHandler struct {
	client *orchestrator.Orchestrator
}

func NewVPNTunnelDetailsHandler(client *orchestrator.Orchestrator) *VPNTunnelDetailsHandler {
	return &VPNTunnelDetailsHandler{client: client}
}

func (h *VPNTunnelDetailsHandler) Name() string        { return "get_vpn_tunnel_details" }
func (h *VPNTunnelDetailsHandler) Description() string { return "Returns detailed status for one VPN tunnel." }
func (h *VPNTunnelDetailsHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"tunnel_id": {Type: registry.TypeString, Required: true}}
}

func (h *VPNTunnelDetailsHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	tunnelID := stringArg(args, "tunnel_id", "")
	result, err := h.client.Call(ctx, "GET", "/network-monitoring/v1/vpn/tunnels/"+tunnelID, nil, nil)
	if err != nil {
		return "", err
	}

	b := report.New().
		Line(report.LabelVPN, fmt.Sprintf("tunnel %s (%s)", field(result, "name"), field(result, "status"))).
		Fact("Peer IP", field(result, "peer_ip")).
		Fact("Uptime", report.Uptime(fieldInt64(result, "uptime"))).
		Fact("RX", report.Bytes(fieldInt64(result, "rx_bytes"))).
		Fact("TX", report.Bytes(fieldInt64(result, "tx_bytes")))
	return b.Build()
}
