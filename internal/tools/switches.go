package tools

import (
	"context"
	"fmt"

	"github.com/arubanetworks/central-mcp-gateway/internal/orchestrator"
	"github.com/arubanetworks/central-mcp-gateway/internal/registry"
	"github.com/arubanetworks/central-mcp-gateway/internal/report"
)

// SwitchListHandler implements get_switch_list over /monitoring/v1/switches.
type SwitchListHandler struct {
	client *orchestrator.Orchestrator
}

func NewSwitchListHandler(client *orchestrator.Orchestrator) *SwitchListHandler {
	return &SwitchListHandler{client: client}
}

func (h *SwitchListHandler) Name() string        { return "get_switch_list" }
func (h *SwitchListHandler) Description() string { return "Lists switches and their connection status." }
func (h *SwitchListHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"limit": {Type: registry.TypeInt, Min: floatPtr(1), Max: floatPtr(1000)}}
}

func (h *SwitchListHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	params := map[string]any{"limit": intArg(args, "limit", 100)}
	result, err := h.client.Call(ctx, "GET", "/monitoring/v1/switches", params, nil)
	if err != nil {
		return "", err
	}

	switches := asMapSlice(result, "switches")
	items := make([]string, 0, len(switches))
	for _, s := range switches {
		label := report.LabelUp
		if field(s, "status") != "Up" {
			label = report.LabelDown
		}
		items = append(items, fmt.Sprintf("%s %s serial=%s", label, field(s, "name"), field(s, "serial")))
	}

	b := report.New().List(report.LabelSwitch, "switches", items)
	b.Total("Total switches", int64(len(switches)), int64(len(switches)))
	return b.Build()
}

// SwitchDetailsHandler implements get_switch_details over
// /monitoring/v1/switches/{serial}.
type SwitchDetailsHandler struct {
	client *orchestrator.Orchestrator
}

func NewSwitchDetailsHandler(client *orchestrator.Orchestrator) *SwitchDetailsHandler {
	return &SwitchDetailsHandler{client: client}
}

func (h *SwitchDetailsHandler) Name() string        { return "get_switch_details" }
func (h *SwitchDetailsHandler) Description() string { return "Returns detailed status for one switch." }
func (h *SwitchDetailsHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"serial": {Type: registry.TypeString, Required: true}}
}

func (h *SwitchDetailsHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	serial := stringArg(args, "serial", "")
	result, err := h.client.Call(ctx, "GET", "/monitoring/v1/switches/"+serial, nil, nil)
	if err != nil {
		return "", err
	}

	b := report.New().
		Line(report.LabelSwitch, fmt.Sprintf("%s (%s)", field(result, "name"), field(result, "status"))).
		Fact("Model", field(result, "model")).
		Fact("Firmware", field(result, "firmware_version")).
		Fact("Uptime", report.Uptime(fieldInt64(result, "uptime")))
	return b.Build()
}

// SwitchPortStatsHandler implements get_switch_port_stats over
// /monitoring/v1/switches/{serial}/ports.
type SwitchPortStatsHandler struct {
	client *orchestrator.Orchestrator
}

func NewSwitchPortStatsHandler(client *orchestrator.Orchestrator) *SwitchPortStatsHandler {
	return &SwitchPortStatsHandler{client: client}
}

func (h *SwitchPortStatsHandler) Name() string { return "get_switch_port_stats" }
func (h *SwitchPortStatsHandler) Description() string {
	return "Returns per-port link state and traffic counters for one switch."
}
func (h *SwitchPortStatsHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"serial": {Type: registry.TypeString, Required: true}}
}

func (h *SwitchPortStatsHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	serial := stringArg(args, "serial", "")
	result, err := h.client.Call(ctx, "GET", "/monitoring/v1/switches/"+serial+"/ports", nil, nil)
	if err != nil {
		return "", err
	}

	ports := asMapSlice(result, "ports")
	items := make([]string, 0, len(ports))
	for _, p := range ports {
		label := report.LabelUp
		if field(p, "status") != "Up" {
			label = report.LabelDown
		}
		items = append(items, fmt.Sprintf("%s port %s rx=%s tx=%s", label, field(p, "name"), report.Bytes(fieldInt64(p, "rx_bytes")), report.Bytes(fieldInt64(p, "tx_bytes"))))
	}

	b := report.New().List(report.LabelSwitch, "ports", items)
	return b.Build()
}
