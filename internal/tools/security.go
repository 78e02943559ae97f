package tools

import (
	"context"
	"fmt"

	"github.com/arubanetworks/central-mcp-gateway/internal/orchestrator"
	"github.com/arubanetworks/central-mcp-gateway/internal/registry"
	"github.com/arubanetworks/central-mcp-gateway/internal/report"
)

// FirewallSessionsHandler implements get_firewall_sessions over
// /network-monitoring/v1/firewall-sessions. Some vendor tenants return 400
// here for subscription-scope reasons rather than bad parameters; that
// surfaces as an UpstreamClientError and is not retried.
type FirewallSessionsHandler struct {
	client *orchestrator.Orchestrator
}

func NewFirewallSessionsHandler(client *orchestrator.Orchestrator) *FirewallSessionsHandler {
	return &FirewallSessionsHandler{client: client}
}

func (h *FirewallSessionsHandler) Name() string { return "get_firewall_sessions" }
func (h *FirewallSessionsHandler) Description() string {
	return "Lists active firewall sessions for a gateway."
}
func (h *FirewallSessionsHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{
		"serial": {Type: registry.TypeString, Required: true},
		"limit":  {Type: registry.TypeInt, Min: floatPtr(1), Max: floatPtr(500)},
	}
}

func (h *FirewallSessionsHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	serial := stringArg(args, "serial", "")
	params := map[string]any{"limit": intArg(args, "limit", 100), "serial": serial}
	result, err := h.client.Call(ctx, "GET", "/network-monitoring/v1/firewall-sessions", params, nil)
	if err != nil {
		return "", err
	}

	sessions := asMapSlice(result, "sessions")
	items := make([]string, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, fmt.Sprintf("- %s:%s -> %s:%s proto=%s", field(s, "source_ip"), field(s, "source_port"), field(s, "dest_ip"), field(s, "dest_port"), field(s, "protocol")))
	}

	b := report.New().List(report.LabelSec, "firewall sessions", items)
	b.Total("Total sessions", int64(len(sessions)), int64(len(sessions)))
	return b.Build()
}

// IDSEventsHandler implements get_ids_events over
// /network-monitoring/v1/ids/events.
type IDSEventsHandler struct {
	client *orchestrator.Orchestrator
}

func NewIDSEventsHandler(client *orchestrator.Orchestrator) *IDSEventsHandler {
	return &IDSEventsHandler{client: client}
}

func (h *IDSEventsHandler) Name() string        { return "get_ids_events" }
func (h *IDSEventsHandler) Description() string { return "Lists intrusion-detection events." }
func (h *IDSEventsHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"limit": {Type: registry.TypeInt, Min: floatPtr(1), Max: floatPtr(500)}}
}

func (h *IDSEventsHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	params := map[string]any{"limit": intArg(args, "limit", 50)}
	result, err := h.client.Call(ctx, "GET", "/network-monitoring/v1/ids/events", params, nil)
	if err != nil {
		return "", err
	}

	events := asMapSlice(result, "events")
	items := make([]string, 0, len(events))
	for _, e := range events {
		label := report.LabelWarn
		if field(e, "severity") == "critical" {
			label = report.LabelCrit
		}
		items = append(items, fmt.Sprintf("%s %s: %s", label, field(e, "signature"), field(e, "source_ip")))
	}

	b := report.New().List(report.LabelSec, "IDS events", items)
	b.Total("Total events", int64(len(events)), int64(len(events)))
	return b.Build()
}

// RogueAPsHandler implements get_rogue_aps over
// /network-monitoring/v1/rogue-aps.
type RogueAPsHandler struct {
	client *orchestrator.Orchestrator
}

func NewRogueAPsHandler(client *orchestrator.Orchestrator) *RogueAPsHandler {
	return &RogueAPsHandler{client: client}
}

func (h *RogueAPsHandler) Name() string        { return "get_rogue_aps" }
func (h *RogueAPsHandler) Description() string { return "Lists wireless intrusion detections of rogue access points." }
func (h *RogueAPsHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"limit": {Type: registry.TypeInt, Min: floatPtr(1), Max: floatPtr(500)}}
}

func (h *RogueAPsHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	params := map[string]any{"limit": intArg(args, "limit", 50)}
	result, err := h.client.Call(ctx, "GET", "/network-monitoring/v1/rogue-aps", params, nil)
	if err != nil {
		return "", err
	}

	rogues := asMapSlice(result, "rogue_aps")
	items := make([]string, 0, len(rogues))
	for _, r := range rogues {
		items = append(items, fmt.Sprintf("- %s ssid=%s rssi=%s", field(r, "bssid"), field(r, "ssid"), field(r, "rssi")))
	}

	b := report.New().List(report.LabelSec, "rogue APs", items)
	b.Total("Total detections", int64(len(rogues)), int64(len(rogues)))
	return b.Build()
}
