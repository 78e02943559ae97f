package tools

import (
	"context"
	"fmt"

	"github.com/arubanetworks/central-mcp-gateway/internal/orchestrator"
	"github.com/arubanetworks/central-mcp-gateway/internal/registry"
	"github.com/arubanetworks/central-mcp-gateway/internal/report"
)

// AlertsHandler implements get_alerts over /monitoring/v1/alerts.
type AlertsHandler struct {
	client *orchestrator.Orchestrator
}

func NewAlertsHandler(client *orchestrator.Orchestrator) *AlertsHandler {
	return &AlertsHandler{client: client}
}

func (h *AlertsHandler) Name() string        { return "get_alerts" }
func (h *AlertsHandler) Description() string { return "Lists open alerts across the managed estate." }
func (h *AlertsHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{
		"severity": {Type: registry.TypeString, Enum: []string{"critical", "warning", "info"}},
		"limit":    {Type: registry.TypeInt, Min: floatPtr(1), Max: floatPtr(500)},
	}
}

func (h *AlertsHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	params := map[string]any{"limit": intArg(args, "limit", 50)}
	if sev, ok := optStringArg(args, "severity"); ok {
		params["severity"] = sev
	}

	result, err := h.client.Call(ctx, "GET", "/monitoring/v1/alerts", params, nil)
	if err != nil {
		return "", err
	}

	alerts := asMapSlice(result, "alerts")
	items := make([]string, 0, len(alerts))
	for _, a := range alerts {
		label := report.LabelWarn
		if field(a, "severity") == "critical" {
			label = report.LabelCrit
		}
		items = append(items, fmt.Sprintf("%s %s: %s", label, field(a, "type"), field(a, "description")))
	}

	b := report.New().List(report.LabelStats, "alerts", items)
	b.Total("Total alerts", int64(len(alerts)), int64(len(alerts)))
	return b.Build()
}

// AuditTrailHandler implements get_audit_trail over
// /central/v1/audit/events.
type AuditTrailHandler struct {
	client *orchestrator.Orchestrator
}

func NewAuditTrailHandler(client *orchestrator.Orchestrator) *AuditTrailHandler {
	return &AuditTrailHandler{client: client}
}

func (h *AuditTrailHandler) Name() string        { return "get_audit_trail" }
func (h *AuditTrailHandler) Description() string { return "Lists recent configuration-change audit events." }
func (h *AuditTrailHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"limit": {Type: registry.TypeInt, Min: floatPtr(1), Max: floatPtr(500)}}
}

func (h *AuditTrailHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	params := map[string]any{"limit": intArg(args, "limit", 50)}
	result, err := h.client.Call(ctx, "GET", "/central/v1/audit/events", params, nil)
	if err != nil {
		return "", err
	}

	events := asMapSlice(result, "events")
	items := make([]string, 0, len(events))
	for _, e := range events {
		items = append(items, fmt.Sprintf("- %s by %s: %s", field(e, "timestamp"), field(e, "user"), field(e, "description")))
	}

	b := report.New().List(report.LabelInfo, "audit events", items)
	b.Total("Total events", int64(len(events)), int64(len(events)))
	return b.Build()
}
