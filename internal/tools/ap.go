package tools

import (
	"context"
	"fmt"

	"github.com/arubanetworks/central-mcp-gateway/internal/orchestrator"
	"github.com/arubanetworks/central-mcp-gateway/internal/registry"
	"github.com/arubanetworks/central-mcp-gateway/internal/report"
)

// APListHandler implements get_ap_list over /monitoring/v1/aps.
type APListHandler struct {
	client *orchestrator.Orchestrator
}

func NewAPListHandler(client *orchestrator.Orchestrator) *APListHandler {
	return &APListHandler{client: client}
}

func (h *APListHandler) Name() string        { return "get_ap_list" }
func (h *APListHandler) Description() string { return "Lists access points and their connection status." }
func (h *APListHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"limit": {Type: registry.TypeInt, Min: floatPtr(1), Max: floatPtr(1000)}}
}

func (h *APListHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	params := map[string]any{"limit": intArg(args, "limit", 100)}
	result, err := h.client.Call(ctx, "GET", "/monitoring/v1/aps", params, nil)
	if err != nil {
		return "", err
	}

	aps := asMapSlice(result, "aps")
	var up, down int64
	items := make([]string, 0, len(aps))
	for _, a := range aps {
		label := report.LabelUp
		if field(a, "status") != "Up" {
			label = report.LabelDown
			down++
		} else {
			up++
		}
		items = append(items, fmt.Sprintf("%s %s serial=%s clients=%s", label, field(a, "name"), field(a, "serial"), field(a, "client_count")))
	}

	b := report.New().
		Line(report.LabelAP, "access point status").
		List(report.LabelStats, "access points", items).
		Fact("Up", fmt.Sprintf("%d", up)).
		Fact("Down", fmt.Sprintf("%d", down))
	b.Total("Total APs", int64(len(aps)), up, down)
	return b.Build()
}

// APDetailsHandler implements get_ap_details over /monitoring/v1/aps/{serial}.
type APDetailsHandler struct {
	client *orchestrator.Orchestrator
}

func NewAPDetailsHandler(client *orchestrator.Orchestrator) *APDetailsHandler {
	return &APDetailsHandler{client: client}
}

func (h *APDetailsHandler) Name() string        { return "get_ap_details" }
func (h *APDetailsHandler) Description() string { return "Returns detailed status for one access point." }
func (h *APDetailsHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"serial": {Type: registry.TypeString, Required: true}}
}

func (h *APDetailsHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	serial := stringArg(args, "serial", "")
	result, err := h.client.Call(ctx, "GET", "/monitoring/v1/aps/"+serial, nil, nil)
	if err != nil {
		return "", err
	}

	b := report.New().
		Line(report.LabelAP, fmt.Sprintf("%s (%s)", field(result, "name"), field(result, "status"))).
		Fact("Firmware", field(result, "firmware_version")).
		Fact("Clients", field(result, "client_count")).
		Fact("Uptime", report.Uptime(fieldInt64(result, "uptime")))
	return b.Build()
}

// APRadioStatsHandler implements get_ap_radio_stats over
// /monitoring/v1/aps/{serial}/radios.
type APRadioStatsHandler struct {
	client *orchestrator.Orchestrator
}

func NewAPRadioStatsHandler(client *orchestrator.Orchestrator) *APRadioStatsHandler {
	return &APRadioStatsHandler{client: client}
}

func (h *APRadioStatsHandler) Name() string        { return "get_ap_radio_stats" }
func (h *APRadioStatsHandler) Description() string { return "Returns per-radio utilization and noise-floor stats for one AP." }
func (h *APRadioStatsHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"serial": {Type: registry.TypeString, Required: true}}
}

func (h *APRadioStatsHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	serial := stringArg(args, "serial", "")
	result, err := h.client.Call(ctx, "GET", "/monitoring/v1/aps/"+serial+"/radios", nil, nil)
	if err != nil {
		return "", err
	}

	radios := asMapSlice(result, "radios")
	items := make([]string, 0, len(radios))
	for _, r := range radios {
		items = append(items, fmt.Sprintf("- %s band utilization=%s noise=%s dBm", field(r, "band"), report.Percent(fieldFloat(r, "utilization")), field(r, "noise_floor")))
	}

	b := report.New().List(report.LabelAP, "radios", items)
	return b.Build()
}
