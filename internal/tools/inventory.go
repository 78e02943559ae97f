package tools

import (
	"context"
	"fmt"

	"github.com/arubanetworks/central-mcp-gateway/internal/orchestrator"
	"github.com/arubanetworks/central-mcp-gateway/internal/registry"
	"github.com/arubanetworks/central-mcp-gateway/internal/report"
)

// DeviceListHandler implements get_device_list over /inventory/v1/devices.
type DeviceListHandler struct {
	client *orchestrator.Orchestrator
}

func NewDeviceListHandler(client *orchestrator.Orchestrator) *DeviceListHandler {
	return &DeviceListHandler{client: client}
}

func (h *DeviceListHandler) Name() string        { return "get_device_list" }
func (h *DeviceListHandler) Description() string { return "Lists devices in the inventory, optionally filtered by type." }
func (h *DeviceListHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{
		"limit":       {Type: registry.TypeInt, Min: floatPtr(1), Max: floatPtr(1000)},
		"device_type": {Type: registry.TypeString, Enum: []string{"ap", "switch", "gateway"}},
	}
}

func (h *DeviceListHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	limit := intArg(args, "limit", 100)
	params := map[string]any{"limit": limit}
	if dt, ok := optStringArg(args, "device_type"); ok {
		params["device_type"] = dt
	}

	result, err := h.client.Call(ctx, "GET", "/inventory/v1/devices", params, nil)
	if err != nil {
		return "", err
	}

	devices := asMapSlice(result, "devices")
	items := make([]string, 0, len(devices))
	for _, d := range devices {
		items = append(items, fmt.Sprintf("- %s (%s) serial=%s status=%s", field(d, "name"), field(d, "device_type"), field(d, "serial"), field(d, "status")))
	}

	b := report.New().List(report.LabelDevice, "devices", items)
	b.Total("Total devices", int64(len(devices)), int64(len(devices)))
	return b.Build()
}

// DeviceDetailsHandler implements get_device_details over
// /inventory/v1/devices/{serial}.
type DeviceDetailsHandler struct {
	client *orchestrator.Orchestrator
}

func NewDeviceDetailsHandler(client *orchestrator.Orchestrator) *DeviceDetailsHandler {
	return &DeviceDetailsHandler{client: client}
}

func (h *DeviceDetailsHandler) Name() string        { return "get_device_details" }
func (h *DeviceDetailsHandler) Description() string { return "Returns detailed inventory attributes for one device." }
func (h *DeviceDetailsHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{
		"serial": {Type: registry.TypeString, Required: true},
	}
}

func (h *DeviceDetailsHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	serial := stringArg(args, "serial", "")
	result, err := h.client.Call(ctx, "GET", "/inventory/v1/devices/"+serial, nil, nil)
	if err != nil {
		return "", err
	}

	b := report.New().
		Line(report.LabelDevice, fmt.Sprintf("%s (%s)", field(result, "name"), field(result, "device_type"))).
		Fact("Serial", field(result, "serial")).
		Fact("Model", field(result, "model")).
		Fact("Firmware", field(result, "firmware_version")).
		Fact("Status", field(result, "status"))
	return b.Build()
}

// DeviceInventorySummaryHandler implements get_device_inventory_summary over
// /inventory/v1/devices/stats.
type DeviceInventorySummaryHandler struct {
	client *orchestrator.Orchestrator
}

func NewDeviceInventorySummaryHandler(client *orchestrator.Orchestrator) *DeviceInventorySummaryHandler {
	return &DeviceInventorySummaryHandler{client: client}
}

func (h *DeviceInventorySummaryHandler) Name() string { return "get_device_inventory_summary" }
func (h *DeviceInventorySummaryHandler) Description() string {
	return "Summarizes device counts by type and online/offline status."
}
func (h *DeviceInventorySummaryHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{}
}

func (h *DeviceInventorySummaryHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	result, err := h.client.Call(ctx, "GET", "/inventory/v1/devices/stats", nil, nil)
	if err != nil {
		return "", err
	}

	aps := fieldInt64(result, "ap_count")
	switches := fieldInt64(result, "switch_count")
	gateways := fieldInt64(result, "gateway_count")
	total := fieldInt64(result, "total_count")

	b := report.New().
		Line(report.LabelStats, "device inventory summary").
		Fact("APs", fmt.Sprintf("%d", aps)).
		Fact("Switches", fmt.Sprintf("%d", switches)).
		Fact("Gateways", fmt.Sprintf("%d", gateways))
	b.Total("Total devices", total, aps, switches, gateways)
	return b.Build()
}
