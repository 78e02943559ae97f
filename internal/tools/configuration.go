package tools

import (
	"context"
	"fmt"

	"github.com/arubanetworks/central-mcp-gateway/internal/orchestrator"
	"github.com/arubanetworks/central-mcp-gateway/internal/registry"
	"github.com/arubanetworks/central-mcp-gateway/internal/report"
)

// DeviceConfigurationHandler implements get_device_configuration over
// /configuration/v1/devices/{serial}/configuration.
type DeviceConfigurationHandler struct {
	client *orchestrator.Orchestrator
}

func NewDeviceConfigurationHandler(client *orchestrator.Orchestrator) *DeviceConfigurationHandler {
	return &DeviceConfigurationHandler{client: client}
}

func (h *DeviceConfigurationHandler) Name() string { return "get_device_configuration" }
func (h *DeviceConfigurationHandler) Description() string {
	return "Returns the running configuration summary for one device."
}
func (h *DeviceConfigurationHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"serial": {Type: registry.TypeString, Required: true}}
}

func (h *DeviceConfigurationHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	serial := stringArg(args, "serial", "")
	result, err := h.client.Call(ctx, "GET", "/configuration/v1/devices/"+serial+"/configuration", nil, nil)
	if err != nil {
		return "", err
	}

	b := report.New().
		Line(report.LabelData, fmt.Sprintf("configuration for %s", serial)).
		Fact("Template applied", field(result, "template_name")).
		Fact("Last modified", field(result, "last_modified_at")).
		Fact("Config length (bytes)", fmt.Sprintf("%d", fieldInt64(result, "length")))
	return b.Build()
}

// ConfigurationComplianceHandler implements
// get_configuration_compliance over /configuration/v1/compliance.
type ConfigurationComplianceHandler struct {
	client *orchestrator.Orchestrator
}

func NewConfigurationComplianceHandler(client *orchestrator.Orchestrator) *ConfigurationComplianceHandler {
	return &ConfigurationComplianceHandler{client: client}
}

func (h *ConfigurationComplianceHandler) Name() string { return "get_configuration_compliance" }
func (h *ConfigurationComplianceHandler) Description() string {
	return "Reports configuration drift against the assigned template for a group."
}
func (h *ConfigurationComplianceHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"group": {Type: registry.TypeString, Required: true}}
}

func (h *ConfigurationComplianceHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	group := stringArg(args, "group", "")
	result, err := h.client.Call(ctx, "GET", "/configuration/v1/compliance", map[string]any{"group": group}, nil)
	if err != nil {
		return "", err
	}

	devices := asMapSlice(result, "devices")
	var compliant, drifted int64
	items := make([]string, 0, len(devices))
	for _, d := range devices {
		label := report.LabelOK
		if field(d, "compliant") != "true" {
			label = report.LabelWarn
			drifted++
		} else {
			compliant++
		}
		items = append(items, fmt.Sprintf("%s %s", label, field(d, "serial")))
	}

	b := report.New().
		Line(report.LabelData, fmt.Sprintf("compliance for group %s", group)).
		List(report.LabelStats, "devices", items).
		Fact("Compliant", fmt.Sprintf("%d", compliant)).
		Fact("Drifted", fmt.Sprintf("%d", drifted))
	b.Total("Total devices", int64(len(devices)), compliant, drifted)
	return b.Build()
}
