package tools

import (
	"context"
	"fmt"

	"github.com/arubanetworks/central-mcp-gateway/internal/orchestrator"
	"github.com/arubanetworks/central-mcp-gateway/internal/registry"
	"github.com/arubanetworks/central-mcp-gateway/internal/report"
)

// GroupListHandler implements get_group_list over
// /network-services/v1/groups.
type GroupListHandler struct {
	client *orchestrator.Orchestrator
}

func NewGroupListHandler(client *orchestrator.Orchestrator) *GroupListHandler {
	return &GroupListHandler{client: client}
}

func (h *GroupListHandler) Name() string        { return "get_group_list" }
func (h *GroupListHandler) Description() string { return "Lists device management groups." }
func (h *GroupListHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"limit": {Type: registry.TypeInt, Min: floatPtr(1), Max: floatPtr(500)}}
}

func (h *GroupListHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	params := map[string]any{"limit": intArg(args, "limit", 50)}
	result, err := h.client.Call(ctx, "GET", "/network-services/v1/groups", params, nil)
	if err != nil {
		return "", err
	}

	groups := asMapSlice(result, "groups")
	items := make([]string, 0, len(groups))
	for _, g := range groups {
		items = append(items, fmt.Sprintf("- %s (%s devices)", field(g, "name"), field(g, "device_count")))
	}

	b := report.New().List(report.LabelData, "groups", items)
	b.Total("Total groups", int64(len(groups)), int64(len(groups)))
	return b.Build()
}

// TemplateListHandler implements get_template_list over
// /network-services/v1/templates.
type TemplateListHandler struct {
	client *orchestrator.Orchestrator
}

func NewTemplateListHandler(client *orchestrator.Orchestrator) *TemplateListHandler {
	return &TemplateListHandler{client: client}
}

func (h *TemplateListHandler) Name() string        { return "get_template_list" }
func (h *TemplateListHandler) Description() string { return "Lists configuration templates for a group." }
func (h *TemplateListHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"group": {Type: registry.TypeString, Required: true}}
}

func (h *TemplateListHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	group := stringArg(args, "group", "")
	result, err := h.client.Call(ctx, "GET", "/network-services/v1/templates", map[string]any{"group": group}, nil)
	if err != nil {
		return "", err
	}

	templates := asMapSlice(result, "templates")
	items := make([]string, 0, len(templates))
	for _, t := range templates {
		items = append(items, fmt.Sprintf("- %s (device_type=%s)", field(t, "name"), field(t, "device_type")))
	}

	b := report.New().List(report.LabelData, "templates", items)
	b.Total("Total templates", int64(len(templates)), int64(len(templates)))
	return b.Build()
}

// TemplateDetailsHandler implements get_template_details over
// /network-services/v1/templates/{name}.
type TemplateDetailsHandler struct {
	client *orchestrator.Orchestrator
}

func NewTemplateDetailsHandler(client *orchestrator.Orchestrator) *TemplateDetailsHandler {
	return &TemplateDetailsHandler{client: client}
}

func (h *TemplateDetailsHandler) Name() string        { return "get_template_details" }
func (h *TemplateDetailsHandler) Description() string { return "Returns metadata for one configuration template." }
func (h *TemplateDetailsHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{
		"group": {Type: registry.TypeString, Required: true},
		"name":  {Type: registry.TypeString, Required: true},
	}
}

func (h *TemplateDetailsHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	group := stringArg(args, "group", "")
	name := stringArg(args, "name", "")
	result, err := h.client.Call(ctx, "GET", "/network-services/v1/templates/"+name, map[string]any{"group": group}, nil)
	if err != nil {
		return "", err
	}

	b := report.New().
		Line(report.LabelData, fmt.Sprintf("template %s", field(result, "name"))).
		Fact("Device type", field(result, "device_type")).
		Fact("Version", field(result, "version")).
		Fact("Length (bytes)", fmt.Sprintf("%d", fieldInt64(result, "length")))
	return b.Build()
}
