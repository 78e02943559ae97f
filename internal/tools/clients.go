package tools

import (
	"context"
	"fmt"

	"github.com/arubanetworks/central-mcp-gateway/internal/orchestrator"
	"github.com/arubanetworks/central-mcp-gateway/internal/registry"
	"github.com/arubanetworks/central-mcp-gateway/internal/report"
)

// ClientListHandler implements get_client_list over
// /monitoring/v1/clients.
type ClientListHandler struct {
	client *orchestrator.Orchestrator
}

func NewClientListHandler(client *orchestrator.Orchestrator) *ClientListHandler {
	return &ClientListHandler{client: client}
}

func (h *ClientListHandler) Name() string        { return "get_client_list" }
func (h *ClientListHandler) Description() string { return "Lists connected wired and wireless clients." }
func (h *ClientListHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{
		"limit":       {Type: registry.TypeInt, Min: floatPtr(1), Max: floatPtr(1000)},
		"client_type": {Type: registry.TypeString, Enum: []string{"wired", "wireless"}},
	}
}

func (h *ClientListHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	params := map[string]any{"limit": intArg(args, "limit", 100)}
	if ct, ok := optStringArg(args, "client_type"); ok {
		params["client_type"] = ct
	}

	result, err := h.client.Call(ctx, "GET", "/monitoring/v1/clients", params, nil)
	if err != nil {
		return "", err
	}

	clients := asMapSlice(result, "clients")
	items := make([]string, 0, len(clients))
	for _, c := range clients {
		items = append(items, fmt.Sprintf("- %s (%s) on %s", field(c, "name"), field(c, "mac"), field(c, "associated_device_name")))
	}

	b := report.New().List(report.LabelStats, "clients", items)
	b.Total("Total clients", int64(len(clients)), int64(len(clients)))
	return b.Build()
}

// ClientDetailsHandler implements get_client_details over
// /monitoring/v1/clients/{mac}.
type ClientDetailsHandler struct {
	client *orchestrator.Orchestrator
}

func NewClientDetailsHandler(client *orchestrator.Orchestrator) *ClientDetailsHandler {
	return &ClientDetailsHandler{client: client}
}

func (h *ClientDetailsHandler) Name() string        { return "get_client_details" }
func (h *ClientDetailsHandler) Description() string { return "Returns connection details for one client." }
func (h *ClientDetailsHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"mac": {Type: registry.TypeString, Required: true}}
}

func (h *ClientDetailsHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	mac := stringArg(args, "mac", "")
	result, err := h.client.Call(ctx, "GET", "/monitoring/v1/clients/"+mac, nil, nil)
	if err != nil {
		return "", err
	}

	b := report.New().
		Line(report.LabelStats, fmt.Sprintf("client %s", field(result, "name"))).
		Fact("MAC", field(result, "mac")).
		Fact("IP", field(result, "ip_address")).
		Fact("Connected to", field(result, "associated_device_name")).
		Fact("Signal", field(result, "rssi"))
	return b.Build()
}
