package tools

import (
	"context"
	"fmt"

	"github.com/arubanetworks/central-mcp-gateway/internal/orchestrator"
	"github.com/arubanetworks/central-mcp-gateway/internal/registry"
	"github.com/arubanetworks/central-mcp-gateway/internal/report"
)

// SitesHealthHandler implements get_sites_health over
// /monitoring/v1/sites/health.
type SitesHealthHandler struct {
	client *orchestrator.Orchestrator
}

func NewSitesHealthHandler(client *orchestrator.Orchestrator) *SitesHealthHandler {
	return &SitesHealthHandler{client: client}
}

func (h *SitesHealthHandler) Name() string        { return "get_sites_health" }
func (h *SitesHealthHandler) Description() string { return "Reports health status across all sites." }
func (h *SitesHealthHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"limit": {Type: registry.TypeInt, Min: floatPtr(1), Max: floatPtr(500)}}
}

func (h *SitesHealthHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	params := map[string]any{"limit": intArg(args, "limit", 50)}
	result, err := h.client.Call(ctx, "GET", "/monitoring/v1/sites/health", params, nil)
	if err != nil {
		return "", err
	}

	sites := asMapSlice(result, "sites")
	var healthy, degraded int64
	items := make([]string, 0, len(sites))
	for _, s := range sites {
		status := field(s, "health_status")
		label := report.LabelOK
		if status == "degraded" {
			label = report.LabelWarn
			degraded++
		} else {
			healthy++
		}
		items = append(items, fmt.Sprintf("%s %s: %s", label, field(s, "name"), status))
	}

	b := report.New().
		Line(report.LabelNet, "site health summary").
		List(report.LabelStats, "sites", items).
		Fact("Healthy sites", fmt.Sprintf("%d", healthy)).
		Fact("Degraded sites", fmt.Sprintf("%d", degraded))
	b.Total("Total sites", int64(len(sites)), healthy, degraded)
	return b.Build()
}

// SiteDetailsHandler implements get_site_details over /monitoring/v1/sites/{id}.
type SiteDetailsHandler struct {
	client *orchestrator.Orchestrator
}

func NewSiteDetailsHandler(client *orchestrator.Orchestrator) *SiteDetailsHandler {
	return &SiteDetailsHandler{client: client}
}

func (h *SiteDetailsHandler) Name() string        { return "get_site_details" }
func (h *SiteDetailsHandler) Description() string { return "Returns detailed attributes for one site." }
func (h *SiteDetailsHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"site_id": {Type: registry.TypeString, Required: true}}
}

func (h *SiteDetailsHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	siteID := stringArg(args, "site_id", "")
	result, err := h.client.Call(ctx, "GET", "/monitoring/v1/sites/"+siteID, nil, nil)
	if err != nil {
		return "", err
	}

	b := report.New().
		Line(report.LabelNet, fmt.Sprintf("site %s", field(result, "name"))).
		Fact("Address", field(result, "address")).
		Fact("Device count", field(result, "device_count")).
		Fact("Health", field(result, "health_status"))
	return b.Build()
}

// ListSitesHandler implements list_sites over /central/v2/sites.
type ListSitesHandler struct {
	client *orchestrator.Orchestrator
}

func NewListSitesHandler(client *orchestrator.Orchestrator) *ListSitesHandler {
	return &ListSitesHandler{client: client}
}

func (h *ListSitesHandler) Name() string        { return "list_sites" }
func (h *ListSitesHandler) Description() string { return "Lists configured sites." }
func (h *ListSitesHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"limit": {Type: registry.TypeInt, Min: floatPtr(1), Max: floatPtr(500)}}
}

func (h *ListSitesHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	params := map[string]any{"limit": intArg(args, "limit", 50)}
	result, err := h.client.Call(ctx, "GET", "/central/v2/sites", params, nil)
	if err != nil {
		return "", err
	}

	sites := asMapSlice(result, "sites")
	items := make([]string, 0, len(sites))
	for _, s := range sites {
		items = append(items, fmt.Sprintf("- %s (%s)", field(s, "site_name"), field(s, "site_id")))
	}

	b := report.New().List(report.LabelData, "sites", items)
	b.Total("Total sites", int64(len(sites)), int64(len(sites)))
	return b.Build()
}
