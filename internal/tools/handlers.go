package tools

import (
	"github.com/arubanetworks/central-mcp-gateway/internal/orchestrator"
	"github.com/arubanetworks/central-mcp-gateway/internal/registry"
)

// All returns every read-only tool handler wired against the given
// orchestrator, in the catalog order cmd/arubamcp registers them in.
func All(client *orchestrator.Orchestrator) []registry.Handler {
	return []registry.Handler{
		NewDeviceListHandler(client),
		NewDeviceDetailsHandler(client),
		NewDeviceInventorySummaryHandler(client),

		NewSitesHealthHandler(client),
		NewSiteDetailsHandler(client),
		NewListSitesHandler(client),

		NewClientListHandler(client),
		NewClientDetailsHandler(client),

		NewAPListHandler(client),
		NewAPDetailsHandler(client),
		NewAPRadioStatsHandler(client),

		NewSwitchListHandler(client),
		NewSwitchDetailsHandler(client),
		NewSwitchPortStatsHandler(client),

		NewGatewayListHandler(client),
		NewGatewayDetailsHandler(client),
		NewGatewayWANUplinksHandler(client),

		NewWANHealthHandler(client),
		NewWANUplinkStatsHandler(client),

		NewVPNTunnelsHandler(client),
		NewVPNTunnelDetailsHandler(client),

		NewFirewallSessionsHandler(client),
		NewIDSEventsHandler(client),
		NewRogueAPsHandler(client),

		NewGroupListHandler(client),
		NewTemplateListHandler(client),
		NewTemplateDetailsHandler(client),

		NewDeviceConfigurationHandler(client),
		NewConfigurationComplianceHandler(client),

		NewPingFromDeviceHandler(client),
		NewTracerouteFromDeviceHandler(client),
		NewGetAsyncTestResultHandler(client),

		NewAlertsHandler(client),
		NewAuditTrailHandler(client),

		NewNetworkUsageTrendHandler(client),
		NewClientCountTrendHandler(client),
	}
}
