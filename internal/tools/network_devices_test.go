package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitesHealthHandlerCountsDegraded(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/monitoring/v1/sites/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"sites": []map[string]any{
				{"name": "site-a", "health_status": "healthy"},
				{"name": "site-b", "health_status": "degraded"},
			},
		})
	})
	client, server := newTestOrchestrator(t, mux)
	defer server.Close()

	h := NewSitesHealthHandler(client)
	out, err := h.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, "Degraded sites: 1")
	assert.Contains(t, out, "Total sites: 2")
}

func TestSiteDetailsHandlerUsesSiteIDInPath(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/monitoring/v1/sites/site-7", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"name": "hq", "address": "1 Main St", "device_count": 12, "health_status": "healthy"})
	})
	client, server := newTestOrchestrator(t, mux)
	defer server.Close()

	h := NewSiteDetailsHandler(client)
	out, err := h.Execute(context.Background(), map[string]any{"site_id": "site-7"})
	require.NoError(t, err)
	assert.Contains(t, out, "hq")
	assert.Contains(t, out, "1 Main St")
}

func TestClientListHandlerFiltersByType(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/monitoring/v1/clients", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wireless", r.URL.Query().Get("client_type"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"clients": []map[string]any{{"name": "laptop", "mac": "aa:bb", "associated_device_name": "ap-01"}},
		})
	})
	client, server := newTestOrchestrator(t, mux)
	defer server.Close()

	h := NewClientListHandler(client)
	out, err := h.Execute(context.Background(), map[string]any{"client_type": "wireless"})
	require.NoError(t, err)
	assert.Contains(t, out, "laptop")
	assert.Contains(t, out, "Total clients: 1")
}

func TestAPListHandlerTracksUpDown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/monitoring/v1/aps", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"aps": []map[string]any{
				{"name": "ap-01", "serial": "S1", "status": "Up", "client_count": 3},
				{"name": "ap-02", "serial": "S2", "status": "Down", "client_count": 0},
			},
		})
	})
	client, server := newTestOrchestrator(t, mux)
	defer server.Close()

	h := NewAPListHandler(client)
	out, err := h.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, "Up: 1")
	assert.Contains(t, out, "Down: 1")
}

func TestAPRadioStatsHandlerFormatsUtilization(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/monitoring/v1/aps/S1/radios", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"radios": []map[string]any{{"band": "5GHz", "utilization": 42.5, "noise_floor": -92}},
		})
	})
	client, server := newTestOrchestrator(t, mux)
	defer server.Close()

	h := NewAPRadioStatsHandler(client)
	out, err := h.Execute(context.Background(), map[string]any{"serial": "S1"})
	require.NoError(t, err)
	assert.Contains(t, out, "5GHz")
	assert.Contains(t, out, "42.5%")
}

func TestSwitchPortStatsHandlerRendersThroughput(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/monitoring/v1/switches/SW1/ports", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"ports": []map[string]any{{"name": "1/1/1", "status": "Up", "rx_bytes": 2048, "tx_bytes": 1024}},
		})
	})
	client, server := newTestOrchestrator(t, mux)
	defer server.Close()

	h := NewSwitchPortStatsHandler(client)
	out, err := h.Execute(context.Background(), map[string]any{"serial": "SW1"})
	require.NoError(t, err)
	assert.Contains(t, out, "1/1/1")
	assert.Contains(t, out, "2.0 KiB")
}

func TestGatewayWANUplinksHandlerReportsLossAndLatency(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/monitoring/v1/gateways/GW1/uplinks", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"uplinks": []map[string]any{{"name": "wan1", "status": "Up", "latency_ms": 12, "packet_loss_pct": 0.5}},
		})
	})
	client, server := newTestOrchestrator(t, mux)
	defer server.Close()

	h := NewGatewayWANUplinksHandler(client)
	out, err := h.Execute(context.Background(), map[string]any{"serial": "GW1"})
	require.NoError(t, err)
	assert.Contains(t, out, "wan1")
	assert.Contains(t, out, "0.5%")
}

func TestWANHealthHandlerSurfacesAggregateCounts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/network-monitoring/v1/wan/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"healthy_uplinks": 8, "degraded_uplinks": 1, "down_uplinks": 0, "avg_latency_ms": 14,
		})
	})
	client, server := newTestOrchestrator(t, mux)
	defer server.Close()

	h := NewWANHealthHandler(client)
	out, err := h.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, "Healthy uplinks: 8")
}

func TestVPNTunnelsHandlerCountsDownTunnels(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/network-monitoring/v1/vpn/tunnels", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"tunnels": []map[string]any{
				{"name": "tun-a", "status": "Up", "peer_ip": "10.0.0.1"},
				{"name": "tun-b", "status": "Down", "peer_ip": "10.0.0.2"},
			},
		})
	})
	client, server := newTestOrchestrator(t, mux)
	defer server.Close()

	h := NewVPNTunnelsHandler(client)
	out, err := h.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, "Down: 1")
	assert.Contains(t, out, "Total tunnels: 2")
}
