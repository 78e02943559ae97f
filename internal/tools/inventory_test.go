package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arubanetworks/central-mcp-gateway/internal/auth"
	"github.com/arubanetworks/central-mcp-gateway/internal/breaker"
	"github.com/arubanetworks/central-mcp-gateway/internal/orchestrator"
	"github.com/arubanetworks/central-mcp-gateway/internal/ratelimit"
	"github.com/arubanetworks/central-mcp-gateway/internal/retry"
)

func newTestOrchestrator(t *testing.T, mux *http.ServeMux) (*orchestrator.Orchestrator, *httptest.Server) {
	t.Helper()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	server := httptest.NewServer(mux)

	tokens := auth.NewManager(server.URL, "client", "secret", nil)
	limiter := ratelimit.New(100, 60*time.Second)
	circuit := breaker.New()
	retrier := retry.New()

	return orchestrator.New(server.URL, tokens, limiter, circuit, retrier), server
}

func TestDeviceListHandlerRendersReportWithTotal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/inventory/v1/devices", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"devices": []map[string]any{
				{"name": "ap-01", "device_type": "ap", "serial": "SN1", "status": "Up"},
				{"name": "sw-01", "device_type": "switch", "serial": "SN2", "status": "Up"},
			},
		})
	})
	client, server := newTestOrchestrator(t, mux)
	defer server.Close()

	h := NewDeviceListHandler(client)
	out, err := h.Execute(context.Background(), map[string]any{"limit": float64(10)})
	require.NoError(t, err)
	assert.Contains(t, out, "[DEV]")
	assert.Contains(t, out, "ap-01")
	assert.Contains(t, out, "Total devices: 2")
}

func TestDeviceInventorySummaryValidatesTotal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/inventory/v1/devices/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"ap_count": 3, "switch_count": 2, "gateway_count": 1, "total_count": 6,
		})
	})
	client, server := newTestOrchestrator(t, mux)
	defer server.Close()

	h := NewDeviceInventorySummaryHandler(client)
	out, err := h.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, "Total devices: 6")
}

func TestDeviceDetailsHandlerUsesSerialInPath(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/inventory/v1/devices/SN42", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"name": "ap-42", "device_type": "ap", "serial": "SN42", "model": "AP-515", "firmware_version": "10.4", "status": "Up",
		})
	})
	client, server := newTestOrchestrator(t, mux)
	defer server.Close()

	h := NewDeviceDetailsHandler(client)
	out, err := h.Execute(context.Background(), map[string]any{"serial": "SN42"})
	require.NoError(t, err)
	assert.Contains(t, out, "ap-42")
	assert.Contains(t, out, "AP-515")
}
