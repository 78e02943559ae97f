package tools

import (
	"context"
	"fmt"

	"github.com/arubanetworks/central-mcp-gateway/internal/orchestrator"
	"github.com/arubanetworks/central-mcp-gateway/internal/registry"
	"github.com/arubanetworks/central-mcp-gateway/internal/report"
)

// PingFromDeviceHandler implements ping_from_device over
// /troubleshooting/v1/ping. Like all async diagnostics, it only starts the
// test and returns a task id; the result is fetched by
// GetAsyncTestResultHandler. Task id lifetime is vendor-defined and never
// cached here.
type PingFromDeviceHandler struct {
	client *orchestrator.Orchestrator
}

func NewPingFromDeviceHandler(client *orchestrator.Orchestrator) *PingFromDeviceHandler {
	return &PingFromDeviceHandler{client: client}
}

func (h *PingFromDeviceHandler) Name() string        { return "ping_from_device" }
func (h *PingFromDeviceHandler) Description() string { return "Starts a ping test originating from one device." }
func (h *PingFromDeviceHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{
		"serial": {Type: registry.TypeString, Required: true},
		"target": {Type: registry.TypeString, Required: true},
	}
}

func (h *PingFromDeviceHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	serial := stringArg(args, "serial", "")
	target := stringArg(args, "target", "")
	body := map[string]any{"serial": serial, "target": target}
	result, err := h.client.Call(ctx, "POST", "/troubleshooting/v1/ping", nil, body)
	if err != nil {
		return "", err
	}

	b := report.New().
		Line(report.LabelAsync, fmt.Sprintf("ping from %s to %s started", serial, target)).
		Fact("Task ID", field(result, "task_id"))
	return b.Build()
}

// TracerouteFromDeviceHandler implements traceroute_from_device over
// /troubleshooting/v1/traceroute.
type TracerouteFromDeviceHandler struct {
	client *orchestrator.Orchestrator
}

func NewTracerouteFromDeviceHandler(client *orchestrator.Orchestrator) *TracerouteFromDeviceHandler {
	return &TracerouteFromDeviceHandler{client: client}
}

func (h *TracerouteFromDeviceHandler) Name() string { return "traceroute_from_device" }
func (h *TracerouteFromDeviceHandler) Description() string {
	return "Starts a traceroute test originating from one device."
}
func (h *TracerouteFromDeviceHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{
		"serial": {Type: registry.TypeString, Required: true},
		"target": {Type: registry.TypeString, Required: true},
	}
}

func (h *TracerouteFromDeviceHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	serial := stringArg(args, "serial", "")
	target := stringArg(args, "target", "")
	body := map[string]any{"serial": serial, "target": target}
	result, err := h.client.Call(ctx, "POST", "/troubleshooting/v1/traceroute", nil, body)
	if err != nil {
		return "", err
	}

	b := report.New().
		Line(report.LabelAsync, fmt.Sprintf("traceroute from %s to %s started", serial, target)).
		Fact("Task ID", field(result, "task_id"))
	return b.Build()
}

// GetAsyncTestResultHandler implements get_async_test_result over
// /troubleshooting/v1/tasks/{task_id}, completing the poll side of the
// ping/traceroute lifecycle.
type GetAsyncTestResultHandler struct {
	client *orchestrator.Orchestrator
}

func NewGetAsyncTestResultHandler(client *orchestrator.Orchestrator) *GetAsyncTestResultHandler {
	return &GetAsyncTestResultHandler{client: client}
}

func (h *GetAsyncTestResultHandler) Name() string { return "get_async_test_result" }
func (h *GetAsyncTestResultHandler) Description() string {
	return "Polls the result of a previously started ping or traceroute test."
}
func (h *GetAsyncTestResultHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"task_id": {Type: registry.TypeString, Required: true}}
}

func (h *GetAsyncTestResultHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	taskID := stringArg(args, "task_id", "")
	result, err := h.client.Call(ctx, "GET", "/troubleshooting/v1/tasks/"+taskID, nil, nil)
	if err != nil {
		return "", err
	}

	status := field(result, "status")
	if status != "completed" {
		b := report.New().
			Line(report.LabelAsync, fmt.Sprintf("task %s status: %s", taskID, status))
		return b.Build()
	}

	b := report.New().
		Line(report.LabelAsync, fmt.Sprintf("task %s completed", taskID)).
		Fact("Kind", field(result, "kind")).
		Fact("Result", field(result, "output"))
	return b.Build()
}
