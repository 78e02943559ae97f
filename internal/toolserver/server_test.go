package toolserver

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arubanetworks/central-mcp-gateway/internal/observability"
	"github.com/arubanetworks/central-mcp-gateway/internal/registry"
)

func buildCallToolRequest(t *testing.T, name string, args map[string]any) mcp.CallToolRequest {
	t.Helper()
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

type echoHandler struct{}

func (echoHandler) Name() string        { return "echo_tool" }
func (echoHandler) Description() string { return "echoes its input" }
func (echoHandler) InputSchema() registry.InputSchema {
	return registry.InputSchema{"message": {Type: registry.TypeString, Required: true}}
}
func (echoHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	return "[OK] " + args["message"].(string), nil
}

func newTestDispatcher(t *testing.T) *registry.Dispatcher {
	t.Helper()
	reg := registry.New()
	reg.Register(echoHandler{})
	tracer, err := observability.NewTracer(zap.NewNop(), observability.TracingConfig{Enabled: false})
	require.NoError(t, err)
	return registry.NewDispatcher(reg, tracer, observability.NewMetrics(), zap.NewNop())
}

func TestNewBuildsMCPServer(t *testing.T) {
	dispatcher := newTestDispatcher(t)
	s := New(dispatcher, zap.NewNop())
	assert.NotNil(t, s.mcp)
}

func TestHandleCallToolDelegatesToDispatcher(t *testing.T) {
	dispatcher := newTestDispatcher(t)
	s := New(dispatcher, zap.NewNop())

	handler := s.handleCallTool("echo_tool")
	result, err := handler(context.Background(), buildCallToolRequest(t, "echo_tool", map[string]any{"message": "hello"}))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
}

func TestHandleCallToolUnknownToolStillReturnsTextResult(t *testing.T) {
	dispatcher := newTestDispatcher(t)
	s := New(dispatcher, zap.NewNop())

	handler := s.handleCallTool("does_not_exist")
	result, err := handler(context.Background(), buildCallToolRequest(t, "does_not_exist", map[string]any{}))
	require.NoError(t, err)
	require.NotNil(t, result)
}
