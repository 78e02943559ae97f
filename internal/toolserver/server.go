// Package toolserver bridges internal/registry's dispatcher onto the MCP
// tool protocol: one mcp.NewTool per registered handler, schema built from
// the handler's registry.InputSchema, dispatched through a single
// call_tool handler func.
package toolserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/arubanetworks/central-mcp-gateway/internal/registry"
)

const (
	serverName    = "arubamcp"
	serverVersion = "1.0.0"
)

// Server wraps an *mcpserver.MCPServer configured with the declared
// capabilities (tools: true, prompts: false, resources: false) and wired
// to a registry.Dispatcher.
type Server struct {
	mcp        *mcpserver.MCPServer
	dispatcher *registry.Dispatcher
	logger     *zap.Logger
}

// New builds the MCP server and registers every tool the dispatcher knows
// about at construction time (the registry is immutable after startup).
func New(dispatcher *registry.Dispatcher, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpSrv := mcpserver.NewMCPServer(
		serverName,
		serverVersion,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)

	s := &Server{mcp: mcpSrv, dispatcher: dispatcher, logger: logger}
	s.registerTools()
	return s
}

// registerTools declares one mcp.Tool per dispatcher descriptor, translating
// registry.InputSchema into mcp-go's property builders.
func (s *Server) registerTools() {
	for _, d := range s.dispatcher.ListTools() {
		opts := []mcp.ToolOption{mcp.WithDescription(d.Description)}
		opts = append(opts, schemaOptions(d.InputSchema)...)
		tool := mcp.NewTool(d.Name, opts...)
		s.mcp.AddTool(tool, s.handleCallTool(d.Name))
	}
}

func schemaOptions(schema registry.InputSchema) []mcp.ToolOption {
	opts := make([]mcp.ToolOption, 0, len(schema))
	for name, constraint := range schema {
		propOpts := []mcp.PropertyOption{mcp.Description(fmt.Sprintf("%s argument", name))}
		if constraint.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		if len(constraint.Enum) > 0 {
			propOpts = append(propOpts, mcp.Enum(constraint.Enum...))
		}

		switch constraint.Type {
		case registry.TypeString:
			opts = append(opts, mcp.WithString(name, propOpts...))
		case registry.TypeInt, registry.TypeFloat:
			opts = append(opts, mcp.WithNumber(name, propOpts...))
		case registry.TypeBool:
			opts = append(opts, mcp.WithBoolean(name, propOpts...))
		}
	}
	return opts
}

// handleCallTool closes over a tool name and routes every invocation
// through the dispatcher's uniform error-handling and observability path;
// nothing here ever returns a protocol-level error.
func (s *Server) handleCallTool(name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		report := s.dispatcher.CallTool(ctx, name, args)
		return mcp.NewToolResultText(report), nil
	}
}

// ServeStdio runs the server over stdio until the stream closes.
func (s *Server) ServeStdio(ctx context.Context) error {
	return mcpserver.ServeStdio(s.mcp)
}
