// Package registry implements the tool registry and dispatcher described in
// list_tools/call_tool, input-schema validation, and the
// uniform error envelope that converts any handler failure into a
// one-segment report.
package registry

import "context"

// ParamType is the closed set of argument types a tool schema can declare.
type ParamType string

const (
	TypeString ParamType = "string"
	TypeInt    ParamType = "int"
	TypeFloat  ParamType = "float"
	TypeBool   ParamType = "bool"
	TypeArray  ParamType = "array"
)

// ParamSchema describes one named argument's type and constraints.
type ParamSchema struct {
	Type     ParamType
	Required bool
	Enum     []string
	Min      *float64
	Max      *float64
}

// InputSchema is a tool's full set of named argument constraints.
type InputSchema map[string]ParamSchema

// Handler is one tool's implementation.
type Handler interface {
	Name() string
	Description() string
	InputSchema() InputSchema
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// Descriptor is what list_tools returns for discovery.
type Descriptor struct {
	Name        string
	Description string
	InputSchema InputSchema
}
