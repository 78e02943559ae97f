package registry

import "fmt"

// SchemaError is raised by a handler that discovers a validation problem
// only after looking at argument contents more deeply than the top-level
// InputSchema check can (e.g. a value valid in isolation but incoherent
// paired with another field).
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("registry: %s %s", e.Field, e.Reason)
}
