package registry

import "sort"

// Registry is the closed catalog of tool handlers.
type Registry struct {
	handlers map[string]Handler
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds h to the catalog. Registering a name twice is a wiring bug
// and panics at startup rather than silently shadowing a handler.
func (r *Registry) Register(h Handler) {
	if _, exists := r.handlers[h.Name()]; exists {
		panic("registry: duplicate tool name " + h.Name())
	}
	r.handlers[h.Name()] = h
}

// Lookup returns the handler for name, if registered.
func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// List returns every registered tool's descriptor, sorted by name for a
// deterministic discovery response.
func (r *Registry) List() []Descriptor {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	descriptors := make([]Descriptor, 0, len(names))
	for _, name := range names {
		h := r.handlers[name]
		descriptors = append(descriptors, Descriptor{
			Name:        h.Name(),
			Description: h.Description(),
			InputSchema: h.InputSchema(),
		})
	}
	return descriptors
}
