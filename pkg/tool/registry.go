package tool

import (
	"fmt"
	"sync"

	"github.com/agentkit-go/core/pkg/agenterrors"
	"github.com/agentkit-go/core/pkg/registry"
	"github.com/agentkit-go/core/pkg/toolschema"
)

// Registry tracks registered tools and an optional allow-list restricting
// which of them are currently visible to a turn (spec.md §4.4).
type Registry struct {
	base registry.Registry[Tool]

	mu      sync.RWMutex
	allowed map[string]bool // nil means "all tools visible"
}

// NewRegistry constructs an empty tool registry with no allow-list (every
// registered tool is visible).
func NewRegistry() *Registry {
	return &Registry{base: registry.New[Tool]()}
}

// Register adds a tool, deduplicating by schema name (a second
// registration under the same name is a no-op per spec.md §4.1 "Tool
// registration skips duplicates by schema.name") and validating that the
// schema's declared parameter types are all recognized and that every
// required name is in fact a declared property.
func (r *Registry) Register(t Tool) error {
	schema := t.Schema()
	if schema.Name == "" {
		return agenterrors.Configuration("tool schema must have a non-empty name")
	}
	if _, exists := r.base.Get(schema.Name); exists {
		return nil
	}
	if err := validateSchemaShape(schema); err != nil {
		return err
	}
	return r.base.Register(schema.Name, t)
}

// Unregister removes a tool by name. Unregistering an unknown name is a
// no-op.
func (r *Registry) Unregister(name string) {
	r.base.Remove(name)
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	return r.base.Get(name)
}

// Has reports whether a tool is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.base.Get(name)
	return ok
}

// SetAllowedTools restricts GetTools/IsAllowed to the given names.
// Re-setting the same list is idempotent (spec.md §8 "setAllowedTools(A);
// setAllowedTools(A) is idempotent"). Passing nil clears the restriction.
func (r *Registry) SetAllowedTools(names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if names == nil {
		r.allowed = nil
		return
	}
	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[n] = true
	}
	r.allowed = allowed
}

// IsAllowed reports whether name is currently visible: true when there is
// no allow-list, or when name is in it.
func (r *Registry) IsAllowed(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.allowed == nil {
		return true
	}
	return r.allowed[name]
}

// GetTools returns every currently visible (registered and allow-listed)
// tool, in registration order.
func (r *Registry) GetTools() []Tool {
	all := r.base.List()
	out := make([]Tool, 0, len(all))
	for _, t := range all {
		if r.IsAllowed(t.Schema().Name) {
			out = append(out, t)
		}
	}
	return out
}

// Names returns the names of every registered tool, allow-listed or not.
func (r *Registry) Names() []string {
	return r.base.Names()
}

func validateSchemaShape(schema toolschema.ToolSchema) error {
	validTypes := toolschema.ValidTypes()

	var walk func(props map[string]toolschema.ParameterSchema) error
	walk = func(props map[string]toolschema.ParameterSchema) error {
		for name, p := range props {
			if !validTypes[p.Type] {
				return agenterrors.Configuration(
					fmt.Sprintf("tool %q: parameter %q has unknown type %q", schema.Name, name, p.Type))
			}
			if p.Properties != nil {
				if err := walk(p.Properties); err != nil {
					return err
				}
			}
			if p.Items != nil {
				if err := walk(map[string]toolschema.ParameterSchema{name + "[]": *p.Items}); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := walk(schema.Parameters.Properties); err != nil {
		return err
	}

	for _, req := range schema.Parameters.Required {
		if _, ok := schema.Parameters.Properties[req]; !ok {
			return agenterrors.Configuration(
				fmt.Sprintf("tool %q: required parameter %q is not a declared property", schema.Name, req))
		}
	}
	return nil
}
