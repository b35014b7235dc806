package provider

import (
	"sync"

	"github.com/agentkit-go/core/pkg/agenterrors"
	"github.com/agentkit-go/core/pkg/registry"
)

// Registry tracks the named providers an agent knows about and which one
// is currently selected for new turns (spec.md §4.1 AgentConfig invariant:
// provider names are unique; defaultModel.provider names one of them).
type Registry struct {
	base registry.Registry[Provider]

	mu      sync.RWMutex
	current string
}

// NewRegistry constructs an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{base: registry.New[Provider]()}
}

// Register adds a provider under name. Re-registering a name already in
// use fails with a ConfigurationError (spec.md §4.1 "duplicate provider
// names" is a config validation failure).
func (r *Registry) Register(name string, p Provider) error {
	if _, exists := r.base.Get(name); exists {
		return agenterrors.Configuration("duplicate provider name: " + name)
	}
	return r.base.Register(name, p)
}

// Get looks up a provider by name.
func (r *Registry) Get(name string) (Provider, bool) {
	return r.base.Get(name)
}

// Names returns every registered provider name, in registration order.
func (r *Registry) Names() []string {
	return r.base.Names()
}

// SetCurrent selects the provider used for the next turn. It fails if name
// is not registered.
func (r *Registry) SetCurrent(name string) error {
	if _, exists := r.base.Get(name); !exists {
		return agenterrors.Configuration("cannot select unregistered provider: " + name)
	}
	r.mu.Lock()
	r.current = name
	r.mu.Unlock()
	return nil
}

// Current returns the name of the currently selected provider, or "" if
// none has been selected yet.
func (r *Registry) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// CurrentProvider resolves the currently selected provider, if any.
func (r *Registry) CurrentProvider() (Provider, bool) {
	name := r.Current()
	if name == "" {
		return nil, false
	}
	return r.base.Get(name)
}
