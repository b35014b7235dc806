package module

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/agentkit-go/core/pkg/agenterrors"
	"github.com/agentkit-go/core/pkg/eventbus"
)

// ExecutionResult is the outcome of one Registry.Execute call.
type ExecutionResult struct {
	Success  bool
	Data     any
	Err      error
	Duration time.Duration
}

// Registry tracks registered modules and drives their dependency-ordered
// initialize/dispose lifecycle (spec.md §4 "Module Registry").
type Registry struct {
	bus *eventbus.Bus

	mu       sync.Mutex
	modules  map[string]Module
	order    []string // dependency order, computed by Initialize
	initDone bool
}

// NewRegistry constructs an empty module registry. bus may be nil to skip
// event publication.
func NewRegistry(bus *eventbus.Bus) *Registry {
	return &Registry{bus: bus, modules: make(map[string]Module)}
}

// Register adds a module. Registering after Initialize has already run
// requires calling Initialize again to pick up the new module (mutation
// mid-turn is unsupported, spec.md §7 "Shared resources").
func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[m.Name()] = m
	r.initDone = false
}

// Unregister removes a module by name without disposing it; callers
// should Dispose it themselves first if it was initialized.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.modules, name)
	r.initDone = false
}

// Get looks up a module by name.
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.modules[name]
	return m, ok
}

// Names returns every registered module's name, unordered.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	return names
}

// Initialize computes a dependency order via Kahn's algorithm and calls
// Initialize on every module in that order. A dependency cycle, or a
// dependency naming an unregistered module, fails with a
// ConfigurationError and initializes nothing.
func (r *Registry) Initialize(ctx context.Context) error {
	r.mu.Lock()
	order, err := topoSort(r.modules)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	r.order = order
	modules := r.modules
	r.initDone = true
	r.mu.Unlock()

	for i, name := range order {
		m := modules[name]
		if r.bus != nil {
			r.bus.Publish(ctx, eventbus.Event{Type: eventbus.ModuleInitialize, Payload: name})
		}
		if err := m.Initialize(ctx); err != nil {
			r.mu.Lock()
			r.order = order[:i]
			r.mu.Unlock()
			return agenterrors.Module("module "+name+" failed to initialize", err).WithContext("module", name)
		}
	}
	return nil
}

// Dispose calls Dispose on every initialized module in reverse dependency
// order, continuing past individual failures and returning the first one
// encountered (spec.md §4.1 "modules reverse-dependency" dispose ordering).
func (r *Registry) Dispose(ctx context.Context) error {
	r.mu.Lock()
	order := make([]string, len(r.order))
	copy(order, r.order)
	modules := r.modules
	r.mu.Unlock()

	var first error
	for i := len(order) - 1; i >= 0; i-- {
		name := order[i]
		m, ok := modules[name]
		if !ok {
			continue
		}
		if r.bus != nil {
			r.bus.Publish(ctx, eventbus.Event{Type: eventbus.ModuleDisposeStart, Payload: name})
		}
		if err := m.Dispose(ctx); err != nil {
			if r.bus != nil {
				r.bus.Publish(ctx, eventbus.Event{Type: eventbus.ModuleDisposeError, Payload: name})
			}
			if first == nil {
				first = agenterrors.Module("module "+name+" failed to dispose", err).WithContext("module", name)
			}
			continue
		}
		if r.bus != nil {
			r.bus.Publish(ctx, eventbus.Event{Type: eventbus.ModuleDisposeComplete, Payload: name})
		}
	}
	return first
}

// Execute invokes a module's Executable.Execute, if it implements that
// optional interface, and publishes a module.execution event with the
// result whether Execute succeeded or failed. A module that is not
// registered, or does not implement Executable, yields a failed result and
// no event.
func (r *Registry) Execute(ctx context.Context, name string, input any) ExecutionResult {
	start := time.Now()

	m, ok := r.Get(name)
	if !ok {
		err := agenterrors.Module("module not found", nil).WithContext("module", name)
		return ExecutionResult{Success: false, Err: err, Duration: time.Since(start)}
	}

	exec, ok := m.(Executable)
	if !ok {
		err := agenterrors.Module("module does not implement Execute", nil).WithContext("module", name)
		return ExecutionResult{Success: false, Err: err, Duration: time.Since(start)}
	}

	data, err := exec.Execute(ctx, input)
	result := ExecutionResult{Success: err == nil, Data: data, Err: err, Duration: time.Since(start)}

	if r.bus != nil {
		r.bus.Publish(ctx, eventbus.Event{Type: eventbus.ModuleExecution, Payload: result})
	}
	return result
}

// topoSort runs Kahn's algorithm over the dependency graph. Ties are
// broken by name for deterministic ordering. A dependency naming a module
// that isn't registered, or a cycle, produces a ConfigurationError.
func topoSort(modules map[string]Module) ([]string, error) {
	inDegree := make(map[string]int, len(modules))
	dependents := make(map[string][]string, len(modules))

	for name := range modules {
		inDegree[name] = 0
	}
	for name, m := range modules {
		for _, dep := range m.Dependencies() {
			if _, ok := modules[dep]; !ok {
				return nil, agenterrors.Configuration(
					"module " + name + " depends on unregistered module " + dep)
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready []string
	for name, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	var order []string
	for len(ready) > 0 {
		sort.Strings(ready)
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		children := append([]string(nil), dependents[next]...)
		sort.Strings(children)
		for _, child := range children {
			inDegree[child]--
			if inDegree[child] == 0 {
				ready = append(ready, child)
			}
		}
	}

	if len(order) != len(modules) {
		return nil, agenterrors.Configuration("module dependency graph has a cycle")
	}
	return order, nil
}
