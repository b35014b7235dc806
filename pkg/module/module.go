// Package module implements the optional Module Registry: pluggable,
// named units with declared dependencies, initialized and disposed in
// dependency order (spec.md §4 "Module Registry"). Unlike the Plugin
// Pipeline's flat hook fan-out, modules have an explicit dependency graph,
// so this package owns its own topological sort rather than reusing
// pkg/registry's registration-ordered store.
package module

import "context"

// Module is a named unit an agent can register. Dependencies names other
// modules that must be initialized first (and disposed after).
type Module interface {
	Name() string
	Dependencies() []string
	Initialize(ctx context.Context) error
	Dispose(ctx context.Context) error
}

// Executable is an optional interface a Module can implement to be invoked
// mid-turn via Agent.ExecuteModule.
type Executable interface {
	Execute(ctx context.Context, input any) (any, error)
}
