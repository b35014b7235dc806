package agent

import (
	"log/slog"

	"github.com/agentkit-go/core/pkg/agenterrors"
	"github.com/agentkit-go/core/pkg/eventbus"
	"github.com/agentkit-go/core/pkg/module"
	"github.com/agentkit-go/core/pkg/observability"
	"github.com/agentkit-go/core/pkg/plugin"
	"github.com/agentkit-go/core/pkg/provider"
	"github.com/agentkit-go/core/pkg/tool"
)

// ModelSpec names a provider and the generation options to drive it with,
// matching AgentConfig.defaultModel (spec.md §3).
type ModelSpec struct {
	Provider      string
	Model         string
	Temperature   *float64
	MaxTokens     *int
	TopP          *float64
	SystemMessage string
}

// ProviderBinding names one provider registered with the agent. A slice
// (rather than a map) is used so Config construction can carry a
// duplicate name through to validation, which is where spec.md says the
// duplicate must be rejected.
type ProviderBinding struct {
	Name     string
	Provider provider.Provider
}

// Config is the sole construction input for an Agent (spec.md §4.1
// "Configuration"). There is no file format in the core; callers build
// Config as a Go struct literal.
type Config struct {
	Name string

	AIProviders  []ProviderBinding
	DefaultModel ModelSpec

	Tools   []tool.Tool
	Plugins []plugin.Plugin
	Modules []module.Module

	ConversationID string
	MaxToolTurns   int
	SessionMaxSize int

	LogLevel string
	Logger   *slog.Logger
	Recorder observability.Recorder
	Tracer   *observability.Tracer
	Bus      *eventbus.Bus
}

// validate enforces the invariants of spec.md §4.1 "Config validation".
func (c Config) validate() error {
	if c.Name == "" {
		return agenterrors.Configuration("agent config: name is required")
	}
	if len(c.AIProviders) == 0 {
		return agenterrors.Configuration("agent config: aiProviders must not be empty")
	}
	if c.DefaultModel.Provider == "" {
		return agenterrors.Configuration("agent config: defaultModel is required")
	}

	seen := make(map[string]bool, len(c.AIProviders))
	for _, pb := range c.AIProviders {
		if seen[pb.Name] {
			return agenterrors.Configuration("agent config: duplicate provider name: " + pb.Name)
		}
		seen[pb.Name] = true
	}

	if !seen[c.DefaultModel.Provider] {
		return agenterrors.Configuration(
			"agent config: defaultModel.provider " + c.DefaultModel.Provider + " is not among aiProviders")
	}

	return nil
}
