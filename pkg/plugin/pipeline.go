package plugin

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/agentkit-go/core/pkg/eventbus"
	"github.com/agentkit-go/core/pkg/message"
	"github.com/agentkit-go/core/pkg/observability"
)

// Pipeline holds the registered plugins for one agent and fans lifecycle
// hooks out to them in priority order (spec.md §4.5 "Hook fan-out").
type Pipeline struct {
	logger   *slog.Logger
	recorder observability.Recorder
	bus      *eventbus.Bus

	mu            sync.RWMutex
	plugins       map[string]Plugin
	subscriptions map[string]*eventbus.Subscription
	ordered       []Plugin // recomputed on every mutation
}

// NewPipeline constructs an empty pipeline. logger and recorder may be
// nil/zero-value (a nil logger silences hook-failure logging; a nil
// recorder is replaced by NoopRecorder).
func NewPipeline(logger *slog.Logger, recorder observability.Recorder, bus *eventbus.Bus) *Pipeline {
	if recorder == nil {
		recorder = observability.NoopRecorder{}
	}
	return &Pipeline{
		logger:        logger,
		recorder:      recorder,
		bus:           bus,
		plugins:       make(map[string]Plugin),
		subscriptions: make(map[string]*eventbus.Subscription),
	}
}

// Register adds a plugin, deduplicating by Name (re-registering the same
// name replaces the existing entry, matching the Agent Facade's
// addPlugin semantics). If the plugin implements ModuleEventSubscriber and
// the pipeline has an event bus, it is subscribed immediately.
func (p *Pipeline) Register(pl Plugin) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.subscriptions[pl.Name()]; ok {
		existing.Close()
		delete(p.subscriptions, pl.Name())
	}

	p.plugins[pl.Name()] = pl
	if sub, ok := pl.(ModuleEventSubscriber); ok && p.bus != nil {
		p.subscriptions[pl.Name()] = sub.SubscribeToModuleEvents(p.bus)
	}
	p.resort()
}

// Remove unregisters a plugin by name, closing its event-bus subscription
// if it held one. Removing an unknown name is a no-op.
func (p *Pipeline) Remove(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if sub, ok := p.subscriptions[name]; ok {
		sub.Close()
		delete(p.subscriptions, name)
	}
	delete(p.plugins, name)
	p.resort()
}

// Get returns the plugin registered under name, if any.
func (p *Pipeline) Get(name string) (Plugin, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	pl, ok := p.plugins[name]
	return pl, ok
}

// List returns every registered plugin, ordered priority-desc then
// name-asc (spec.md §4.5).
func (p *Pipeline) List() []Plugin {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Plugin, len(p.ordered))
	copy(out, p.ordered)
	return out
}

// resort must be called with p.mu held.
func (p *Pipeline) resort() {
	ordered := make([]Plugin, 0, len(p.plugins))
	for _, pl := range p.plugins {
		ordered = append(ordered, pl)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority() != ordered[j].Priority() {
			return ordered[i].Priority() > ordered[j].Priority()
		}
		return ordered[i].Name() < ordered[j].Name()
	})
	p.ordered = ordered
}

// fire invokes call for each enabled, currently-ordered plugin in turn,
// isolating failures: an error is logged and counted via the recorder,
// never propagated, never aborting the fan-out for remaining plugins
// (spec.md §4.5 "Failure isolation").
func (p *Pipeline) fire(ctx context.Context, hook string, call func(Plugin) error) {
	for _, pl := range p.List() {
		if !pl.Enabled() {
			continue
		}
		if err := call(pl); err != nil {
			p.recorder.RecordPluginFailure(pl.Name(), hook)
			if p.logger != nil {
				p.logger.Warn("plugin hook failed", "plugin", pl.Name(), "hook", hook, "error", err)
			}
		}
	}
}

func (p *Pipeline) FireBeforeRun(ctx context.Context, input string) {
	p.fire(ctx, "beforeRun", func(pl Plugin) error {
		if h, ok := pl.(BeforeRunHook); ok {
			return h.BeforeRun(ctx, input)
		}
		return nil
	})
}

func (p *Pipeline) FireAfterRun(ctx context.Context, output string) {
	p.fire(ctx, "afterRun", func(pl Plugin) error {
		if h, ok := pl.(AfterRunHook); ok {
			return h.AfterRun(ctx, output)
		}
		return nil
	})
}

func (p *Pipeline) FireBeforeProviderCall(ctx context.Context, messages []message.Message) {
	p.fire(ctx, "beforeProviderCall", func(pl Plugin) error {
		if h, ok := pl.(BeforeProviderCallHook); ok {
			return h.BeforeProviderCall(ctx, messages)
		}
		return nil
	})
}

func (p *Pipeline) FireAfterProviderCall(ctx context.Context, response message.Message) {
	p.fire(ctx, "afterProviderCall", func(pl Plugin) error {
		if h, ok := pl.(AfterProviderCallHook); ok {
			return h.AfterProviderCall(ctx, response)
		}
		return nil
	})
}

func (p *Pipeline) FireBeforeToolCall(ctx context.Context, call message.ToolCall) {
	p.fire(ctx, "beforeToolCall", func(pl Plugin) error {
		if h, ok := pl.(BeforeToolCallHook); ok {
			return h.BeforeToolCall(ctx, call)
		}
		return nil
	})
}

func (p *Pipeline) FireAfterToolCall(ctx context.Context, call message.ToolCall, resultText string) {
	p.fire(ctx, "afterToolCall", func(pl Plugin) error {
		if h, ok := pl.(AfterToolCallHook); ok {
			return h.AfterToolCall(ctx, call, resultText)
		}
		return nil
	})
}

// FireOnError fires the onError hook. Per spec.md §4.5, a failure inside
// onError itself is swallowed exactly like any other hook failure — it is
// never allowed to mask the original error that triggered it.
func (p *Pipeline) FireOnError(ctx context.Context, turnErr error) {
	p.fire(ctx, "onError", func(pl Plugin) error {
		if h, ok := pl.(ErrorHook); ok {
			return h.OnError(ctx, turnErr)
		}
		return nil
	})
}
