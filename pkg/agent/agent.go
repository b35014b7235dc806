// Package agent implements the Agent Facade: the single entry point that
// wires a provider registry, tool registry, plugin pipeline, module
// registry, event bus, and conversation history manager into one runnable
// unit, and drives them through the execution loop (spec.md §4.1).
package agent

import (
	"context"
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/agentkit-go/core/pkg/agenterrors"
	"github.com/agentkit-go/core/pkg/eventbus"
	"github.com/agentkit-go/core/pkg/execution"
	"github.com/agentkit-go/core/pkg/logger"
	"github.com/agentkit-go/core/pkg/message"
	"github.com/agentkit-go/core/pkg/module"
	"github.com/agentkit-go/core/pkg/observability"
	"github.com/agentkit-go/core/pkg/plugin"
	"github.com/agentkit-go/core/pkg/provider"
	"github.com/agentkit-go/core/pkg/session"
	"github.com/agentkit-go/core/pkg/tool"
	"github.com/agentkit-go/core/pkg/util"
	"golang.org/x/sync/singleflight"
)

// Version identifies the Agent Facade's own build, surfaced in GetStats.
const Version = "0.1.0"

// Agent is the runtime's facade: one agent owns exactly one provider
// registry, tool registry, plugin pipeline, module registry, event bus and
// history manager (spec.md §7 "Shared resources" — none of these are
// process-wide singletons). Construction only validates and stores Config;
// the registries are populated and modules initialized lazily, on the
// first Run/RunStream call (spec.md §4.1 "Lazy initialization").
type Agent struct {
	config Config

	logger   *slog.Logger
	recorder observability.Recorder
	tracer   *observability.Tracer
	tally    *failureTally

	providers *provider.Registry
	tools     *tool.Registry
	pipeline  *plugin.Pipeline
	modules   *module.Registry
	bus       *eventbus.Bus
	sessions  *session.Manager

	conversationID string
	createdAt      time.Time

	initGroup singleflight.Group
	initMu    sync.Mutex
	inited    bool
	initErr   error

	modelMu sync.RWMutex
	model   ModelSpec

	loopMu sync.RWMutex
	loop   *execution.Loop

	destroyMu      sync.Mutex
	destroyErr     error
	lastDestroyCtx context.Context
	disposer       *util.Disposer
}

// New validates cfg and constructs an Agent. The registries it owns exist
// immediately (so AddPlugin/RegisterTool can be called before the first
// turn), but they are only populated from cfg, and modules only
// initialized, on first use.
func New(cfg Config) (*Agent, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = logger.New(cfg.Name, cfg.LogLevel, nil)
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = observability.NoopRecorder{}
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = observability.NewTracer("agentkit.agent."+cfg.Name, nil)
	}
	convID := cfg.ConversationID
	if convID == "" {
		convID = util.NewConversationID()
	}

	tally := newFailureTally()
	bus := cfg.Bus
	if bus == nil {
		bus = eventbus.NewBus(log)
	}

	a := &Agent{
		config:         cfg,
		logger:         log,
		recorder:       recorder,
		tracer:         tracer,
		tally:          tally,
		providers:      provider.NewRegistry(),
		tools:          tool.NewRegistry(),
		pipeline:       plugin.NewPipeline(log, &statsRecorder{Recorder: recorder, tally: tally}, bus),
		modules:        module.NewRegistry(bus),
		bus:            bus,
		sessions:       session.NewManager(cfg.SessionMaxSize),
		conversationID: convID,
		createdAt:      time.Now(),
		model:          cfg.DefaultModel,
	}
	a.disposer = util.NewDisposer(a.doDestroy)
	return a, nil
}

// ensureInitialized performs the deferred part of construction exactly
// once, sharing a single in-flight attempt across concurrent first callers
// via singleflight (spec.md §4.1 "concurrent first calls share one init").
func (a *Agent) ensureInitialized(ctx context.Context) error {
	a.initMu.Lock()
	if a.inited {
		err := a.initErr
		a.initMu.Unlock()
		return err
	}
	a.initMu.Unlock()

	_, err, _ := a.initGroup.Do("init", func() (any, error) {
		a.initMu.Lock()
		if a.inited {
			err := a.initErr
			a.initMu.Unlock()
			return nil, err
		}
		a.initMu.Unlock()

		doErr := a.doInit(ctx)

		a.initMu.Lock()
		a.inited = true
		a.initErr = doErr
		a.initMu.Unlock()
		return nil, doErr
	})
	return err
}

func (a *Agent) doInit(ctx context.Context) error {
	for _, pb := range a.config.AIProviders {
		if err := a.providers.Register(pb.Name, pb.Provider); err != nil {
			return err
		}
	}
	a.modelMu.RLock()
	selected := a.model.Provider
	a.modelMu.RUnlock()
	if err := a.providers.SetCurrent(selected); err != nil {
		return err
	}

	for _, t := range a.config.Tools {
		if err := a.tools.Register(t); err != nil {
			return err
		}
	}

	for _, p := range a.config.Plugins {
		a.pipeline.Register(p)
	}

	for _, m := range a.config.Modules {
		a.modules.Register(m)
	}
	if err := a.modules.Initialize(ctx); err != nil {
		return err
	}

	a.rebuildLoop()
	return nil
}

func (a *Agent) buildLoop() *execution.Loop {
	prov, _ := a.providers.CurrentProvider()
	a.modelMu.RLock()
	m := a.model
	a.modelMu.RUnlock()

	opts := provider.Options{
		Model:       m.Model,
		Temperature: m.Temperature,
		MaxTokens:   m.MaxTokens,
		TopP:        m.TopP,
	}

	return execution.NewLoop(execution.Config{
		Provider:        prov,
		ProviderName:    a.providers.Current(),
		Tools:           a.tools,
		Pipeline:        a.pipeline,
		Bus:             a.bus,
		Recorder:        &statsRecorder{Recorder: a.recorder, tally: a.tally},
		Tracer:          a.tracer,
		Logger:          a.logger,
		MaxToolTurns:    a.config.MaxToolTurns,
		ProviderOptions: opts,
		AgentName:       a.config.Name,
	})
}

func (a *Agent) rebuildLoop() {
	loop := a.buildLoop()
	a.loopMu.Lock()
	a.loop = loop
	a.loopMu.Unlock()
}

func (a *Agent) currentLoop() *execution.Loop {
	a.loopMu.RLock()
	defer a.loopMu.RUnlock()
	return a.loop
}

// isInitialized reports whether doInit has already completed (success or
// failure), without triggering it.
func (a *Agent) isInitialized() bool {
	a.initMu.Lock()
	defer a.initMu.Unlock()
	return a.inited
}

// prepareSession resolves this agent's single conversation session,
// synthesizing the configured system message at its head on first use
// (spec.md §4.2 "S0 Prepare").
func (a *Agent) prepareSession() *session.Session {
	sess := a.sessions.GetOrCreate(a.conversationID)
	if sess.Len() == 0 {
		a.modelMu.RLock()
		sysMsg := a.model.SystemMessage
		a.modelMu.RUnlock()
		if sysMsg != "" {
			sess.Append(message.NewSystem(sysMsg))
		}
	}
	return sess
}

// Run executes one conversational turn, triggering lazy initialization on
// first use, and returns the model's final textual answer.
func (a *Agent) Run(ctx context.Context, input string) (string, error) {
	if err := a.ensureInitialized(ctx); err != nil {
		return "", err
	}
	sess := a.prepareSession()
	return a.currentLoop().Run(ctx, sess, input)
}

// RunStream executes one conversational turn in streaming mode, yielding
// text deltas as the provider produces them. run/runStream are not
// re-entrant for a single Agent instance (spec.md §5).
func (a *Agent) RunStream(ctx context.Context, input string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if err := a.ensureInitialized(ctx); err != nil {
			yield("", err)
			return
		}
		sess := a.prepareSession()
		for chunk, err := range a.currentLoop().RunStream(ctx, sess, input) {
			if !yield(chunk, err) {
				return
			}
		}
	}
}

// GetHistory returns the current conversation's message log. It returns
// nil before the first turn has ever started a session.
func (a *Agent) GetHistory() []message.Message {
	sess, ok := a.sessions.Get(a.conversationID)
	if !ok {
		return nil
	}
	return sess.Messages()
}

// ClearHistory empties the current conversation's message log.
func (a *Agent) ClearHistory() {
	a.sessions.Clear(a.conversationID)
}

// AddPlugin registers a plugin, replacing any existing one with the same
// name. Safe to call between turns without disturbing in-flight state
// (spec.md's Testable Property "adding/removing a plugin between turns
// does not affect already-appended messages").
func (a *Agent) AddPlugin(p plugin.Plugin) {
	a.pipeline.Register(p)
}

// RemovePlugin unregisters a plugin by name. A no-op if it isn't registered.
func (a *Agent) RemovePlugin(name string) {
	a.pipeline.Remove(name)
}

// GetPlugin looks up a registered plugin by name.
func (a *Agent) GetPlugin(name string) (plugin.Plugin, bool) {
	return a.pipeline.Get(name)
}

// RegisterTool adds a tool to the visible tool set. Duplicate schema names
// are silently ignored (spec.md §4.1 "Tool registration skips duplicates").
func (a *Agent) RegisterTool(t tool.Tool) error {
	return a.tools.Register(t)
}

// UnregisterTool removes a tool by name.
func (a *Agent) UnregisterTool(name string) {
	a.tools.Unregister(name)
}

// RegisterModule adds a module. It is not initialized until the agent's
// modules are next (re-)initialized; most callers register modules
// through Config instead.
func (a *Agent) RegisterModule(m module.Module) {
	a.modules.Register(m)
}

// UnregisterModule removes a module without disposing it.
func (a *Agent) UnregisterModule(name string) {
	a.modules.Unregister(name)
}

// ExecuteModule invokes a module's Execute method, if it implements
// module.Executable.
func (a *Agent) ExecuteModule(ctx context.Context, name string, input any) module.ExecutionResult {
	return a.modules.Execute(ctx, name, input)
}

// SetModel changes the active provider/model for subsequent turns. The
// provider named by spec must be one of Config.AIProviders; the execution
// loop is rebuilt to pick up the change immediately.
func (a *Agent) SetModel(spec ModelSpec) error {
	if a.isInitialized() {
		if _, ok := a.providers.Get(spec.Provider); !ok {
			return agenterrors.Configuration("cannot select unregistered provider: " + spec.Provider)
		}
		if err := a.providers.SetCurrent(spec.Provider); err != nil {
			return err
		}
	} else {
		known := false
		for _, pb := range a.config.AIProviders {
			known = known || pb.Name == spec.Provider
		}
		if !known {
			return agenterrors.Configuration("cannot select unregistered provider: " + spec.Provider)
		}
	}

	a.modelMu.Lock()
	a.model = spec
	a.modelMu.Unlock()

	if a.isInitialized() {
		a.rebuildLoop()
	}
	return nil
}

// GetModel returns the currently active model spec.
func (a *Agent) GetModel() ModelSpec {
	a.modelMu.RLock()
	defer a.modelMu.RUnlock()
	return a.model
}

// GetConfig returns the Config this Agent was constructed with.
func (a *Agent) GetConfig() Config {
	return a.config
}

// Destroy releases the agent's resources: modules in reverse dependency
// order, then plugins removed (closing their event-bus subscriptions), then
// every module unregistered, then every provider that implements
// provider.Disposer disposed. The event bus itself is not torn down:
// subscribers registered on it other than through a plugin stay
// registered. Destroy is idempotent; a second call is a no-op and returns
// the first call's result.
func (a *Agent) Destroy(ctx context.Context) error {
	a.destroyMu.Lock()
	a.lastDestroyCtx = ctx
	a.destroyMu.Unlock()

	a.disposer.Dispose()
	return a.destroyErr
}

func (a *Agent) doDestroy() {
	ctx := a.lastDestroyCtx
	if ctx == nil {
		ctx = context.Background()
	}

	var err error
	if a.isInitialized() {
		if disposeErr := a.modules.Dispose(ctx); disposeErr != nil {
			err = disposeErr
		}
	}
	for _, p := range a.pipeline.List() {
		a.pipeline.Remove(p.Name())
	}
	for _, name := range a.modules.Names() {
		a.modules.Unregister(name)
	}
	for _, name := range a.providers.Names() {
		p, _ := a.providers.Get(name)
		if d, ok := p.(provider.Disposer); ok {
			if disposeErr := d.Dispose(); disposeErr != nil && err == nil {
				err = agenterrors.Provider("provider "+name+" failed to dispose", disposeErr)
			}
		}
	}

	a.destroyErr = err
}
