// Package execution implements the execution loop state machine
// (S0 Prepare, S1 Call Provider, S2 Classify, S3 Execute Tools, S4 Loop
// Guard, SFinal, SError) that drives one turn of conversation for an
// agent: appending the user message, calling the provider, dispatching
// any tool calls it requests, and feeding tool results back until the
// model produces a final answer or the tool-call budget is exhausted.
package execution

import (
	"context"
	"log/slog"
	"time"

	"github.com/agentkit-go/core/pkg/agenterrors"
	"github.com/agentkit-go/core/pkg/eventbus"
	"github.com/agentkit-go/core/pkg/message"
	"github.com/agentkit-go/core/pkg/observability"
	"github.com/agentkit-go/core/pkg/plugin"
	"github.com/agentkit-go/core/pkg/provider"
	"github.com/agentkit-go/core/pkg/session"
	"github.com/agentkit-go/core/pkg/tool"
)

// defaultMaxToolTurns is S4's hard upper bound on provider calls within a
// single turn.
const defaultMaxToolTurns = 8

// Config wires a Loop's collaborators. Provider is the only required
// field; everything else degrades to a sensible no-op default so a Loop
// can be built for a tool-less, plugin-less, unmetered agent.
type Config struct {
	Provider     provider.Provider
	ProviderName string // label used for metrics/tracing, not a registry lookup

	Tools    *tool.Registry
	Executor *tool.Executor // built from Tools if nil and Tools is set

	Pipeline *plugin.Pipeline
	Bus      *eventbus.Bus
	Recorder observability.Recorder
	Tracer   *observability.Tracer
	Logger   *slog.Logger

	MaxToolTurns    int
	ProviderOptions provider.Options

	AgentName string
}

// Loop runs the execution state machine for one agent. A single Loop is
// reused across every conversation the agent handles; the session passed
// to Run/RunStream carries the per-conversation message log (spec.md §5
// "Shared resources").
type Loop struct {
	provider     provider.Provider
	providerName string

	tools    *tool.Registry
	executor *tool.Executor

	pipeline *plugin.Pipeline
	bus      *eventbus.Bus
	recorder observability.Recorder
	tracer   *observability.Tracer
	logger   *slog.Logger

	maxToolTurns    int
	providerOptions provider.Options

	agentName string
}

// NewLoop constructs a Loop from cfg, applying defaults for anything left
// zero-valued.
func NewLoop(cfg Config) *Loop {
	pipeline := cfg.Pipeline
	if pipeline == nil {
		pipeline = plugin.NewPipeline(cfg.Logger, cfg.Recorder, cfg.Bus)
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = observability.NoopRecorder{}
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = observability.NewTracer("agentkit.execution", nil)
	}
	executor := cfg.Executor
	if executor == nil && cfg.Tools != nil {
		executor = tool.NewExecutor(cfg.Tools)
	}
	maxTurns := cfg.MaxToolTurns
	if maxTurns <= 0 {
		maxTurns = defaultMaxToolTurns
	}

	return &Loop{
		provider:        cfg.Provider,
		providerName:    cfg.ProviderName,
		tools:           cfg.Tools,
		executor:        executor,
		pipeline:        pipeline,
		bus:             cfg.Bus,
		recorder:        recorder,
		tracer:          tracer,
		logger:          cfg.Logger,
		maxToolTurns:    maxTurns,
		providerOptions: cfg.ProviderOptions,
		agentName:       cfg.AgentName,
	}
}

// Run executes one non-streaming turn: S0 through SFinal/SError, returning
// the model's final textual answer.
func (l *Loop) Run(ctx context.Context, sess *session.Session, userInput string) (string, error) {
	start := time.Now()

	l.pipeline.FireBeforeRun(ctx, userInput)
	l.publish(ctx, eventbus.ExecutionStart, sess, userInput)

	text, err := l.run(ctx, sess, userInput)
	if err != nil {
		l.recorder.RecordTurnError(l.agentName, errorKindOf(err))
		l.pipeline.FireOnError(ctx, err)
		l.publish(ctx, eventbus.ExecutionError, sess, err.Error())
		return "", err
	}

	l.recorder.RecordTurn(l.agentName, time.Since(start))
	l.pipeline.FireAfterRun(ctx, text)
	l.publish(ctx, eventbus.ExecutionComplete, sess, text)
	return text, nil
}

func (l *Loop) run(ctx context.Context, sess *session.Session, userInput string) (string, error) {
	sess.Append(message.NewUser(userInput))

	turns := 0
	for {
		if err := checkCancelled(ctx); err != nil {
			return "", err
		}

		messages := sess.Messages()
		l.pipeline.FireBeforeProviderCall(ctx, messages)

		resp, err := l.callProvider(ctx, messages)
		turns++
		if err != nil {
			return "", err
		}
		l.pipeline.FireAfterProviderCall(ctx, resp)

		if !resp.HasToolCalls() {
			sess.Append(resp)
			return resp.Text(), nil
		}

		sess.Append(resp)
		if err := l.executeToolCalls(ctx, sess, resp.ToolCalls); err != nil {
			return "", err
		}

		if turns >= l.maxToolTurns {
			final := "tool budget exhausted"
			sess.Append(message.NewAssistantText(final))
			return final, nil
		}
	}
}

// callProvider performs one S1 Call Provider step (non-streaming).
func (l *Loop) callProvider(ctx context.Context, messages []message.Message) (message.Message, error) {
	opts := l.buildOptions()

	spanCtx, span := l.tracer.StartProviderCall(ctx, l.providerName)
	defer span.End()

	start := time.Now()
	resp, err := l.provider.Chat(spanCtx, messages, opts)
	l.recorder.RecordProviderCall(l.providerName, time.Since(start))
	if err != nil {
		l.recorder.RecordProviderError(l.providerName, "chat_failed")
		return message.Message{}, agenterrors.Provider("provider chat call failed", err)
	}
	return resp, nil
}

// executeToolCalls runs S3 Execute Tools for a single assistant message's
// tool calls, in order. A tool error is recorded as a failed tool message
// and never aborts the turn; only cancellation does.
func (l *Loop) executeToolCalls(ctx context.Context, sess *session.Session, calls []message.ToolCall) error {
	for _, call := range calls {
		if err := checkCancelled(ctx); err != nil {
			return err
		}

		l.pipeline.FireBeforeToolCall(ctx, call)

		result := l.executeOne(ctx, call)
		if result.Err != nil {
			l.recorder.RecordToolError(call.Function.Name, errorKindOf(result.Err))
			l.pipeline.FireOnError(ctx, result.Err)
		}

		l.pipeline.FireAfterToolCall(ctx, call, result.Content)
		sess.Append(message.NewTool(call.ID, result.Content))
	}
	return nil
}

func (l *Loop) executeOne(ctx context.Context, call message.ToolCall) tool.Result {
	if l.executor == nil {
		err := agenterrors.ToolExecution("no tool executor configured").WithContext("toolName", call.Function.Name)
		return tool.Result{Content: err.Error(), Err: err}
	}

	spanCtx, span := l.tracer.StartToolExecution(ctx, call.Function.Name)
	defer span.End()

	start := time.Now()
	result := l.executor.ExecuteCall(spanCtx, call.Function.Name, call.Function.ArgumentsJSON)
	l.recorder.RecordToolCall(call.Function.Name, time.Since(start))
	return result
}

// buildOptions assembles this turn's provider.Options from the
// configured defaults plus the currently visible tool set (spec.md §4.3).
func (l *Loop) buildOptions() provider.Options {
	opts := l.providerOptions
	opts.Tools = nil
	if l.tools != nil {
		for _, t := range l.tools.GetTools() {
			opts.Tools = append(opts.Tools, tool.ToDefinition(t))
		}
	}
	if opts.ToolChoice == "" {
		opts.ToolChoice = provider.ToolChoiceAuto
	}
	return opts
}

func (l *Loop) publish(ctx context.Context, eventType eventbus.EventType, sess *session.Session, payload any) {
	if l.bus == nil {
		return
	}
	l.bus.Publish(ctx, eventbus.Event{Type: eventType, ConversationID: sess.ID(), Payload: payload})
}

// checkCancelled reports a CancellationError if ctx has already been
// canceled (spec.md §5 "On cancel... raises a cancelation error").
func checkCancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return agenterrors.Cancellation("turn canceled").WithContext("cause", err.Error())
	}
	return nil
}

func errorKindOf(err error) string {
	if kind, ok := agenterrors.KindOf(err); ok {
		return string(kind)
	}
	return "unknown"
}
