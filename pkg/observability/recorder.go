// Package observability wires the runtime's metrics and tracing seams.
// Grounded in the teacher's pkg/observability: a narrow Recorder interface
// for dependency injection, a no-op default, and a concrete
// prometheus/client_golang-backed implementation, plus an otel tracing
// seam around provider and tool calls.
package observability

import "time"

// Recorder is the metrics surface the execution loop and plugin pipeline
// record against. Scoped to this runtime's own concerns
// (turns, provider calls, tool calls, plugin failures, module execution)
// rather than the teacher's broader HTTP/RAG/memory surface, which has no
// equivalent here.
type Recorder interface {
	RecordTurn(agentName string, duration time.Duration)
	RecordTurnError(agentName, errorKind string)

	RecordProviderCall(providerName string, duration time.Duration)
	RecordProviderError(providerName, errorKind string)

	RecordToolCall(toolName string, duration time.Duration)
	RecordToolError(toolName, errorKind string)

	RecordPluginFailure(pluginName, hook string)

	RecordModuleExecution(moduleName string, duration time.Duration, success bool)
}

// NoopRecorder discards every observation. It is the Agent Facade's
// default when no Recorder is configured.
type NoopRecorder struct{}

func (NoopRecorder) RecordTurn(string, time.Duration)            {}
func (NoopRecorder) RecordTurnError(string, string)              {}
func (NoopRecorder) RecordProviderCall(string, time.Duration)    {}
func (NoopRecorder) RecordProviderError(string, string)          {}
func (NoopRecorder) RecordToolCall(string, time.Duration)        {}
func (NoopRecorder) RecordToolError(string, string)              {}
func (NoopRecorder) RecordPluginFailure(string, string)          {}
func (NoopRecorder) RecordModuleExecution(string, time.Duration, bool) {}

var _ Recorder = NoopRecorder{}
