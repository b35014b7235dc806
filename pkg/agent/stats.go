package agent

import (
	"sync"
	"time"

	"github.com/agentkit-go/core/pkg/observability"
	"github.com/agentkit-go/core/pkg/session"
)

// Stats is the read-only snapshot returned by Agent.GetStats (spec.md §6
// "Stats snapshot").
type Stats struct {
	Name            string
	Version         string
	ConversationID  string
	Providers       []string
	CurrentProvider string
	Tools           []string
	Plugins         []string
	Modules         []string

	HistoryLength int
	HistoryStats  session.Stats

	UptimeMS int64

	ToolErrorCount    int
	PluginErrorCounts map[string]int
}

// GetStats assembles a point-in-time snapshot of the agent's composition
// and activity. Safe to call before the first turn; fields that depend on
// a live session report zero values until one exists.
func (a *Agent) GetStats() Stats {
	var historyLen int
	var historyStats session.Stats
	if sess, ok := a.sessions.Get(a.conversationID); ok {
		historyLen = sess.Len()
		historyStats = sess.Stats()
	}

	var pluginNames []string
	for _, p := range a.pipeline.List() {
		pluginNames = append(pluginNames, p.Name())
	}

	toolErrors, pluginErrors := a.tally.snapshot()

	return Stats{
		Name:              a.config.Name,
		Version:           Version,
		ConversationID:    a.conversationID,
		Providers:         a.providers.Names(),
		CurrentProvider:   a.providers.Current(),
		Tools:             a.tools.Names(),
		Plugins:           pluginNames,
		Modules:           a.modules.Names(),
		HistoryLength:     historyLen,
		HistoryStats:      historyStats,
		UptimeMS:          time.Since(a.createdAt).Milliseconds(),
		ToolErrorCount:    toolErrors,
		PluginErrorCounts: pluginErrors,
	}
}

// failureTally accumulates the tool-error and plugin-failure counts that
// GetStats surfaces. It exists because observability.Recorder implementations
// (e.g. the prometheus-backed Metrics) aren't readable back in-process;
// this keeps an agent-local shadow count regardless of which Recorder the
// caller configured.
type failureTally struct {
	mu           sync.Mutex
	toolErrors   int
	pluginErrors map[string]int
}

func newFailureTally() *failureTally {
	return &failureTally{pluginErrors: make(map[string]int)}
}

func (t *failureTally) recordToolError() {
	t.mu.Lock()
	t.toolErrors++
	t.mu.Unlock()
}

func (t *failureTally) recordPluginFailure(name string) {
	t.mu.Lock()
	t.pluginErrors[name]++
	t.mu.Unlock()
}

func (t *failureTally) snapshot() (int, map[string]int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]int, len(t.pluginErrors))
	for k, v := range t.pluginErrors {
		out[k] = v
	}
	return t.toolErrors, out
}

// statsRecorder decorates a configured Recorder, additionally tallying
// tool errors and plugin failures so GetStats can surface them without
// depending on any particular Recorder backend being queryable.
type statsRecorder struct {
	observability.Recorder
	tally *failureTally
}

func (s *statsRecorder) RecordToolError(toolName, errorKind string) {
	s.tally.recordToolError()
	s.Recorder.RecordToolError(toolName, errorKind)
}

func (s *statsRecorder) RecordPluginFailure(pluginName, hook string) {
	s.tally.recordPluginFailure(pluginName)
	s.Recorder.RecordPluginFailure(pluginName, hook)
}

var _ observability.Recorder = (*statsRecorder)(nil)
