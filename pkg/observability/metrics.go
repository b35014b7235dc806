package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a prometheus-backed Recorder, registered against a caller-
// supplied prometheus.Registerer so embedding applications control where
// these series are exposed (no global registry side effects).
type Metrics struct {
	turnDuration   *prometheus.HistogramVec
	turnErrors     *prometheus.CounterVec
	providerCalls  *prometheus.HistogramVec
	providerErrors *prometheus.CounterVec
	toolCalls      *prometheus.HistogramVec
	toolErrors     *prometheus.CounterVec
	pluginFailures *prometheus.CounterVec
	moduleExecs    *prometheus.HistogramVec
}

// NewMetrics constructs and registers the runtime's metric series against
// reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turnDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agentkit", Subsystem: "agent", Name: "turn_duration_seconds",
			Help: "Duration of one run()/runStream() turn.",
		}, []string{"agent"}),
		turnErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentkit", Subsystem: "agent", Name: "turn_errors_total",
			Help: "Count of turns that ended in SError.",
		}, []string{"agent", "error_kind"}),
		providerCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agentkit", Subsystem: "provider", Name: "call_duration_seconds",
			Help: "Duration of one Provider.Chat/ChatStream call.",
		}, []string{"provider"}),
		providerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentkit", Subsystem: "provider", Name: "errors_total",
			Help: "Count of provider call failures.",
		}, []string{"provider", "error_kind"}),
		toolCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agentkit", Subsystem: "tool", Name: "call_duration_seconds",
			Help: "Duration of one tool execution.",
		}, []string{"tool"}),
		toolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentkit", Subsystem: "tool", Name: "errors_total",
			Help: "Count of tool execution failures.",
		}, []string{"tool", "error_kind"}),
		pluginFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentkit", Subsystem: "plugin", Name: "hook_failures_total",
			Help: "Count of plugin hook invocations that returned an error.",
		}, []string{"plugin", "hook"}),
		moduleExecs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agentkit", Subsystem: "module", Name: "execution_duration_seconds",
			Help: "Duration of one module execution, labeled by outcome.",
		}, []string{"module", "outcome"}),
	}

	reg.MustRegister(
		m.turnDuration, m.turnErrors,
		m.providerCalls, m.providerErrors,
		m.toolCalls, m.toolErrors,
		m.pluginFailures, m.moduleExecs,
	)
	return m
}

func (m *Metrics) RecordTurn(agentName string, d time.Duration) {
	m.turnDuration.WithLabelValues(agentName).Observe(d.Seconds())
}

func (m *Metrics) RecordTurnError(agentName, errorKind string) {
	m.turnErrors.WithLabelValues(agentName, errorKind).Inc()
}

func (m *Metrics) RecordProviderCall(providerName string, d time.Duration) {
	m.providerCalls.WithLabelValues(providerName).Observe(d.Seconds())
}

func (m *Metrics) RecordProviderError(providerName, errorKind string) {
	m.providerErrors.WithLabelValues(providerName, errorKind).Inc()
}

func (m *Metrics) RecordToolCall(toolName string, d time.Duration) {
	m.toolCalls.WithLabelValues(toolName).Observe(d.Seconds())
}

func (m *Metrics) RecordToolError(toolName, errorKind string) {
	m.toolErrors.WithLabelValues(toolName, errorKind).Inc()
}

func (m *Metrics) RecordPluginFailure(pluginName, hook string) {
	m.pluginFailures.WithLabelValues(pluginName, hook).Inc()
}

func (m *Metrics) RecordModuleExecution(moduleName string, d time.Duration, success bool) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	m.moduleExecs.WithLabelValues(moduleName, outcome).Observe(d.Seconds())
}

var _ Recorder = (*Metrics)(nil)
