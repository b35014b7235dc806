package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder_NeverPanics(t *testing.T) {
	var r Recorder = NoopRecorder{}
	assert.NotPanics(t, func() {
		r.RecordTurn("agent", time.Millisecond)
		r.RecordTurnError("agent", "provider")
		r.RecordProviderCall("openai", time.Millisecond)
		r.RecordProviderError("openai", "timeout")
		r.RecordToolCall("add", time.Millisecond)
		r.RecordToolError("add", "validation")
		r.RecordPluginFailure("logger", "afterRun")
		r.RecordModuleExecution("billing", time.Millisecond, true)
	})
}

func TestMetrics_RecordsObservableSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordTurn("agent-1", 10*time.Millisecond)
	m.RecordToolError("add", "validation")

	families, err := reg.Gather()
	require.NoError(t, err)

	var sawTurn, sawToolError bool
	for _, f := range families {
		switch f.GetName() {
		case "agentkit_agent_turn_duration_seconds":
			sawTurn = len(f.GetMetric()) == 1
		case "agentkit_tool_errors_total":
			sawToolError = sumCounters(f) == 1
		}
	}
	assert.True(t, sawTurn)
	assert.True(t, sawToolError)
}

func sumCounters(f *dto.MetricFamily) float64 {
	var total float64
	for _, m := range f.GetMetric() {
		total += m.GetCounter().GetValue()
	}
	return total
}

func TestTracer_DefaultsToNoop(t *testing.T) {
	tracer := NewTracer("agentkit", nil)
	ctx, span := tracer.StartProviderCall(context.Background(), "openai")
	defer span.End()
	assert.NotNil(t, ctx)
	assert.False(t, span.IsRecording())
}
