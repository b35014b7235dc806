package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/agentkit-go/core/pkg/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type basePlugin struct {
	name     string
	priority int
	enabled  bool
}

func (p basePlugin) Name() string       { return p.name }
func (p basePlugin) Version() string    { return "1.0.0" }
func (p basePlugin) Enabled() bool      { return p.enabled }
func (p basePlugin) Category() Category { return CategoryLogging }
func (p basePlugin) Priority() int      { return p.priority }

type recordingPlugin struct {
	basePlugin
	calls *[]string
}

func (p recordingPlugin) BeforeRun(_ context.Context, _ string) error {
	*p.calls = append(*p.calls, p.name)
	return nil
}

type failingHookPlugin struct {
	basePlugin
}

func (failingHookPlugin) BeforeRun(_ context.Context, _ string) error {
	return errors.New("boom")
}

func TestPipeline_FiresInPriorityThenNameOrder(t *testing.T) {
	var calls []string
	pipe := NewPipeline(nil, nil, nil)

	pipe.Register(recordingPlugin{basePlugin{"b", PriorityNormal, true}, &calls})
	pipe.Register(recordingPlugin{basePlugin{"a", PriorityNormal, true}, &calls})
	pipe.Register(recordingPlugin{basePlugin{"critical", PriorityCritical, true}, &calls})

	pipe.FireBeforeRun(context.Background(), "hi")

	assert.Equal(t, []string{"critical", "a", "b"}, calls)
}

func TestPipeline_DisabledPluginNeverFires(t *testing.T) {
	var calls []string
	pipe := NewPipeline(nil, nil, nil)
	pipe.Register(recordingPlugin{basePlugin{"off", PriorityNormal, false}, &calls})

	pipe.FireBeforeRun(context.Background(), "hi")
	assert.Empty(t, calls)
}

func TestPipeline_FailingHookDoesNotStopOthers(t *testing.T) {
	var calls []string
	pipe := NewPipeline(nil, nil, nil)
	pipe.Register(failingHookPlugin{basePlugin{"fails", PriorityCritical, true}})
	pipe.Register(recordingPlugin{basePlugin{"survivor", PriorityNormal, true}, &calls})

	assert.NotPanics(t, func() {
		pipe.FireBeforeRun(context.Background(), "hi")
	})
	assert.Equal(t, []string{"survivor"}, calls)
}

func TestPipeline_RegisterReplacesSameName(t *testing.T) {
	pipe := NewPipeline(nil, nil, nil)
	pipe.Register(basePlugin{"p", PriorityLow, true})
	pipe.Register(basePlugin{"p", PriorityCritical, true})

	require.Len(t, pipe.List(), 1)
	assert.Equal(t, PriorityCritical, pipe.List()[0].Priority())
}

func TestPipeline_RemoveUnregisters(t *testing.T) {
	pipe := NewPipeline(nil, nil, nil)
	pipe.Register(basePlugin{"p", PriorityLow, true})
	pipe.Remove("p")

	_, ok := pipe.Get("p")
	assert.False(t, ok)
}

func TestPipeline_UnimplementedHooksAreSkippedSilently(t *testing.T) {
	pipe := NewPipeline(nil, nil, nil)
	pipe.Register(basePlugin{"bare", PriorityNormal, true})

	assert.NotPanics(t, func() {
		pipe.FireAfterRun(context.Background(), "done")
		pipe.FireBeforeProviderCall(context.Background(), []message.Message{})
		pipe.FireOnError(context.Background(), errors.New("x"))
	})
}
