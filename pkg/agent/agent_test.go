package agent

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/agentkit-go/core/pkg/message"
	"github.com/agentkit-go/core/pkg/plugin"
	"github.com/agentkit-go/core/pkg/provider/providertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(mock *providertest.Mock) Config {
	return Config{
		Name:         "test-agent",
		AIProviders:  []ProviderBinding{{Name: "mock", Provider: mock}},
		DefaultModel: ModelSpec{Provider: "mock", Model: "mock-model"},
	}
}

func TestNew_ConfigValidationFailures(t *testing.T) {
	mock := providertest.New(message.NewAssistantText("ok"))

	cases := map[string]Config{
		"missing name": {
			AIProviders:  []ProviderBinding{{Name: "mock", Provider: mock}},
			DefaultModel: ModelSpec{Provider: "mock"},
		},
		"empty providers": {
			Name:         "a",
			DefaultModel: ModelSpec{Provider: "mock"},
		},
		"missing defaultModel": {
			Name:        "a",
			AIProviders: []ProviderBinding{{Name: "mock", Provider: mock}},
		},
		"duplicate provider names": {
			Name: "a",
			AIProviders: []ProviderBinding{
				{Name: "mock", Provider: mock},
				{Name: "mock", Provider: mock},
			},
			DefaultModel: ModelSpec{Provider: "mock"},
		},
		"defaultModel.provider not registered": {
			Name:         "a",
			AIProviders:  []ProviderBinding{{Name: "mock", Provider: mock}},
			DefaultModel: ModelSpec{Provider: "other"},
		},
	}

	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(cfg)
			require.Error(t, err)
		})
	}
}

func TestNew_ValidConfigSucceeds(t *testing.T) {
	mock := providertest.New(message.NewAssistantText("ok"))
	a, err := New(validConfig(mock))
	require.NoError(t, err)
	assert.NotEmpty(t, a.GetStats().ConversationID)
}

func TestAgent_RunEndToEnd(t *testing.T) {
	mock := providertest.New(message.NewAssistantText("hello there"))
	a, err := New(validConfig(mock))
	require.NoError(t, err)

	out, err := a.Run(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello there", out)

	history := a.GetHistory()
	require.Len(t, history, 2)
	assert.Equal(t, message.RoleUser, history[0].Role)
	assert.Equal(t, message.RoleAssistant, history[1].Role)

	stats := a.GetStats()
	assert.Equal(t, "test-agent", stats.Name)
	assert.Equal(t, "mock", stats.CurrentProvider)
	assert.Equal(t, 2, stats.HistoryLength)
}

func TestAgent_RunStreamEndToEnd(t *testing.T) {
	mock := providertest.New(message.NewAssistantText("streamed"))
	a, err := New(validConfig(mock))
	require.NoError(t, err)

	var chunks []string
	for chunk, err := range a.RunStream(context.Background(), "hi") {
		require.NoError(t, err)
		chunks = append(chunks, chunk)
	}
	assert.Empty(t, chunks) // providertest.Mock has no StreamResponses scripted; turn still completes
}

func TestAgent_SystemMessageSynthesizedOnFirstTurnOnly(t *testing.T) {
	mock := providertest.New(message.NewAssistantText("a1"), message.NewAssistantText("a2"))
	cfg := validConfig(mock)
	cfg.DefaultModel.SystemMessage = "be nice"
	a, err := New(cfg)
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "turn one")
	require.NoError(t, err)
	_, err = a.Run(context.Background(), "turn two")
	require.NoError(t, err)

	history := a.GetHistory()
	require.Len(t, history, 5) // system, user, assistant, user, assistant
	assert.Equal(t, message.RoleSystem, history[0].Role)
	assert.Equal(t, "be nice", history[0].Text())
}

func TestAgent_LazyInitRunsModuleInitializeExactlyOnce(t *testing.T) {
	mock := providertest.New(message.NewAssistantText("ok"))
	cfg := validConfig(mock)

	m := &countingModule{name: "m1"}
	cfg.Modules = append(cfg.Modules, m)

	a, err := New(cfg)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = a.Run(context.Background(), "hi")
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&m.initCount))
}

func TestAgent_DestroyIsIdempotent(t *testing.T) {
	mock := providertest.New(message.NewAssistantText("ok"))
	cfg := validConfig(mock)
	m := &countingModule{name: "m1"}
	cfg.Modules = append(cfg.Modules, m)

	a, err := New(cfg)
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "hi")
	require.NoError(t, err)

	err1 := a.Destroy(context.Background())
	err2 := a.Destroy(context.Background())

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&m.disposeCount))
}

func TestAgent_AddRemovePluginBetweenTurnsDoesNotAffectHistory(t *testing.T) {
	mock := providertest.New(message.NewAssistantText("a1"), message.NewAssistantText("a2"))
	a, err := New(validConfig(mock))
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "turn one")
	require.NoError(t, err)

	beforeHistory := a.GetHistory()

	a.AddPlugin(noopPlugin{name: "p1"})
	_, ok := a.GetPlugin("p1")
	assert.True(t, ok)
	a.RemovePlugin("p1")
	_, ok = a.GetPlugin("p1")
	assert.False(t, ok)

	afterAddRemoveHistory := a.GetHistory()
	assert.Equal(t, beforeHistory, afterAddRemoveHistory)

	_, err = a.Run(context.Background(), "turn two")
	require.NoError(t, err)
	assert.Len(t, a.GetHistory(), 4)
}

func TestAgent_SetModelRejectsUnregisteredProvider(t *testing.T) {
	mock := providertest.New(message.NewAssistantText("ok"))
	a, err := New(validConfig(mock))
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "hi")
	require.NoError(t, err)

	err = a.SetModel(ModelSpec{Provider: "ghost"})
	assert.Error(t, err)

	assert.NoError(t, a.SetModel(ModelSpec{Provider: "mock", Model: "mock-model-2"}))
	assert.Equal(t, "mock-model-2", a.GetModel().Model)
}

// --- fixtures ---

type countingModule struct {
	name         string
	initCount    int32
	disposeCount int32
}

func (m *countingModule) Name() string           { return m.name }
func (m *countingModule) Dependencies() []string  { return nil }
func (m *countingModule) Initialize(context.Context) error {
	atomic.AddInt32(&m.initCount, 1)
	return nil
}
func (m *countingModule) Dispose(context.Context) error {
	atomic.AddInt32(&m.disposeCount, 1)
	return nil
}

type noopPlugin struct{ name string }

func (p noopPlugin) Name() string            { return p.name }
func (p noopPlugin) Version() string         { return "1.0.0" }
func (p noopPlugin) Enabled() bool           { return true }
func (p noopPlugin) Category() plugin.Category { return plugin.CategoryCustom }
func (p noopPlugin) Priority() int           { return plugin.PriorityNormal }
