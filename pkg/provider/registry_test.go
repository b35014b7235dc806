package provider

import (
	"testing"

	"github.com/agentkit-go/core/pkg/provider/providertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndSetCurrent(t *testing.T) {
	r := NewRegistry()
	mock := providertest.New()

	require.NoError(t, r.Register("openai", mock))
	require.NoError(t, r.SetCurrent("openai"))

	current, ok := r.CurrentProvider()
	require.True(t, ok)
	assert.Same(t, Provider(mock), current)
}

func TestRegistry_RejectsDuplicateName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("openai", providertest.New()))

	err := r.Register("openai", providertest.New())
	assert.Error(t, err)
}

func TestRegistry_SetCurrentRejectsUnregistered(t *testing.T) {
	r := NewRegistry()
	err := r.SetCurrent("missing")
	assert.Error(t, err)
}

func TestRegistry_CurrentProviderEmptyByDefault(t *testing.T) {
	r := NewRegistry()
	_, ok := r.CurrentProvider()
	assert.False(t, ok)
}
