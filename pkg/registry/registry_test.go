package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseRegistry_RegisterAndGet(t *testing.T) {
	r := New[int]()

	require.NoError(t, r.Register("a", 1))
	require.NoError(t, r.Register("b", 2))

	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestBaseRegistry_RegisterRejectsEmptyNameAndDuplicates(t *testing.T) {
	r := New[int]()

	assert.Error(t, r.Register("", 1))
	require.NoError(t, r.Register("a", 1))
	assert.Error(t, r.Register("a", 2))
}

func TestBaseRegistry_ListPreservesRegistrationOrder(t *testing.T) {
	r := New[string]()
	require.NoError(t, r.Register("c", "C"))
	require.NoError(t, r.Register("a", "A"))
	require.NoError(t, r.Register("b", "B"))

	assert.Equal(t, []string{"c", "a", "b"}, r.Names())
	assert.Equal(t, []string{"C", "A", "B"}, r.List())
}

func TestBaseRegistry_RemoveAndCount(t *testing.T) {
	r := New[int]()
	require.NoError(t, r.Register("a", 1))
	require.NoError(t, r.Register("b", 2))

	assert.Equal(t, 2, r.Count())
	require.NoError(t, r.Remove("a"))
	assert.Equal(t, 1, r.Count())
	assert.Error(t, r.Remove("a"))
}

func TestBaseRegistry_Clear(t *testing.T) {
	r := New[int]()
	require.NoError(t, r.Register("a", 1))
	r.Clear()
	assert.Equal(t, 0, r.Count())
	assert.Empty(t, r.Names())
}
