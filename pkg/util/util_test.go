package util

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID_HasPrefixAndIsUnique(t *testing.T) {
	a := NewID("tc")
	b := NewID("tc")

	assert.True(t, strings.HasPrefix(a, "tc_"))
	assert.NotEqual(t, a, b)
}

func TestNewConversationID_IsUniqueAcrossCalls(t *testing.T) {
	a := NewConversationID()
	b := NewConversationID()

	assert.True(t, strings.HasPrefix(a, "conv_"))
	assert.NotEqual(t, a, b)
}

func TestDisposer_RunsOnlyOnce(t *testing.T) {
	var calls int32
	d := NewDisposer(func() { atomic.AddInt32(&calls, 1) })

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispose()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls)
	assert.True(t, d.Disposed())
}
