// Package providertest provides a scriptable provider.Provider test double
// for execution-loop tests, standing in for a real vendor transport.
package providertest

import (
	"context"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/agentkit-go/core/pkg/message"
	"github.com/agentkit-go/core/pkg/provider"
)

// Mock is a provider.Provider whose Chat responses are scripted in order:
// each call to Chat pops the next response off Responses. StreamResponses
// plays the same role for ChatStream.
type Mock struct {
	Responses       []message.Message
	StreamResponses [][]provider.StreamChunk
	SupportsToolsFn func() bool
	ValidateFn      func() bool

	mu        sync.Mutex
	callCount int32
	calls     []CallRecord
}

// CallRecord captures one observed Chat/ChatStream invocation for
// assertions in tests.
type CallRecord struct {
	Messages []message.Message
	Options  provider.Options
}

// New constructs a Mock that returns responses in order on successive Chat
// calls.
func New(responses ...message.Message) *Mock {
	return &Mock{Responses: responses}
}

func (m *Mock) Chat(_ context.Context, messages []message.Message, opts provider.Options) (message.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := int(atomic.AddInt32(&m.callCount, 1)) - 1
	m.calls = append(m.calls, CallRecord{Messages: messages, Options: opts})

	if idx >= len(m.Responses) {
		return message.NewAssistantText(""), nil
	}
	return m.Responses[idx], nil
}

func (m *Mock) ChatStream(_ context.Context, messages []message.Message, opts provider.Options) iter.Seq2[provider.StreamChunk, error] {
	m.mu.Lock()
	idx := int(atomic.AddInt32(&m.callCount, 1)) - 1
	m.calls = append(m.calls, CallRecord{Messages: messages, Options: opts})
	m.mu.Unlock()

	return func(yield func(provider.StreamChunk, error) bool) {
		if idx >= len(m.StreamResponses) {
			return
		}
		for _, chunk := range m.StreamResponses[idx] {
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

func (m *Mock) SupportsTools() bool {
	if m.SupportsToolsFn != nil {
		return m.SupportsToolsFn()
	}
	return true
}

func (m *Mock) ValidateConfig() bool {
	if m.ValidateFn != nil {
		return m.ValidateFn()
	}
	return true
}

// CallCount returns how many times Chat or ChatStream has been invoked.
func (m *Mock) CallCount() int {
	return int(atomic.LoadInt32(&m.callCount))
}

// Calls returns a snapshot of every observed invocation, in order.
func (m *Mock) Calls() []CallRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CallRecord, len(m.calls))
	copy(out, m.calls)
	return out
}

var _ provider.Provider = (*Mock)(nil)
