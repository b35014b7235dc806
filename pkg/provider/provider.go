// Package provider defines the backend-agnostic LLM provider capability:
// a uniform Chat/ChatStream contract any vendor transport can implement,
// plus the registry that tracks which providers an agent knows about and
// which one is currently selected (spec.md §4.3, §9).
package provider

import (
	"context"
	"iter"

	"github.com/agentkit-go/core/pkg/message"
	"github.com/agentkit-go/core/pkg/tool"
)

// ToolChoice selects how a provider should decide whether to call a tool.
type ToolChoice string

const (
	ToolChoiceAuto ToolChoice = "auto"
	ToolChoiceNone ToolChoice = "none"
)

// Options carries the per-call knobs the execution loop passes to a
// provider, per spec.md §4.3 "options ENUMERATED".
type Options struct {
	Model       string
	Temperature *float64
	MaxTokens   *int
	TopP        *float64
	Tools       []tool.Definition
	ToolChoice  ToolChoice // "auto", "none", or a specific tool name
	Stream      bool
}

// Provider is the uniform capability the execution loop drives. Vendor
// transports implement this and own their own SDK/HTTP details; the core
// treats every Provider as a black box producing Messages (spec.md §4.3).
type Provider interface {
	// Chat performs one non-streaming call, returning the assistant
	// message it produced.
	Chat(ctx context.Context, messages []message.Message, opts Options) (message.Message, error)

	// ChatStream performs one streaming call. The sequence yields partial
	// StreamChunks; the loop reassembles content and tool-call fragments
	// by ID before classifying the turn (spec.md §4.3).
	ChatStream(ctx context.Context, messages []message.Message, opts Options) iter.Seq2[StreamChunk, error]

	// SupportsTools reports whether this provider can be given tool
	// definitions at all.
	SupportsTools() bool

	// ValidateConfig reports whether the provider's own configuration
	// (credentials, model name, etc.) is usable.
	ValidateConfig() bool
}

// Disposer is an optional interface a Provider can implement to release
// transport resources (connections, clients) on agent destroy.
type Disposer interface {
	Dispose() error
}

// ChunkKind discriminates a StreamChunk.
type ChunkKind string

const (
	ChunkText     ChunkKind = "text"
	ChunkToolCall ChunkKind = "tool_call"
	ChunkDone     ChunkKind = "done"
)

// StreamChunk is one unit of a streaming response. Content and ToolCall
// fragments are identified by ID so the loop can reassemble a complete
// ToolCall out of multiple chunks (spec.md §4.3).
type StreamChunk struct {
	Kind ChunkKind

	Text string

	ToolCallID        string
	ToolCallName      string
	ToolCallArgsDelta string // a fragment of the tool call's arguments JSON

	FinishReason string
}
