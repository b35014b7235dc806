// Package message defines the conversation data model: the tagged Message
// variant and its ToolCall records, shared by every other package in the
// runtime (spec.md §3).
package message

import "time"

// Role discriminates the Message variant.
type Role string

const (
	RoleUser      Role = "user"
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is the runtime's single wire type for conversation entries. Which
// fields are meaningful depends on Role:
//
//   - user/system: Content is set, ToolCalls/ToolCallID are empty.
//   - assistant: Content is nil only if len(ToolCalls) >= 1 (spec.md §4.2
//     tie-break); ToolCallID is empty.
//   - tool: ToolCallID references a ToolCall emitted by the immediately
//     preceding assistant message; Content carries the (possibly
//     JSON-serialized) tool result or an error string.
type Message struct {
	Role       Role
	Content    *string
	ToolCalls  []ToolCall
	ToolCallID string
	Timestamp  time.Time
	Metadata   map[string]any
}

// ToolCall is an LLM's request to invoke a named tool, carried on an
// assistant Message.
type ToolCall struct {
	ID       string
	Kind     string // always "function" per spec.md §3
	Function ToolCallFunction
}

// ToolCallFunction names the tool and carries its opaque, provider-produced
// argument JSON. ArgumentsJSON is parsed defensively by the tool executor,
// never evaluated (spec.md §9).
type ToolCallFunction struct {
	Name          string
	ArgumentsJSON string
}

// NewUser constructs a user message with the given text content.
func NewUser(content string) Message {
	return Message{Role: RoleUser, Content: &content, Timestamp: time.Now()}
}

// NewSystem constructs a system message with the given text content.
func NewSystem(content string) Message {
	return Message{Role: RoleSystem, Content: &content, Timestamp: time.Now()}
}

// NewAssistantText constructs a final assistant message with no tool calls.
func NewAssistantText(content string) Message {
	return Message{Role: RoleAssistant, Content: &content, Timestamp: time.Now()}
}

// NewAssistantToolCalls constructs an assistant message that requests tool
// calls. content may be nil, which is only legal when len(calls) >= 1.
func NewAssistantToolCalls(content *string, calls []ToolCall) Message {
	return Message{Role: RoleAssistant, Content: content, ToolCalls: calls, Timestamp: time.Now()}
}

// NewTool constructs a tool-result message answering the tool call with the
// given ID.
func NewTool(toolCallID, content string) Message {
	return Message{Role: RoleTool, Content: &content, ToolCallID: toolCallID, Timestamp: time.Now()}
}

// Text returns the message's content, or "" if Content is nil.
func (m Message) Text() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

// HasToolCalls reports whether the message carries pending tool calls.
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}
