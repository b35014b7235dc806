// Package session implements the conversation history manager: an
// append-only, per-conversation message log that the execution loop reads
// and writes on every turn (spec.md §4 "Conversation History Manager").
//
// History trimming by token budget or message count is left to callers
// (spec.md §9, Open Question b); Session optionally enforces a maximum
// message count of its own as a convenience bound, not a mandated policy.
package session

import (
	"sync"

	"github.com/agentkit-go/core/pkg/message"
)

// Stats summarizes a session's message log by role, matching the
// historyStats shape in the Agent Facade's stats snapshot (spec.md §4.1).
type Stats struct {
	UserMessages      int
	AssistantMessages int
	SystemMessages    int
	ToolMessages      int
}

// Session is one conversation's append-only message log.
type Session struct {
	id      string
	maxSize int // 0 means unbounded

	mu       sync.RWMutex
	messages []message.Message
}

// NewSession constructs an empty session. maxSize <= 0 means unbounded;
// otherwise the oldest messages are dropped once the log exceeds maxSize.
func NewSession(id string, maxSize int) *Session {
	return &Session{id: id, maxSize: maxSize}
}

// ID returns the conversation identifier this session belongs to.
func (s *Session) ID() string { return s.id }

// Append adds a message to the end of the log, causally ordered by the
// caller (spec.md §4.2 "Ordering guarantees").
func (s *Session) Append(m message.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, m)
	if s.maxSize > 0 && len(s.messages) > s.maxSize {
		overflow := len(s.messages) - s.maxSize
		s.messages = s.messages[overflow:]
	}
}

// Messages returns a snapshot copy of the log, in append order.
func (s *Session) Messages() []message.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]message.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Clear empties the log.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// Len returns the number of messages currently in the log.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Stats tallies the log by message role.
func (s *Session) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	for _, m := range s.messages {
		switch m.Role {
		case message.RoleUser:
			st.UserMessages++
		case message.RoleAssistant:
			st.AssistantMessages++
		case message.RoleSystem:
			st.SystemMessages++
		case message.RoleTool:
			st.ToolMessages++
		}
	}
	return st
}

// Manager multiplexes sessions by conversation ID (spec.md §4 "per-
// conversation sessions"). The provider registry, tool registry, event
// bus, and history manager are per-agent instances, never singletons
// (spec.md §7 "Shared resources"); an Agent owns exactly one Manager.
type Manager struct {
	maxSize int

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager constructs a Manager whose sessions are bounded to maxSize
// messages each (0 for unbounded).
func NewManager(maxSize int) *Manager {
	return &Manager{maxSize: maxSize, sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session for conversationID, creating it (empty)
// on first use.
func (m *Manager) GetOrCreate(conversationID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[conversationID]
	if !ok {
		s = NewSession(conversationID, m.maxSize)
		m.sessions[conversationID] = s
	}
	return s
}

// Get returns the session for conversationID without creating one.
func (m *Manager) Get(conversationID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[conversationID]
	return s, ok
}

// Clear empties the session for conversationID, if it exists.
func (m *Manager) Clear(conversationID string) {
	m.mu.Lock()
	s, ok := m.sessions[conversationID]
	m.mu.Unlock()
	if ok {
		s.Clear()
	}
}

// Delete removes the session for conversationID entirely.
func (m *Manager) Delete(conversationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, conversationID)
}
