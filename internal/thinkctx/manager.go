// Package thinkctx manages the conversation history of a tool-calling
// LLM client and prunes model reasoning from it.
//
// Reasoning blocks emitted by the assistant stay in the history for the
// whole tool-call loop, so the model does not have to re-derive them
// between tool results. When the next user message arrives, every
// recorded assistant message loses its reasoning block before the user
// message is appended.
//
// Example usage:
//
//	m := thinkctx.New()
//	m.Append(thinkctx.RoleUser, "Find a flight", false)
//	m.Append(thinkctx.RoleAssistant, "<think>list flights</think> [call A]", true)
//	m.Append(thinkctx.RoleTool, "Flight A: 500", false)
//	m.Append(thinkctx.RoleUser, "Also find a hotel", false) // prunes <think> from the assistant turn
//	payload := m.Export()
package thinkctx

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager holds the history of one conversation.
//
// A Manager is owned by a single conversation session. Its methods are
// safe for concurrent use: every Append, including the pruning pass it
// triggers, is applied under one lock, so readers observe user-turn
// pruning and the following append as a single state change.
type Manager struct {
	mu         sync.Mutex
	history    []Message
	loopActive bool

	newID  func() string
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithIDGenerator sets the source of message IDs. IDs must be unique
// for the lifetime of the conversation.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// WithClock sets the function used to timestamp new messages.
func WithClock(fn func() time.Time) Option {
	return func(m *Manager) {
		if fn != nil {
			m.now = fn
		}
	}
}

// WithLogger sets the logger used for pruning diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates an empty Manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		newID:  uuid.NewString,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FromHistory creates a Manager that continues a previously recorded
// conversation. The history is copied as-is; no pruning is applied.
func FromHistory(history []Message, loopActive bool, opts ...Option) *Manager {
	m := New(opts...)
	m.history = append([]Message(nil), history...)
	m.loopActive = loopActive
	return m
}

// Append records a new turn and returns it.
//
// A user message first prunes reasoning from every earlier assistant
// message and ends the tool loop; the user message itself is appended
// after pruning and is never touched. A tool message marks the tool
// loop as active. Any other role, including unknown ones, is appended
// without side effects.
func (m *Manager) Append(role Role, content string, hasReasoning bool) Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch role {
	case RoleUser:
		m.prune()
		m.loopActive = false
	case RoleTool:
		m.loopActive = true
	}

	msg := Message{
		ID:           m.newID(),
		Role:         role,
		Content:      content,
		HasReasoning: hasReasoning,
		CreatedAt:    m.now(),
	}
	m.history = append(m.history, msg)

	m.logger.Debug("message appended",
		"id", msg.ID,
		"role", string(role),
		"has_reasoning", hasReasoning,
		"loop_active", m.loopActive,
		"history_len", len(m.history),
	)
	return msg
}

// Prune strips reasoning blocks from every assistant message that still
// carries one and returns how many messages were rewritten. A second
// call in a row rewrites nothing.
func (m *Manager) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prune()
}

func (m *Manager) prune() int {
	pruned := 0
	for i := range m.history {
		msg := &m.history[i]
		if msg.Role != RoleAssistant || !msg.HasReasoning {
			continue
		}
		msg.Content = StripReasoning(msg.Content)
		msg.HasReasoning = false
		pruned++
	}
	if pruned > 0 {
		m.logger.Debug("reasoning pruned", "messages", pruned)
	}
	return pruned
}

// Export returns the history as role/content records in turn order,
// ready to be sent as the conversation payload of the next request.
func (m *Manager) Export() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]Record, len(m.history))
	for i, msg := range m.history {
		records[i] = Record{Role: msg.Role, Content: msg.Content}
	}
	return records
}

// History returns a copy of every recorded message.
func (m *Manager) History() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.history...)
}

// LoopActive reports whether a tool-call loop is in progress, i.e. a
// tool message was appended since the last user message.
func (m *Manager) LoopActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loopActive
}

// Len returns the number of recorded messages.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history)
}
