package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/longkey1/thinkctx/internal/thinkctx"
)

// Session is a persisted snapshot of one conversation
type Session struct {
	ID         string             `json:"id"`          // UUID v4 (e.g., "550e8400-e29b-41d4-a716-446655440000")
	Name       string             `json:"name"`        // Optional session name (empty by default)
	Script     string             `json:"script"`      // Script the session was created from (reference info, can be empty)
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	LoopActive bool               `json:"loop_active"` // Tool loop state at the time of the snapshot
	Messages   []thinkctx.Message `json:"messages"`
}

// NewSession creates a new empty session
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []thinkctx.Message{},
	}
}

// Manager rebuilds a context manager holding the session history
func (s *Session) Manager(opts ...thinkctx.Option) *thinkctx.Manager {
	return thinkctx.FromHistory(s.Messages, s.LoopActive, opts...)
}

// Capture copies the current state of m into the session
func (s *Session) Capture(m *thinkctx.Manager) {
	s.Messages = m.History()
	s.LoopActive = m.LoopActive()
	s.UpdatedAt = time.Now()
}

// Export returns the session history as role/content records
func (s *Session) Export() []thinkctx.Record {
	records := make([]thinkctx.Record, len(s.Messages))
	for i, msg := range s.Messages {
		records[i] = thinkctx.Record{Role: msg.Role, Content: msg.Content}
	}
	return records
}

// GetShortID returns the shortened session ID (first 8 characters)
func (s *Session) GetShortID() string {
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}

// GetDisplayName returns the display name for the session
// If name is set, returns the name. Otherwise, returns the short ID.
func (s *Session) GetDisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.GetShortID()
}

// MessageCount returns the number of messages in the session
func (s *Session) MessageCount() int {
	return len(s.Messages)
}

// ReasoningCount returns the number of messages still carrying reasoning
func (s *Session) ReasoningCount() int {
	n := 0
	for _, msg := range s.Messages {
		if msg.HasReasoning {
			n++
		}
	}
	return n
}
