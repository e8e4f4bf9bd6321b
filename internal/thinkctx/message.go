package thinkctx

import "time"

// Message represents a single turn in a conversation
type Message struct {
	ID           string    `json:"id"`            // UUID v4, assigned once at creation
	Role         Role      `json:"role"`          // "user", "assistant", "tool" or "system"
	Content      string    `json:"content"`       // Message content, may embed a <think> block
	HasReasoning bool      `json:"has_reasoning"` // True while Content still holds an unstripped reasoning block
	CreatedAt    time.Time `json:"created_at"`
}

// Record is the projection of a Message sent to a model API
type Record struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
