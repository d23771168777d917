package model

import (
	"time"
)

// Record is one opaque document returned by the collaborator API.
type Record map[string]any

// ResultSet is an ordered page of records, possibly narrowed by the
// client-side filter pass.
type ResultSet []Record

// PageParams are the pagination parameters for a fetch.
type PageParams struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ConversationState is the durable per-thread record. It is read at the
// start of a turn, mutated by the pipeline, and written back when the
// final answer is emitted. Writes to the same thread are last-writer-wins.
type ConversationState struct {
	ThreadID  string     `json:"thread_id"`
	Messages  []ChatTurn `json:"messages"`
	Offset    int        `json:"offset"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewConversationState creates an empty state for a thread.
func NewConversationState(threadID string) *ConversationState {
	now := time.Now()
	return &ConversationState{
		ThreadID:  threadID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds a turn to the history.
func (s *ConversationState) Append(role Role, content string) {
	s.Messages = append(s.Messages, ChatTurn{Role: role, Content: content})
	s.UpdatedAt = time.Now()
}

// LastN returns the most recent n turns of history.
func (s *ConversationState) LastN(n int) []ChatTurn {
	if n <= 0 || len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}
