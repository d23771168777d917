// Package state persists per-thread conversation state.
package state

import (
	"context"
	"sync"

	"github.com/spogdesk/concierge/internal/model"
)

// Store is the keyed conversation-state store. Get returns nil (no
// error) for an unknown thread. Concurrent turns on the same thread are
// last-writer-wins; no cross-key coordination is required.
type Store interface {
	Get(ctx context.Context, threadID string) (*model.ConversationState, error)
	Put(ctx context.Context, st *model.ConversationState) error
}

// MemoryStore is a mutex-guarded in-process store, suitable for a
// single instance or for tests.
type MemoryStore struct {
	mu      sync.RWMutex
	threads map[string]*model.ConversationState
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		threads: make(map[string]*model.ConversationState),
	}
}

// Get retrieves the state for a thread.
func (s *MemoryStore) Get(ctx context.Context, threadID string) (*model.ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.threads[threadID]
	if !ok {
		return nil, nil
	}

	// Copy so callers mutate their own snapshot until Put.
	cp := *st
	cp.Messages = append([]model.ChatTurn(nil), st.Messages...)
	return &cp, nil
}

// Put stores the state for a thread.
func (s *MemoryStore) Put(ctx context.Context, st *model.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *st
	cp.Messages = append([]model.ChatTurn(nil), st.Messages...)
	s.threads[st.ThreadID] = &cp
	return nil
}
