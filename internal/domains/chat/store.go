package chat

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Kapitar/aiatl-micdrop/internal/types"
)

// Session holds one conversation: the feedback it is grounded in
// (immutable after creation) and the append-only message history.
type Session struct {
	ID       string
	Feedback json.RawMessage
	History  []types.Turn
}

// Store abstracts session persistence so a future swap to an external
// store doesn't touch callers. The in-memory implementation below is
// single-process and non-durable: sessions live for the lifetime of
// the process, no eviction.
type Store interface {
	Put(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Append(ctx context.Context, id string, turns ...types.Turn) error
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]*Session)}
}

func (m *memoryStore) Put(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = &Session{
		ID:       s.ID,
		Feedback: s.Feedback,
		History:  append([]types.Turn(nil), s.History...),
	}
	return nil
}

// Get returns a copy so callers can't mutate stored history directly.
func (m *memoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &Session{
		ID:       s.ID,
		Feedback: s.Feedback,
		History:  append([]types.Turn(nil), s.History...),
	}, nil
}

func (m *memoryStore) Append(_ context.Context, id string, turns ...types.Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.History = append(s.History, turns...)
	return nil
}
