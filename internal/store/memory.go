package store

import (
	"context"
	"sync"

	"github.com/carcare/carcarebot/internal"
)

type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]internal.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]internal.Session)}
}

func (s *MemoryStore) Load(_ context.Context, id string) (internal.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return internal.NewSession(id), nil
	}
	return cloneSession(sess), nil
}

func (s *MemoryStore) Save(_ context.Context, sess internal.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = cloneSession(sess)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
