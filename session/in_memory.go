// Package session provides the default in-memory SessionStore. Sessions are
// retained after reaching a terminal state so hosts can inspect their
// message logs; durable persistence is the hosting application's concern.
package session

import (
	"fmt"
	"sort"
	"sync"

	"github.com/convoke-ai/convoke/core"
)

// InMemoryStore is a thread-safe map-backed SessionStore.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.Session)}
}

// Put implements core.SessionStore.
func (s *InMemoryStore) Put(sess *core.Session) error {
	if sess == nil {
		return fmt.Errorf("nil session")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

// Get implements core.SessionStore.
func (s *InMemoryStore) Get(id string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return sess, nil
}

// List implements core.SessionStore returning sorted session IDs.
func (s *InMemoryStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
