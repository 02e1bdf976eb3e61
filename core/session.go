package core

import (
	"fmt"
	"sync"
	"time"
)

// Status is the session lifecycle state. Transitions are one-way:
// Created → Running → {Completed, Cancelled, Failed}.
type Status int

const (
	// StatusCreated is the initial state before the turn loop starts.
	StatusCreated Status = iota
	// StatusRunning indicates the turn loop is active.
	StatusRunning
	// StatusCompleted indicates natural termination.
	StatusCompleted
	// StatusCancelled indicates cooperative cancellation took effect.
	StatusCancelled
	// StatusFailed indicates a fatal error ended the session.
	StatusFailed
)

// String returns the state name.
func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusFailed
}

// Session is the mutable aggregate owning an ordered append-only message log
// and the lifecycle state of one orchestration run. Exactly one session owns
// its log; the engine is the only writer. It is safe for concurrent access.
type Session struct {
	ID       string
	mu       sync.RWMutex
	status   Status
	messages []Message
	created  time.Time
	updated  time.Time
}

// NewSession creates an empty session in the Created state.
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{ID: id, status: StatusCreated, created: now, updated: now}
}

// Append adds a message to the log. Messages are never mutated or removed
// after this point.
func (s *Session) Append(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	s.updated = time.Now().UTC()
}

// History returns a defensive copy of the full message log so callers cannot
// mutate engine-owned state.
func (s *Session) History() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := make([]Message, len(s.messages))
	copy(history, s.messages)
	return history
}

// Len returns the current log length.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Last returns the most recent message and whether one exists.
func (s *Session) Last() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Created returns the creation timestamp.
func (s *Session) Created() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.created
}

// Transition moves the session to the given state. Leaving a terminal state
// is rejected: completed, cancelled and failed sessions cannot be resumed.
func (s *Session) Transition(next Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Terminal() {
		return fmt.Errorf("session %s is %s: cannot transition to %s", s.ID, s.status, next)
	}
	s.status = next
	s.updated = time.Now().UTC()
	return nil
}

// SessionStore retains sessions for inspection after their run reaches a
// terminal state. Persistence beyond process memory is delegated to the
// hosting application.
type SessionStore interface {
	Put(sess *Session) error
	Get(id string) (*Session, error)
	List() []string
}
