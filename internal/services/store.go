package services

import (
	"fmt"
	"sync"
	"time"

	"sheetsight/pkg/contracts/domain"
)

// SessionKind tells report sessions from comparison sessions
type SessionKind string

const (
	SessionReport     SessionKind = "report"
	SessionComparison SessionKind = "comparison"
)

// Session is a stored workflow result. Payload, Table and Comparison are
// shared with the store and must not be modified.
type Session struct {
	ID         string
	Kind       SessionKind
	Filename   string
	Files      []string
	CreatedAt  time.Time
	Payload    *domain.ReportPayload
	Table      *domain.NormalizedTable
	Comparison *domain.ComparisonResult
}

// SessionStore keeps workflow results between requests
type SessionStore interface {
	// Save stores s and evicts the oldest sessions until at most keep
	// remain. A keep of zero or less disables eviction.
	Save(s *Session, keep int) error
	Get(id string) (*Session, error)
	Len() int
}

// MemorySessionStore is an in-memory SessionStore evicting in insertion order
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string
}

// NewMemorySessionStore creates an empty store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*Session),
	}
}

// Save stores a session. Saving an existing ID replaces it in place.
func (s *MemorySessionStore) Save(session *Session, keep int) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session must have an id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; !exists {
		s.order = append(s.order, session.ID)
	}
	s.sessions[session.ID] = session

	if keep > 0 && len(s.order) > keep {
		evicted := s.order[:len(s.order)-keep]
		for _, id := range evicted {
			delete(s.sessions, id)
		}
		s.order = append([]string(nil), s.order[len(s.order)-keep:]...)
	}
	return nil
}

// Get retrieves a session by ID
func (s *MemorySessionStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound.WithContext("session_id", id)
	}

	// Return a copy to prevent external modification
	sessionCopy := *session
	return &sessionCopy, nil
}

// Len returns the number of stored sessions
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
