package repositories

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/you/accountsvc/domain"
)

// MemorySessionStore implements domain.SessionStore as a lock-protected map.
// Expired entries are evicted lazily when they are looked up.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	clock    clockwork.Clock
}

// NewSessionStore creates an empty session store
func NewSessionStore(clock clockwork.Clock) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domain.Session),
		clock:    clock,
	}
}

// AddSession inserts or overwrites the session for token
func (s *MemorySessionStore) AddSession(token string, userID uuid.UUID, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[token] = domain.Session{Token: token, UserID: userID, ExpiresAt: expiresAt}
}

// TryGetSession returns the live session for token. An expired match is removed.
func (s *MemorySessionStore) TryGetSession(token string) (domain.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return domain.Session{}, false
	}
	if !session.Expired(s.clock.Now()) {
		return session, true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// The entry may have been replaced since the read lock was released.
	if current, ok := s.sessions[token]; ok {
		if !current.Expired(s.clock.Now()) {
			return current, true
		}
		delete(s.sessions, token)
	}
	return domain.Session{}, false
}

// RemoveSession deletes token and reports whether it was present
func (s *MemorySessionStore) RemoveSession(token string) bool {
	if strings.TrimSpace(token) == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return false
	}
	delete(s.sessions, token)
	return true
}

// GetAllSessions returns a snapshot of every stored session, expired ones included
func (s *MemorySessionStore) GetAllSessions() []domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	return out
}

// HasActiveSessionForUser reports whether a non-expired session belongs to userID
func (s *MemorySessionStore) HasActiveSessionForUser(userID uuid.UUID) bool {
	now := s.clock.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, session := range s.sessions {
		if session.UserID == userID && !session.Expired(now) {
			return true
		}
	}
	return false
}

// ActiveCount returns the number of non-expired sessions
func (s *MemorySessionStore) ActiveCount() int {
	now := s.clock.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, session := range s.sessions {
		if !session.Expired(now) {
			n++
		}
	}
	return n
}

var _ domain.SessionStore = (*MemorySessionStore)(nil)
