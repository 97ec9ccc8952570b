package mocks

import (
	"time"

	"github.com/google/uuid"

	"github.com/you/accountsvc/domain"
)

// MockSessionStore implements domain.SessionStore interface for testing
type MockSessionStore struct {
	AddSessionFunc              func(token string, userID uuid.UUID, expiresAt time.Time)
	TryGetSessionFunc           func(token string) (domain.Session, bool)
	RemoveSessionFunc           func(token string) bool
	GetAllSessionsFunc          func() []domain.Session
	HasActiveSessionForUserFunc func(userID uuid.UUID) bool
}

// NewMockSessionStore creates a new MockSessionStore with default behaviors
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{}
}

// AddSession stores a session
func (m *MockSessionStore) AddSession(token string, userID uuid.UUID, expiresAt time.Time) {
	if m.AddSessionFunc != nil {
		m.AddSessionFunc(token, userID, expiresAt)
	}
}

// TryGetSession looks up a session
func (m *MockSessionStore) TryGetSession(token string) (domain.Session, bool) {
	if m.TryGetSessionFunc != nil {
		return m.TryGetSessionFunc(token)
	}
	// Default behavior: not found
	return domain.Session{}, false
}

// RemoveSession deletes a session
func (m *MockSessionStore) RemoveSession(token string) bool {
	if m.RemoveSessionFunc != nil {
		return m.RemoveSessionFunc(token)
	}
	return false
}

// GetAllSessions returns every session
func (m *MockSessionStore) GetAllSessions() []domain.Session {
	if m.GetAllSessionsFunc != nil {
		return m.GetAllSessionsFunc()
	}
	return nil
}

// HasActiveSessionForUser reports whether userID has a live session
func (m *MockSessionStore) HasActiveSessionForUser(userID uuid.UUID) bool {
	if m.HasActiveSessionForUserFunc != nil {
		return m.HasActiveSessionForUserFunc(userID)
	}
	return false
}

// Compile-time interface compliance verification
var _ domain.SessionStore = (*MockSessionStore)(nil)
