package mocks

import (
	"context"

	"github.com/you/accountsvc/domain"
)

// MockSessionService implements domain.SessionService interface for testing
type MockSessionService struct {
	LoginFunc  func(ctx context.Context, username, password string) (*domain.LoginResult, error)
	LogoutFunc func(ctx context.Context, token string) error
	WhoAmIFunc func(ctx context.Context, token string) (*domain.Identity, error)
}

// NewMockSessionService creates a new MockSessionService with default behaviors
func NewMockSessionService() *MockSessionService {
	return &MockSessionService{}
}

// Login authenticates and opens a session
func (m *MockSessionService) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	// Default behavior: invalid credentials
	return nil, domain.ErrInvalidCredentials
}

// Logout closes a session
func (m *MockSessionService) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return domain.ErrSessionNotFound
}

// WhoAmI resolves a token
func (m *MockSessionService) WhoAmI(ctx context.Context, token string) (*domain.Identity, error) {
	if m.WhoAmIFunc != nil {
		return m.WhoAmIFunc(ctx, token)
	}
	// Default behavior: unknown token
	return nil, domain.ErrInvalidSession
}

// Compile-time interface compliance verification
var _ domain.SessionService = (*MockSessionService)(nil)
