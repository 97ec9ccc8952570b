package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/you/accountsvc/domain"
)

// MockAccountService implements domain.AccountService interface for testing
type MockAccountService struct {
	CreateUserFunc          func(ctx context.Context, cmd domain.CreateUserCommand, allowAdminCreation, isAdmin bool) (uuid.UUID, error)
	CreateAdminUserFunc     func(ctx context.Context, cmd domain.CreateUserCommand, callerIsAdmin bool) (uuid.UUID, error)
	ValidateCredentialsFunc func(ctx context.Context, username, password string) (*domain.User, error)
	GetUsernameByIDFunc     func(ctx context.Context, id uuid.UUID) (string, error)
	GetUserByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	CountUsersFunc          func(ctx context.Context) (int64, error)
	EnsureAdminSeededFunc   func(ctx context.Context) error
	SeedAdminUserFunc       func(ctx context.Context, token string) error
}

// NewMockAccountService creates a new MockAccountService with default behaviors
func NewMockAccountService() *MockAccountService {
	return &MockAccountService{}
}

// CreateUser registers a user
func (m *MockAccountService) CreateUser(ctx context.Context, cmd domain.CreateUserCommand, allowAdminCreation, isAdmin bool) (uuid.UUID, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, cmd, allowAdminCreation, isAdmin)
	}
	// Default behavior: success with a fresh id
	return uuid.New(), nil
}

// CreateAdminUser registers an admin
func (m *MockAccountService) CreateAdminUser(ctx context.Context, cmd domain.CreateUserCommand, callerIsAdmin bool) (uuid.UUID, error) {
	if m.CreateAdminUserFunc != nil {
		return m.CreateAdminUserFunc(ctx, cmd, callerIsAdmin)
	}
	if !callerIsAdmin {
		return uuid.Nil, domain.ErrAdminRequired
	}
	return uuid.New(), nil
}

// ValidateCredentials checks a username and password
func (m *MockAccountService) ValidateCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	if m.ValidateCredentialsFunc != nil {
		return m.ValidateCredentialsFunc(ctx, username, password)
	}
	// Default behavior: no match
	return nil, nil
}

// GetUsernameByID resolves a username
func (m *MockAccountService) GetUsernameByID(ctx context.Context, id uuid.UUID) (string, error) {
	if m.GetUsernameByIDFunc != nil {
		return m.GetUsernameByIDFunc(ctx, id)
	}
	return "", domain.ErrUserNotFound
}

// GetUserByID loads a user
func (m *MockAccountService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

// CountUsers returns the number of users
func (m *MockAccountService) CountUsers(ctx context.Context) (int64, error) {
	if m.CountUsersFunc != nil {
		return m.CountUsersFunc(ctx)
	}
	return 0, nil
}

// EnsureAdminSeeded seeds the bootstrap admin
func (m *MockAccountService) EnsureAdminSeeded(ctx context.Context) error {
	if m.EnsureAdminSeededFunc != nil {
		return m.EnsureAdminSeededFunc(ctx)
	}
	return nil
}

// SeedAdminUser seeds the bootstrap admin on behalf of token
func (m *MockAccountService) SeedAdminUser(ctx context.Context, token string) error {
	if m.SeedAdminUserFunc != nil {
		return m.SeedAdminUserFunc(ctx, token)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.AccountService = (*MockAccountService)(nil)
