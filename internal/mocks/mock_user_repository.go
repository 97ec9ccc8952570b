package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/you/accountsvc/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	UsernameExistsFunc     func(ctx context.Context, username string) (bool, error)
	GetUserByUsernameFunc  func(ctx context.Context, username string) (*domain.User, error)
	GetUserByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	AdminAccountExistsFunc func(ctx context.Context) (bool, error)
	AddUserFunc            func(ctx context.Context, user *domain.User) error
	CountUsersFunc         func(ctx context.Context) (int64, error)
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// UsernameExists reports whether a username is taken
func (m *MockUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	if m.UsernameExistsFunc != nil {
		return m.UsernameExistsFunc(ctx, username)
	}
	// Default behavior: free
	return false, nil
}

// GetUserByUsername finds a user by username
func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetUserByUsernameFunc != nil {
		return m.GetUserByUsernameFunc(ctx, username)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// GetUserByID finds a user by ID
func (m *MockUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// AdminAccountExists reports whether any admin is stored
func (m *MockUserRepository) AdminAccountExists(ctx context.Context) (bool, error) {
	if m.AdminAccountExistsFunc != nil {
		return m.AdminAccountExistsFunc(ctx)
	}
	return false, nil
}

// AddUser stores a user
func (m *MockUserRepository) AddUser(ctx context.Context, user *domain.User) error {
	if m.AddUserFunc != nil {
		return m.AddUserFunc(ctx, user)
	}
	// Default behavior: success
	return nil
}

// CountUsers returns the number of stored users
func (m *MockUserRepository) CountUsers(ctx context.Context) (int64, error) {
	if m.CountUsersFunc != nil {
		return m.CountUsersFunc(ctx)
	}
	return 0, nil
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*MockUserRepository)(nil)
