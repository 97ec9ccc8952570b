package mocks

import "github.com/you/accountsvc/domain"

// MockPasswordHasher implements domain.PasswordHasher interface for testing
type MockPasswordHasher struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(hashedPassword, password string) bool
}

// NewMockPasswordHasher creates a new MockPasswordHasher with default behaviors
func NewMockPasswordHasher() *MockPasswordHasher {
	return &MockPasswordHasher{}
}

// Hash generates a hash for the given password
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	// Default behavior: return simple hash (for testing only)
	return "hashed_" + password, nil
}

// Verify verifies a password against its hash
func (m *MockPasswordHasher) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	// Default behavior: simple check for testing
	return hashedPassword == "hashed_"+password
}

// Compile-time interface compliance verification
var _ domain.PasswordHasher = (*MockPasswordHasher)(nil)
