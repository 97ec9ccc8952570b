package mocks

import (
	"context"

	"github.com/you/accountsvc/domain"
)

// MockTransactionHandler implements domain.TransactionHandler interface for testing
type MockTransactionHandler struct {
	ExecuteFunc func(ctx context.Context, fn func(ctx context.Context) error) error
	Calls       int
}

// NewMockTransactionHandler creates a new MockTransactionHandler with default behaviors
func NewMockTransactionHandler() *MockTransactionHandler {
	return &MockTransactionHandler{}
}

// Execute runs fn
func (m *MockTransactionHandler) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, fn)
	}
	// Default behavior: run inline without a transaction
	return fn(ctx)
}

// Compile-time interface compliance verification
var _ domain.TransactionHandler = (*MockTransactionHandler)(nil)
