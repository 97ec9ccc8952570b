package mocks

import (
	"context"
	"sync"

	"github.com/you/accountsvc/domain"
)

// MockEventPublisher implements domain.EventPublisher and records published events
type MockEventPublisher struct {
	PublishFunc func(ctx context.Context, event *domain.AccountEvent) error

	mu     sync.Mutex
	events []*domain.AccountEvent
}

// NewMockEventPublisher creates a new MockEventPublisher with default behaviors
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(ctx context.Context, event *domain.AccountEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()

	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	return nil
}

// Events returns the recorded events in publish order
func (m *MockEventPublisher) Events() []*domain.AccountEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.AccountEvent(nil), m.events...)
}

// EventTypes returns the types of the recorded events in publish order
func (m *MockEventPublisher) EventTypes() []domain.AccountEventType {
	events := m.Events()
	types := make([]domain.AccountEventType, 0, len(events))
	for _, e := range events {
		types = append(types, e.EventType)
	}
	return types
}

// Compile-time interface compliance verification
var _ domain.EventPublisher = (*MockEventPublisher)(nil)
