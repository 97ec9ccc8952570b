package mocks

import (
	"sync"

	"github.com/you/accountsvc/domain"
)

// MockCasbinEnforcer implements domain.PolicyEnforcer for testing.
// Without EnforceFunc it allows exact (subject, object, action) matches of its policies.
type MockCasbinEnforcer struct {
	EnforceFunc func(rvals ...interface{}) (bool, error)

	mu       sync.Mutex
	policies [][]string
	requests [][]string
}

// NewMockCasbinEnforcer creates a new MockCasbinEnforcer allowing the given policies
func NewMockCasbinEnforcer(policies ...[]string) *MockCasbinEnforcer {
	m := &MockCasbinEnforcer{}
	for _, p := range policies {
		m.policies = append(m.policies, append([]string(nil), p...))
	}
	return m
}

// Enforce checks if a request should be allowed
func (m *MockCasbinEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	req := make([]string, 0, len(rvals))
	for _, v := range rvals {
		s, _ := v.(string)
		req = append(req, s)
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.policies {
		if equalRequest(p, req) {
			return true, nil
		}
	}
	return false, nil
}

// Requests returns every (subject, object, action) tuple Enforce was called with
func (m *MockCasbinEnforcer) Requests() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.requests...)
}

func equalRequest(policy, req []string) bool {
	if len(policy) != len(req) {
		return false
	}
	for i := range policy {
		if policy[i] != req[i] {
			return false
		}
	}
	return true
}

// Compile-time interface compliance verification
var _ domain.PolicyEnforcer = (*MockCasbinEnforcer)(nil)
