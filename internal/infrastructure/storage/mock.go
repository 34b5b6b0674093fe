package storage

import "sync"

// MockRepository is an in-memory Repository for tests. It records what was
// logged and can be made to fail.
type MockRepository struct {
	mem *MemoryRepository

	mu sync.Mutex

	// Hooks for test assertions
	LogAdvisoryCallCalled bool
	LastLoggedCall        *AdvisoryCall

	// Error injection for testing error paths
	LogAdvisoryCallErr   error
	ListAdvisoryCallsErr error
}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{mem: NewMemoryRepository()}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// LogAdvisoryCall stores a copy of call and sets its ID
func (m *MockRepository) LogAdvisoryCall(call *AdvisoryCall) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LogAdvisoryCallCalled = true
	if m.LogAdvisoryCallErr != nil {
		return m.LogAdvisoryCallErr
	}
	if err := m.mem.LogAdvisoryCall(call); err != nil {
		return err
	}

	stored := *call
	m.LastLoggedCall = &stored
	return nil
}

// ListAdvisoryCalls returns the most recent calls, newest first
func (m *MockRepository) ListAdvisoryCalls(limit int) ([]AdvisoryCall, error) {
	m.mu.Lock()
	err := m.ListAdvisoryCallsErr
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return m.mem.ListAdvisoryCalls(limit)
}

// Close is a no-op
func (m *MockRepository) Close() error {
	return nil
}
