package storage

import (
	"sync"
	"time"
)

// MemoryRepository keeps the advisory call log in memory. It is used when no
// database path is configured, so the log is lost on restart.
type MemoryRepository struct {
	mu     sync.Mutex
	calls  []AdvisoryCall
	nextID int64
}

// NewMemoryRepository creates an empty in-memory call log
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		calls:  make([]AdvisoryCall, 0),
		nextID: 1,
	}
}

var _ Repository = (*MemoryRepository)(nil)

// LogAdvisoryCall stores a copy of call and sets its ID
func (r *MemoryRepository) LogAdvisoryCall(call *AdvisoryCall) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if call.CreatedAt.IsZero() {
		call.CreatedAt = time.Now().UTC()
	}
	call.ID = r.nextID
	r.nextID++

	r.calls = append(r.calls, *call)
	return nil
}

// ListAdvisoryCalls returns the most recent calls, newest first
func (r *MemoryRepository) ListAdvisoryCalls(limit int) ([]AdvisoryCall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = DefaultListLimit
	}

	out := make([]AdvisoryCall, 0, min(limit, len(r.calls)))
	for i := len(r.calls) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.calls[i])
	}
	return out, nil
}

// Close is a no-op
func (r *MemoryRepository) Close() error {
	return nil
}
