package storage

import "time"

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, in-memory)
// and makes testing with mocks straightforward.
type Repository interface {
	AdvisoryCallRepository
	Close() error
}

// AdvisoryCallRepository handles the outbound advisory call log
type AdvisoryCallRepository interface {
	// LogAdvisoryCall records one outbound advisory attempt
	LogAdvisoryCall(call *AdvisoryCall) error

	// ListAdvisoryCalls returns the most recent calls, newest first
	ListAdvisoryCalls(limit int) ([]AdvisoryCall, error)
}

// Advisory call statuses
const (
	CallStatusSuccess  = "success"
	CallStatusFailed   = "failed"
	CallStatusEmpty    = "empty"
	CallStatusRejected = "rejected"
)

// AdvisoryCall is one outbound advisory attempt
type AdvisoryCall struct {
	ID         int64     `json:"id"`
	EventID    string    `json:"event_id"`
	SessionID  string    `json:"session_id"`
	Transport  string    `json:"transport"`
	Subtotal   int64     `json:"subtotal"`
	ItemCount  int64     `json:"item_count"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// DefaultListLimit is used when a caller passes a non-positive limit
const DefaultListLimit = 50
