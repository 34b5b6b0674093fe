package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Storage provides SQLite access for the advisory call log
type Storage struct {
	db *sql.DB
}

// NewStorage opens (or creates) the SQLite database at dbPath and applies
// pending migrations.
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// One connection: the worker writes while handlers read, and SQLite
	// would otherwise answer SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// runMigrations applies the embedded goose migrations
func (s *Storage) runMigrations() error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// LogAdvisoryCall inserts a call and sets its ID
func (s *Storage) LogAdvisoryCall(call *AdvisoryCall) error {
	if call.CreatedAt.IsZero() {
		call.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO advisory_calls
		(event_id, session_id, transport, subtotal, item_count, status, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		call.EventID,
		call.SessionID,
		call.Transport,
		call.Subtotal,
		call.ItemCount,
		call.Status,
		call.Error,
		call.DurationMs,
		call.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	call.ID = id
	return nil
}

// ListAdvisoryCalls returns the most recent calls, newest first
func (s *Storage) ListAdvisoryCalls(limit int) ([]AdvisoryCall, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT id, event_id, session_id, transport, subtotal, item_count, status, error, duration_ms, created_at
		FROM advisory_calls
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	calls := make([]AdvisoryCall, 0)
	for rows.Next() {
		var call AdvisoryCall
		var createdAt string
		err := rows.Scan(
			&call.ID,
			&call.EventID,
			&call.SessionID,
			&call.Transport,
			&call.Subtotal,
			&call.ItemCount,
			&call.Status,
			&call.Error,
			&call.DurationMs,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}
		call.CreatedAt = parseTimestamp(createdAt)
		calls = append(calls, call)
	}

	return calls, rows.Err()
}

// parseTimestamp accepts both our RFC3339 values and SQLite's CURRENT_TIMESTAMP format
func parseTimestamp(v string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
