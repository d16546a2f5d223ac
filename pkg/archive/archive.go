package archive

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Store mirrors finalized feedback rows into Postgres. It is an optional
// subsystem; the spreadsheet remains the system of record.
type Store struct {
	db *sql.DB
}

// NewStore opens the archive database and ensures the feedback table exists.
func NewStore(databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS feedback (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			handle TEXT NOT NULL,
			first_name TEXT NOT NULL,
			rating TEXT NOT NULL,
			comment TEXT NOT NULL,
			submitted_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create feedback table: %w", err)
	}
	return nil
}

// SaveRow archives one feedback row in spreadsheet column order:
// user id, handle, first name, rating, comment, timestamp. Rows are appended
// and never updated.
func (s *Store) SaveRow(ctx context.Context, values []interface{}) error {
	if len(values) != 6 {
		return fmt.Errorf("expected 6 columns, got %d", len(values))
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (user_id, handle, first_name, rating, comment, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		values...)
	if err != nil {
		return fmt.Errorf("failed to archive feedback row: %w", err)
	}
	return nil
}
