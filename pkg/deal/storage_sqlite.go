package deal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteConfig configures the SQLite deal store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is how long a locked database is retried. Default: 5s.
	BusyTimeout time.Duration
}

// SQLiteStore persists deal records in SQLite. The full record is stored
// as a JSON document so it round-trips losslessly; the state column exists
// for querying.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS deals (
	slug       TEXT PRIMARY KEY,
	state      TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	document   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_deals_state ON deals(state);
`

// NewSQLiteStore opens (and initializes) a SQLite deal store.
func NewSQLiteStore(config SQLiteConfig) (*SQLiteStore, error) {
	if config.BusyTimeout == 0 {
		config.BusyTimeout = 5 * time.Second
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open deal database %q: %w", config.Path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", config.BusyTimeout.Milliseconds()),
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize deal schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Create persists a new record.
func (s *SQLiteStore) Create(ctx context.Context, record *Record) error {
	document, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode deal record %q: %w", record.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO deals (slug, state, updated_at, document) VALUES (?, ?, ?, ?)`,
		Slug(record.ID), string(record.State), record.UpdatedAt.UTC().Format(time.RFC3339Nano), document,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrExists
		}
		return fmt.Errorf("failed to insert deal record %q: %w", record.ID, err)
	}
	return nil
}

// Get returns the record for an ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	var document string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM deals WHERE slug = ?`, Slug(id),
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load deal record %q: %w", id, err)
	}

	var record Record
	if err := json.Unmarshal([]byte(document), &record); err != nil {
		return nil, fmt.Errorf("corrupt deal record %q: %w", id, err)
	}
	return &record, nil
}

// Update overwrites an existing record.
func (s *SQLiteStore) Update(ctx context.Context, record *Record) error {
	document, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode deal record %q: %w", record.ID, err)
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE deals SET state = ?, updated_at = ?, document = ? WHERE slug = ?`,
		string(record.State), record.UpdatedAt.UTC().Format(time.RFC3339Nano), document, Slug(record.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to update deal record %q: %w", record.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update deal record %q: %w", record.ID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns every record.
func (s *SQLiteStore) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT document FROM deals`)
	if err != nil {
		return nil, fmt.Errorf("failed to list deal records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var document string
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("failed to scan deal record: %w", err)
		}
		var record Record
		if err := json.Unmarshal([]byte(document), &record); err != nil {
			return nil, fmt.Errorf("corrupt deal record: %w", err)
		}
		records = append(records, &record)
	}
	return records, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// isUniqueViolation detects a primary-key conflict without binding to the
// driver's error type.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
