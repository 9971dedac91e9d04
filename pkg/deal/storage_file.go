package deal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore persists each deal as one JSON document on disk, keyed by the
// normalized deal-id slug. Writes go through a temp file and rename so a
// record is never half-written.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a document store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create deal store directory %q: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, Slug(id)+".json")
}

// Create persists a new record.
func (s *FileStore) Create(ctx context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(record.ID)
	if _, err := os.Stat(path); err == nil {
		return ErrExists
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat deal record %q: %w", path, err)
	}
	return s.write(path, record)
}

// Get returns the record for an ID.
func (s *FileStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(s.path(id))
}

// Update overwrites an existing record.
func (s *FileStore) Update(ctx context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(record.ID)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to stat deal record %q: %w", path, err)
	}
	return s.write(path, record)
}

// List returns every record in the store directory.
func (s *FileStore) List(ctx context.Context) ([]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read deal store directory %q: %w", s.dir, err)
	}

	var records []*Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		record, err := s.read(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) read(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read deal record %q: %w", path, err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("corrupt deal record %q: %w", path, err)
	}
	return &record, nil
}

// write serializes the record and renames it into place atomically.
func (s *FileStore) write(path string, record *Record) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode deal record %q: %w", record.ID, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".deal-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for deal record: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write deal record %q: %w", record.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close deal record %q: %w", record.ID, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to persist deal record %q: %w", record.ID, err)
	}
	return nil
}
