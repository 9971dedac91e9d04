package evidence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuditRecord is one immutable, self-contained audit log entry. Records
// are appended as single JSON lines and never rewritten.
type AuditRecord struct {
	ID         string       `json:"id"`
	Timestamp  time.Time    `json:"timestamp"`
	Action     string       `json:"action"`
	EntityName string       `json:"entity_name"`
	Directory  string       `json:"directory"`
	Files      []HashedFile `json:"files"`
	Gaps       []Gap        `json:"gaps"`
	Passed     bool         `json:"passed"`
}

// AuditLog is an append-only, line-oriented JSON log. Each Append writes
// exactly one complete line with a single write call on an O_APPEND
// descriptor, so a record is either fully present or absent.
type AuditLog struct {
	path string
	mu   sync.Mutex
}

// NewAuditLog creates an audit log writer for the given path. The file is
// created on first append.
func NewAuditLog(path string) *AuditLog {
	return &AuditLog{path: path}
}

// Append records one evidence check. The record captures the hashed files,
// the gaps found, and the overall verdict.
func (a *AuditLog) Append(report *Report) error {
	record := AuditRecord{
		ID:         uuid.New().String(),
		Timestamp:  report.CheckedAt,
		Action:     "evidence_check",
		EntityName: report.EntityName,
		Directory:  report.Directory,
		Files:      report.Files,
		Gaps:       report.Gaps,
		Passed:     report.Passed(),
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode audit record: %w", err)
	}
	line = append(line, '\n')

	a.mu.Lock()
	defer a.mu.Unlock()

	if dir := filepath.Dir(a.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create audit log directory: %w", err)
		}
	}
	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit log %q: %w", a.path, err)
	}
	defer f.Close()

	// One write call per record keeps the append atomic under interruption.
	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

// Read returns every record in the log, oldest first. Intended for tests
// and external renderers; the core only appends.
func (a *AuditLog) Read() ([]AuditRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read audit log %q: %w", a.path, err)
	}

	var records []AuditRecord
	decoder := json.NewDecoder(bytes.NewReader(data))
	for decoder.More() {
		var record AuditRecord
		if err := decoder.Decode(&record); err != nil {
			return nil, fmt.Errorf("corrupt audit record in %q: %w", a.path, err)
		}
		records = append(records, record)
	}
	return records, nil
}
