package deal

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]*Record{}}
}

// Create persists a new record.
func (s *MemoryStore) Create(ctx context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Slug(record.ID)
	if _, ok := s.records[key]; ok {
		return ErrExists
	}
	s.records[key] = copyRecord(record)
	return nil
}

// Get returns the record for an ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[Slug(id)]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRecord(record), nil
}

// Update overwrites an existing record.
func (s *MemoryStore) Update(ctx context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Slug(record.ID)
	if _, ok := s.records[key]; !ok {
		return ErrNotFound
	}
	s.records[key] = copyRecord(record)
	return nil
}

// List returns every record.
func (s *MemoryStore) List(ctx context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, copyRecord(record))
	}
	return out, nil
}

// Close releases the store's records.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = map[string]*Record{}
	return nil
}

// copyRecord deep-copies a record so stored state cannot be mutated
// through aliased slices or maps. Nil slices and maps stay nil so the
// copy round-trips like the serialized backends.
func copyRecord(r *Record) *Record {
	out := *r
	if r.Transitions != nil {
		out.Transitions = make([]StateTransition, len(r.Transitions))
		copy(out.Transitions, r.Transitions)
		for i, t := range r.Transitions {
			if t.GateChecks != nil {
				checks := make(map[string]GateCheck, len(t.GateChecks))
				for name, check := range t.GateChecks {
					checks[name] = check
				}
				out.Transitions[i].GateChecks = checks
			}
		}
	}
	if r.Metadata != nil {
		out.Metadata = make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}
