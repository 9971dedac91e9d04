package deal

import "context"

// Store persists deal records. Implementations must be safe for
// concurrent use and must return deep-enough copies that callers cannot
// mutate stored state behind the store's back.
//
// There is deliberately no Delete: the audit requirement makes deal
// histories append-only with no destroy operation.
type Store interface {
	// Create persists a new record. Returns ErrExists if the ID is taken.
	Create(ctx context.Context, record *Record) error

	// Get returns the record for an ID. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (*Record, error)

	// Update overwrites an existing record. Returns ErrNotFound when absent.
	Update(ctx context.Context, record *Record) error

	// List returns every record, in unspecified order.
	List(ctx context.Context) ([]*Record, error)

	// Close releases resources held by the store.
	Close() error
}
