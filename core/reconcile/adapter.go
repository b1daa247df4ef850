package reconcile

import "context"

// Adapter defines entity-specific reconciliation logic.
// R is the remote record type and L the local row type.
type Adapter[R, L any] interface {
	// Name returns the entity name (e.g., "customers", "charges").
	Name() string

	// ExternalID returns the provider ID of a remote record.
	ExternalID(r R) string

	// Project maps a remote record onto the local row it should become.
	// Bookkeeping columns are left to the store.
	Project(r R) (L, error)

	// Fields lists the tracked fields compared between stored and projected rows.
	Fields() []Field[L]

	// Lookup fetches the stored row by provider ID. found is false when absent.
	Lookup(ctx context.Context, id string) (row L, found bool, err error)

	// Upsert writes the full projection, inserting or replacing every non-key column
	// except the creation timestamp.
	Upsert(ctx context.Context, row L) error
}

// Guard is implemented by adapters that skip some records.
// Admit returns an error built with Ignore to skip the record, any other error to
// fail it, and nil to proceed.
type Guard[R any] interface {
	Admit(ctx context.Context, r R) error
}
