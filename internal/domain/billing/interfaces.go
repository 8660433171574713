package billing

import "context"

// Repository provides persistence for billing schedule entries.
type Repository interface {
	// Replace atomically deletes all entries of a contract type and inserts
	// the new set in a single transaction.
	Replace(ctx context.Context, contractTypeID string, entries []Entry) error
	ListByContractType(ctx context.Context, contractTypeID string) ([]Entry, error)
	Get(ctx context.Context, entryID string) (*Entry, error)
	Update(ctx context.Context, e *Entry) error
}
