package history

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a history record is not found.
var ErrNotFound = errors.New("history record not found")

// Store defines persistence operations for finished-command records.
type Store interface {
	// List returns all records, newest first.
	List(ctx context.Context) ([]Record, error)
	// Get returns a record by ID. Returns ErrNotFound if not found.
	Get(ctx context.Context, id string) (Record, error)
	// Save adds a new record, pruning oldest records if count exceeds the configured maximum.
	Save(ctx context.Context, rec Record) error
	// Clear removes all records.
	Clear(ctx context.Context) error
	// LastFailed returns the most recent failed record. Returns ErrNotFound if none.
	LastFailed(ctx context.Context) (Record, error)
}
