package student

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// STORE INTERFACE
// The contract a durable record store must satisfy. Implementations live in
// infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Store persists student records keyed by ID.
type Store interface {
	// Put inserts or replaces the record with r.ID.
	Put(ctx context.Context, r Record) error

	// Delete removes the record with the given ID. Deleting an absent ID is
	// not an error.
	Delete(ctx context.Context, id string) error

	// GetAll returns every stored record ordered by first insertion.
	GetAll(ctx context.Context) ([]Record, error)
}
