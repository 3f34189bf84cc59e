package course

import (
	"context"
	"strings"
)

// Entry is one stored course with its prerequisites.
type Entry struct {
	Name          string   `json:"name" yaml:"name"`
	Prerequisites []string `json:"prerequisites" yaml:"prerequisites"`
}

// String renders the entry as "name <- [a, b]".
func (e Entry) String() string {
	return e.Name + " <- [" + strings.Join(e.Prerequisites, ", ") + "]"
}

// Store persists the prerequisite list of each course.
type Store interface {
	// Put inserts or replaces the prerequisites of name.
	Put(ctx context.Context, name string, prerequisites []string) error

	// GetAll returns every stored course.
	GetAll(ctx context.Context) ([]Entry, error)
}

// BatchStore is implemented by stores that can write many courses at once.
// Callers fall back to Store.Put when a store does not provide it.
type BatchStore interface {
	PutBatch(ctx context.Context, entries []Entry) error
}
