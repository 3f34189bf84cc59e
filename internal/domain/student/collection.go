package student

import (
	"iter"
	"slices"

	"github.com/alem-hub/student-records/internal/domain/shared"
)

// Collection is the in-memory, insertion-ordered set of live student records.
// It performs no I/O; callers persist through a Store after each mutation.
//
// A Collection rejects an ID that is already present, so at most one live
// record exists per ID.
type Collection struct {
	records []Record
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Insert appends r. It returns ErrStudentAlreadyExists if a record with the
// same ID is already in the collection.
func (c *Collection) Insert(r Record) error {
	if _, ok := c.Find(r.ID); ok {
		return shared.ErrStudentAlreadyExists
	}
	c.records = append(c.records, r)
	return nil
}

// Find returns the first record with the given ID in insertion order.
func (c *Collection) Find(id string) (Record, bool) {
	i := c.index(id)
	if i < 0 {
		return Record{}, false
	}
	return c.records[i], true
}

// Delete removes the first record with the given ID and returns it.
func (c *Collection) Delete(id string) (Record, bool) {
	i := c.index(id)
	if i < 0 {
		return Record{}, false
	}
	removed := c.records[i]
	c.records = slices.Delete(c.records, i, i+1)
	return removed, true
}

// All yields the records in insertion order.
func (c *Collection) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, r := range c.records {
			if !yield(r) {
				return
			}
		}
	}
}

// Len returns the number of live records.
func (c *Collection) Len() int {
	return len(c.records)
}

func (c *Collection) index(id string) int {
	return slices.IndexFunc(c.records, func(r Record) bool { return r.ID == id })
}
