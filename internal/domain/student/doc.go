// Package student contains the student record model and the in-memory record
// collection.
//
// The package has no I/O. It defines:
//
//   - Record: an immutable student record (id, name, course, year, gpa)
//   - Collection: the insertion-ordered set of live records
//   - Store: the persistence contract implemented in infrastructure/persistence
//
// # Building records
//
// Records are only built through validating constructors:
//
//	r, err := student.NewRecord("P12348", "Eve", "Actuarial Science", 2, 3.99)
//	r, err := student.ParseRecord("P12348", "Eve", "Actuarial Science", "2", "3.99")
//	r, err := student.FromRow([]any{"P12348", "Eve", "Actuarial Science", int64(2), 3.99})
//
// Every constructor returns an error matching shared.ErrValidation (or one of
// its specialisations) instead of a partially filled record.
//
// # Collection
//
// The collection keeps insertion order and rejects duplicate IDs:
//
//	c := student.NewCollection()
//	_ = c.Insert(r)
//	found, ok := c.Find("P12348")
//	removed, ok := c.Delete("P12348")
//	for r := range c.All() { ... }
package student
