// Package history keeps the undo log of reversible record operations.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/alem-hub/student-records/internal/domain/student"
)

// Action identifies what an undo entry reverses.
type Action string

const (
	// ActionDelete - a student record was deleted; undo re-inserts it.
	ActionDelete Action = "delete"
)

// Entry is one reversible operation with the full record snapshot needed to
// rebuild the record.
type Entry struct {
	ID       string
	Action   Action
	Record   student.Record
	Recorded time.Time
}

// NewDeleteEntry captures a deleted record.
func NewDeleteEntry(r student.Record) Entry {
	return Entry{
		ID:       uuid.NewString(),
		Action:   ActionDelete,
		Record:   r,
		Recorded: time.Now().UTC(),
	}
}

// UndoLog is an unbounded LIFO stack of entries. It is not persisted.
type UndoLog struct {
	entries []Entry
}

// NewUndoLog returns an empty log.
func NewUndoLog() *UndoLog {
	return &UndoLog{}
}

// Push puts e on top of the log.
func (l *UndoLog) Push(e Entry) {
	l.entries = append(l.entries, e)
}

// Pop removes and returns the most recent entry.
func (l *UndoLog) Pop() (Entry, bool) {
	n := len(l.entries)
	if n == 0 {
		return Entry{}, false
	}
	e := l.entries[n-1]
	l.entries[n-1] = Entry{}
	l.entries = l.entries[:n-1]
	return e, true
}

// Len returns the number of entries.
func (l *UndoLog) Len() int {
	return len(l.entries)
}
