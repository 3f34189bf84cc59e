package history

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/student-records/internal/domain/student"
)

func record(t *testing.T, id, name string) student.Record {
	t.Helper()
	r, err := student.NewRecord(id, name, "CPA", 3, 3.5)
	require.NoError(t, err)
	return r
}

func TestNewDeleteEntry(t *testing.T) {
	r := record(t, "P12346", "John")
	e := NewDeleteEntry(r)

	assert.Equal(t, ActionDelete, e.Action)
	assert.Equal(t, r, e.Record)
	assert.False(t, e.Recorded.IsZero())
	_, err := uuid.Parse(e.ID)
	assert.NoError(t, err)
}

func TestUndoLog_LIFO(t *testing.T) {
	log := NewUndoLog()
	_, ok := log.Pop()
	assert.False(t, ok)

	first := NewDeleteEntry(record(t, "1", "First"))
	second := NewDeleteEntry(record(t, "2", "Second"))
	log.Push(first)
	log.Push(second)
	assert.Equal(t, 2, log.Len())

	got, ok := log.Pop()
	require.True(t, ok)
	assert.Equal(t, second, got)

	got, ok = log.Pop()
	require.True(t, ok)
	assert.Equal(t, first, got)

	_, ok = log.Pop()
	assert.False(t, ok)
	assert.Equal(t, 0, log.Len())
}

func TestUndoLog_RestoresDeletedRecord(t *testing.T) {
	c := student.NewCollection()
	john := record(t, "P12346", "John")
	require.NoError(t, c.Insert(john))

	removed, ok := c.Delete("P12346")
	require.True(t, ok)

	log := NewUndoLog()
	log.Push(NewDeleteEntry(removed))

	e, ok := log.Pop()
	require.True(t, ok)
	require.NoError(t, c.Insert(e.Record))

	got, ok := c.Find("P12346")
	require.True(t, ok)
	assert.Equal(t, john, got)
}
