package badger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/student-records/internal/domain/course"
	"github.com/alem-hub/student-records/internal/domain/student"
	"github.com/alem-hub/student-records/pkg/logger"
)

func openInMemory(t *testing.T) *DB {
	t.Helper()
	db, err := Open(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func record(t *testing.T, id string, gpa float64) student.Record {
	t.Helper()
	r, err := student.NewRecord(id, "Student "+id, "Computer Science", 2, gpa)
	require.NoError(t, err)
	return r
}

func TestStudentStore_Order(t *testing.T) {
	ctx := context.Background()
	store := openInMemory(t).Students()

	// IDs chosen so key order differs from insertion order.
	z, a, m := record(t, "Z1", 3.0), record(t, "A1", 3.5), record(t, "M1", 2.5)
	for _, r := range []student.Record{z, a, m} {
		require.NoError(t, store.Put(ctx, r))
	}

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []student.Record{z, a, m}, all)

	a.GPA = 1.0
	require.NoError(t, store.Put(ctx, a))
	all, err = store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []student.Record{z, a, m}, all)

	require.NoError(t, store.Delete(ctx, z.ID))
	require.NoError(t, store.Delete(ctx, "missing"))
	require.NoError(t, store.Put(ctx, z))

	all, err = store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []student.Record{a, m, z}, all)
}

func TestStudentStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := openInMemory(t).Students().Put(ctx, record(t, "P1", 3.0))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCourseStore(t *testing.T) {
	ctx := context.Background()
	store := openInMemory(t).Courses()

	require.NoError(t, store.Put(ctx, "Data Structures", []string{"Intro to Programming"}))
	require.NoError(t, store.PutBatch(ctx, []course.Entry{
		{Name: "Algorithms", Prerequisites: []string{"Data Structures"}},
		{Name: "Intro to Programming"},
	}))

	entries, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []course.Entry{
		{Name: "Algorithms", Prerequisites: []string{"Data Structures"}},
		{Name: "Data Structures", Prerequisites: []string{"Intro to Programming"}},
		{Name: "Intro to Programming", Prerequisites: []string{}},
	}, entries)
}

func TestOpen_Persistent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	var buf bytes.Buffer
	cfg := DefaultConfig(dir)
	cfg.Logger = logger.New(logger.Options{Output: &buf, Level: logger.LevelWarn})

	db, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, db.Students().Put(ctx, record(t, "P1", 3.2)))
	require.NoError(t, db.Close())

	db, err = Open(cfg)
	require.NoError(t, err)
	defer db.Close()

	all, err := db.Students().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "P1", all[0].ID)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}
