package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/student-records/internal/domain/course"
	"github.com/alem-hub/student-records/internal/domain/student"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustRecord(t *testing.T, id, name, crs string, year int, gpa float64) student.Record {
	t.Helper()
	r, err := student.NewRecord(id, name, crs, year, gpa)
	require.NoError(t, err)
	return r
}

func TestStudentStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t).Students()

	john := mustRecord(t, "P12345", "John Doe", "Computer Science", 2, 3.8)
	eve := mustRecord(t, "P12348", "Eve Adams", "Mathematics", 1, 3.99)
	allan := mustRecord(t, "P12350", "Allan Turing", "Computer Science", 4, 3.95)

	for _, r := range []student.Record{john, eve, allan} {
		require.NoError(t, store.Put(ctx, r))
	}

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []student.Record{john, eve, allan}, all)

	t.Run("upsert keeps position", func(t *testing.T) {
		john.GPA = 3.1
		require.NoError(t, store.Put(ctx, john))

		all, err := store.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, john, all[0])
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, eve.ID))
		require.NoError(t, store.Delete(ctx, "missing"))

		all, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []student.Record{john, allan}, all)
	})
}

func TestStudentStore_EmptyTable(t *testing.T) {
	all, err := openTestDB(t).Students().GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestStudentStore_RejectsInvalidStoredRow(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, err := db.ExecContext(ctx, `INSERT INTO students (id, name, course, year, gpa) VALUES ('has space', 'X', 'Y', 1, 1.0)`)
	require.NoError(t, err)

	_, err = db.Students().GetAll(ctx)
	assert.Error(t, err)
}

func TestCourseStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t).Courses()

	require.NoError(t, store.Put(ctx, "Algorithms", []string{"Data Structures"}))
	require.NoError(t, store.Put(ctx, "Data Structures", []string{"Intro to Programming"}))
	require.NoError(t, store.Put(ctx, "Algorithms", []string{"Discrete Math", "Data Structures"}))

	entries, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []course.Entry{
		{Name: "Algorithms", Prerequisites: []string{"Discrete Math", "Data Structures"}},
		{Name: "Data Structures", Prerequisites: []string{"Intro to Programming"}},
	}, entries)
}

func TestCourseStore_PutBatch(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t).Courses()

	require.NoError(t, store.PutBatch(ctx, []course.Entry{
		{Name: "A", Prerequisites: []string{"B"}},
		{Name: "B", Prerequisites: nil},
	}))

	entries, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []string{}, entries[1].Prerequisites)
}

func TestCourseStore_DecodesLegacyRows(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, err := db.ExecContext(ctx, `INSERT INTO courses (name, prerequisites) VALUES ('Compilers', 'Data Structures,Formal Languages'), ('Calculus', '')`)
	require.NoError(t, err)

	entries, err := db.Courses().GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []course.Entry{
		{Name: "Compilers", Prerequisites: []string{"Data Structures", "Formal Languages"}},
		{Name: "Calculus", Prerequisites: []string{}},
	}, entries)
}

func TestOpen_UpgradesOriginalCoursesTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "courses.db")

	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = raw.ExecContext(ctx, `CREATE TABLE courses (course_name TEXT PRIMARY KEY, prerequisites TEXT)`)
	require.NoError(t, err)
	_, err = raw.ExecContext(ctx, `INSERT INTO courses (course_name, prerequisites) VALUES
		('Algorithms', 'Data Structures'),
		('Data Structures', 'Intro to Programming'),
		('Intro to Programming', ''),
		('Seminar', NULL)`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	db, err := Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	entries, err := db.Courses().GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []course.Entry{
		{Name: "Algorithms", Prerequisites: []string{"Data Structures"}},
		{Name: "Data Structures", Prerequisites: []string{"Intro to Programming"}},
		{Name: "Intro to Programming", Prerequisites: []string{}},
		{Name: "Seminar", Prerequisites: []string{}},
	}, entries)

	require.NoError(t, db.Courses().Put(ctx, "Compilers", []string{"Algorithms"}))
	require.NoError(t, db.Migrate(ctx))

	entries, err = db.Courses().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, "Compilers", entries[4].Name)

	legacy, err := db.hasColumn(ctx, "courses", "course_name")
	require.NoError(t, err)
	assert.False(t, legacy)
}

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, MemoryDSN)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Students().Put(ctx, mustRecord(t, "P1", "A", "B", 1, 2.0)))

	all, err := db.Students().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
