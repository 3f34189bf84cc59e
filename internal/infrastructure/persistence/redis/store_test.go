package redis

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/student-records/internal/domain/course"
	"github.com/alem-hub/student-records/internal/domain/shared"
	"github.com/alem-hub/student-records/internal/domain/student"
)

func TestKeys(t *testing.T) {
	k := NewKeys("records:")
	assert.Equal(t, "records:student", k.Students())
	assert.Equal(t, "records:student:order", k.StudentOrder())
	assert.Equal(t, "records:student:seq", k.StudentSeq())
	assert.Equal(t, "records:course", k.Courses())
}

func TestConfigAddr(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "localhost:6379", cfg.Addr())
	assert.Equal(t, "records:", cfg.Prefix)
}

func TestDecodeRecord(t *testing.T) {
	r, err := decodeRecord(`{"id":"P12345","name":"John Doe","course":"Computer Science","year":2,"gpa":3.8}`)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", r.Name)

	_, err = decodeRecord(`{"id":"P1","name":"X","course":"Y","year":11,"gpa":3}`)
	assert.True(t, shared.IsValidation(err))

	_, err = decodeRecord(`not json`)
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestDecodeCourses(t *testing.T) {
	entries, err := decodeCourses(map[string]string{
		"Algorithms":      `["Data Structures"]`,
		"Data Structures": "Intro to Programming",
		"Calculus":        "",
	})
	require.NoError(t, err)
	assert.Equal(t, []course.Entry{
		{Name: "Algorithms", Prerequisites: []string{"Data Structures"}},
		{Name: "Calculus", Prerequisites: []string{}},
		{Name: "Data Structures", Prerequisites: []string{"Intro to Programming"}},
	}, entries)
}

// liveClient connects to REDIS_TEST_ADDR under a unique prefix, or skips.
func liveClient(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	require.NoError(t, rdb.Ping(context.Background()).Err())

	c := NewClient(rdb, "test:"+uuid.NewString()+":")
	t.Cleanup(func() {
		ctx := context.Background()
		rdb.Del(ctx, c.keys.Students(), c.keys.StudentOrder(), c.keys.StudentSeq(), c.keys.Courses())
		rdb.Close()
	})
	return c
}

func TestStudentStore_Live(t *testing.T) {
	ctx := context.Background()
	store := liveClient(t).Students()

	john, err := student.NewRecord("P12345", "John Doe", "Computer Science", 2, 3.8)
	require.NoError(t, err)
	eve, err := student.NewRecord("P12348", "Eve Adams", "Mathematics", 1, 3.99)
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, john))
	require.NoError(t, store.Put(ctx, eve))
	john.GPA = 3.5
	require.NoError(t, store.Put(ctx, john))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []student.Record{john, eve}, all)

	require.NoError(t, store.Delete(ctx, john.ID))
	all, err = store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []student.Record{eve}, all)
}

func TestCourseStore_Live(t *testing.T) {
	ctx := context.Background()
	store := liveClient(t).Courses()

	require.NoError(t, store.PutBatch(ctx, []course.Entry{
		{Name: "Algorithms", Prerequisites: []string{"Data Structures"}},
		{Name: "Data Structures"},
	}))
	require.NoError(t, store.Put(ctx, "Algorithms", []string{"Discrete Math"}))

	entries, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []course.Entry{
		{Name: "Algorithms", Prerequisites: []string{"Discrete Math"}},
		{Name: "Data Structures", Prerequisites: []string{}},
	}, entries)
}
