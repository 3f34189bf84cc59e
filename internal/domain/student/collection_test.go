package student

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/student-records/internal/domain/shared"
)

func mustRecord(t *testing.T, id, name string, gpa float64) Record {
	t.Helper()
	r, err := NewRecord(id, name, "Computer Science", 2, gpa)
	require.NoError(t, err)
	return r
}

func ids(c *Collection) []string {
	var out []string
	for r := range c.All() {
		out = append(out, r.ID)
	}
	return out
}

func TestCollection_InsertFindDelete(t *testing.T) {
	c := NewCollection()
	eve := mustRecord(t, "P12348", "Eve", 3.99)
	john := mustRecord(t, "P12346", "John", 3.92)

	require.NoError(t, c.Insert(eve))
	require.NoError(t, c.Insert(john))
	assert.Equal(t, 2, c.Len())

	got, ok := c.Find("P12346")
	require.True(t, ok)
	assert.Equal(t, john, got)

	removed, ok := c.Delete("P12346")
	require.True(t, ok)
	assert.Equal(t, john, removed)

	_, ok = c.Find("P12346")
	assert.False(t, ok)

	_, ok = c.Delete("P12346")
	assert.False(t, ok)
	assert.Equal(t, []string{"P12348"}, ids(c))
}

func TestCollection_RejectsDuplicateID(t *testing.T) {
	c := NewCollection()
	require.NoError(t, c.Insert(mustRecord(t, "P1", "Eve", 3.99)))

	err := c.Insert(mustRecord(t, "P1", "Impostor", 1.0))
	require.Error(t, err)
	assert.True(t, shared.IsAlreadyExists(err))

	got, _ := c.Find("P1")
	assert.Equal(t, "Eve", got.Name)
	assert.Equal(t, 1, c.Len())
}

func TestCollection_AllKeepsInsertionOrder(t *testing.T) {
	c := NewCollection()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, c.Insert(mustRecord(t, id, "x", 2.0)))
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids(c))

	// Re-iterable without mutation.
	assert.Equal(t, []string{"c", "a", "b"}, ids(c))

	c.Delete("a")
	require.NoError(t, c.Insert(mustRecord(t, "a", "x", 2.0)))
	assert.Equal(t, []string{"c", "b", "a"}, ids(c))
}

func TestCollection_AllStopsEarly(t *testing.T) {
	c := NewCollection()
	for i := range 5 {
		require.NoError(t, c.Insert(mustRecord(t, fmt.Sprintf("P%d", i), "x", 2.0)))
	}

	var seen int
	for range c.All() {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

// TestCollection_FindMatchesModel checks that after any sequence of inserts and
// deletes, Find returns the most recently inserted live record for an ID.
func TestCollection_FindMatchesModel(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	c := NewCollection()
	model := map[string]Record{}
	keys := []string{"A", "B", "C", "D"}

	for step := range 500 {
		id := keys[rng.Intn(len(keys))]
		if rng.Intn(2) == 0 {
			r := mustRecord(t, id, fmt.Sprintf("name-%d", step), float64(rng.Intn(401))/100)
			err := c.Insert(r)
			if _, live := model[id]; live {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				model[id] = r
			}
		} else {
			removed, ok := c.Delete(id)
			want, live := model[id]
			require.Equal(t, live, ok)
			if live {
				assert.Equal(t, want, removed)
				delete(model, id)
			}
		}

		for _, k := range keys {
			got, ok := c.Find(k)
			want, live := model[k]
			require.Equal(t, live, ok, "step %d id %s", step, k)
			if live {
				require.Equal(t, want, got)
			}
		}
	}

	var liveIDs []string
	for id := range model {
		liveIDs = append(liveIDs, id)
	}
	slices.Sort(liveIDs)
	got := ids(c)
	slices.Sort(got)
	assert.Equal(t, liveIDs, got)
}
