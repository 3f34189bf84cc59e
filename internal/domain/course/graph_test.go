package course

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/student-records/internal/domain/shared"
)

func build(t *testing.T, courses map[string][]string) *Graph {
	t.Helper()
	g := NewGraph()
	for name, prereqs := range courses {
		require.NoError(t, g.AddCourse(name, prereqs))
	}
	return g
}

func TestRecommendPath_Chain(t *testing.T) {
	g := build(t, map[string][]string{
		"A": {"B"},
		"B": {"C"},
		"C": {},
	})

	path, err := g.RecommendPath("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, path)
}

func TestRecommendPath_OriginalExample(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.AddCourse("Algorithms", []string{"Data Structures"}))
	require.NoError(t, g.AddCourse("Data Structures", []string{"Intro to Programming"}))

	path, err := g.RecommendPath("Algorithms")
	require.NoError(t, err)
	assert.Equal(t, []string{"Intro to Programming", "Data Structures", "Algorithms"}, path)
}

func TestRecommendPath_NoPrerequisites(t *testing.T) {
	g := build(t, map[string][]string{"Calculus": nil})

	path, err := g.RecommendPath("Calculus")
	require.NoError(t, err)
	assert.Equal(t, []string{"Calculus"}, path)
}

func TestRecommendPath_UnknownCourse(t *testing.T) {
	g := build(t, map[string][]string{"A": {"B"}})

	path, err := g.RecommendPath("Quantum Basket Weaving")
	require.NoError(t, err)
	assert.NotNil(t, path)
	assert.Empty(t, path)
}

func TestRecommendPath_SharedPrerequisiteVisitedOnce(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.AddCourse("Compilers", []string{"Data Structures", "Formal Languages", "Computer Organization"}))
	require.NoError(t, g.AddCourse("Data Structures", []string{"Discrete Math"}))
	require.NoError(t, g.AddCourse("Formal Languages", []string{"Discrete Math"}))

	path, err := g.RecommendPath("Compilers")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Discrete Math",
		"Data Structures",
		"Formal Languages",
		"Computer Organization",
		"Compilers",
	}, path)

	// Every course appears after its prerequisites.
	pos := map[string]int{}
	for i, c := range path {
		pos[c] = i
	}
	for _, c := range path {
		prereqs, ok := g.Prerequisites(c)
		require.True(t, ok)
		for _, p := range prereqs {
			assert.Less(t, pos[p], pos[c], "%s must come before %s", p, c)
		}
	}
}

func TestRecommendPath_Cycle(t *testing.T) {
	t.Run("two courses", func(t *testing.T) {
		g := build(t, map[string][]string{"A": {"B"}, "B": {"A"}})

		path, err := g.RecommendPath("A")
		require.Error(t, err)
		assert.Nil(t, path)
		assert.True(t, errors.Is(err, shared.ErrCyclicDependency))

		var cycleErr *CycleError
		require.ErrorAs(t, err, &cycleErr)
		assert.Equal(t, "A", cycleErr.Course)
		assert.Equal(t, []string{"A", "B", "A"}, cycleErr.Path)
	})

	t.Run("self reference", func(t *testing.T) {
		g := build(t, map[string][]string{"A": {"A"}})

		_, err := g.RecommendPath("A")
		var cycleErr *CycleError
		require.ErrorAs(t, err, &cycleErr)
		assert.Equal(t, []string{"A", "A"}, cycleErr.Path)
	})

	t.Run("cycle below target", func(t *testing.T) {
		g := NewGraph()
		require.NoError(t, g.AddCourse("Top", []string{"X"}))
		require.NoError(t, g.AddCourse("X", []string{"Y"}))
		require.NoError(t, g.AddCourse("Y", []string{"Z"}))
		require.NoError(t, g.AddCourse("Z", []string{"X"}))

		_, err := g.RecommendPath("Top")
		var cycleErr *CycleError
		require.ErrorAs(t, err, &cycleErr)
		assert.Equal(t, "X", cycleErr.Course)
		assert.Equal(t, []string{"X", "Y", "Z", "X"}, cycleErr.Path)
		assert.Contains(t, err.Error(), "X -> Y -> Z -> X")
	})

	t.Run("diamond is not a cycle", func(t *testing.T) {
		g := NewGraph()
		require.NoError(t, g.AddCourse("D", []string{"B", "C"}))
		require.NoError(t, g.AddCourse("B", []string{"A"}))
		require.NoError(t, g.AddCourse("C", []string{"A"}))

		path, err := g.RecommendPath("D")
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C", "D"}, path)
	})
}

func TestAddCourse_ReplacesPrerequisites(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.AddCourse("A", []string{"B", "C"}))
	require.NoError(t, g.AddCourse("A", []string{"D"}))

	prereqs, ok := g.Prerequisites("A")
	require.True(t, ok)
	assert.Equal(t, []string{"D"}, prereqs)

	// Earlier prerequisites stay known as courses.
	assert.True(t, g.Has("B"))
	assert.True(t, g.Has("C"))

	path, err := g.RecommendPath("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "A"}, path)
}

func TestAddCourse_KeepsExistingPrerequisiteLists(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.AddCourse("B", []string{"C"}))
	require.NoError(t, g.AddCourse("A", []string{"B"}))

	prereqs, _ := g.Prerequisites("B")
	assert.Equal(t, []string{"C"}, prereqs)
	assert.Equal(t, []string{"A", "B", "C"}, g.Courses())
	assert.Equal(t, 3, g.Len())
}

func TestAddCourse_CopiesInput(t *testing.T) {
	g := NewGraph()
	in := []string{"B"}
	require.NoError(t, g.AddCourse("A", in))
	in[0] = "Z"

	prereqs, _ := g.Prerequisites("A")
	assert.Equal(t, []string{"B"}, prereqs)
}

func TestAddCourse_RejectsInvalidNames(t *testing.T) {
	g := NewGraph()

	err := g.AddCourse("", nil)
	assert.True(t, shared.IsValidation(err))

	err = g.AddCourse("Algorithms", []string{"Data Structures, Part 1"})
	assert.True(t, shared.IsValidation(err))

	assert.Equal(t, 0, g.Len())
}

func TestGraph_String(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.AddCourse("Algorithms", []string{"Data Structures"}))

	assert.Equal(t, "Algorithms <- [Data Structures]\nData Structures <- []\n", g.String())
}

func TestEntry_String(t *testing.T) {
	assert.Equal(t, "Algorithms <- [Data Structures, Discrete Math]",
		Entry{Name: "Algorithms", Prerequisites: []string{"Data Structures", "Discrete Math"}}.String())
	assert.Equal(t, "Calculus <- []", Entry{Name: "Calculus"}.String())
}
