// Package course models courses and their prerequisites as a directed graph
// and recommends a study order for a target course.
//
// Graph is pure in-memory state. Loading it from a Store and writing changes
// back is done by the application layer.
package course

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alem-hub/student-records/internal/domain/shared"
)

// CycleError reports a prerequisite cycle found while building a path.
type CycleError struct {
	// Course is the course reached a second time while still in progress.
	Course string

	// Path is the chain of courses that closes the cycle, starting and ending
	// with Course.
	Path []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("course.RecommendPath: cyclic dependency at %q: %s",
		e.Course, strings.Join(e.Path, " -> "))
}

// Is matches shared.ErrCyclicDependency.
func (e *CycleError) Is(target error) bool {
	return target == shared.ErrCyclicDependency
}

// Graph maps each course to its ordered prerequisites. Every prerequisite
// mentioned is also a key, possibly with no prerequisites of its own.
type Graph struct {
	prereqs map[string][]string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{prereqs: make(map[string][]string)}
}

// AddCourse sets the prerequisites of name, replacing any previous list.
// Prerequisites that are not yet known are added with no prerequisites;
// known ones keep their own lists.
func (g *Graph) AddCourse(name string, prerequisites []string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	for _, p := range prerequisites {
		if err := ValidateName(p); err != nil {
			return err
		}
	}

	g.prereqs[name] = slices.Clone(prerequisites)
	for _, p := range prerequisites {
		if _, ok := g.prereqs[p]; !ok {
			g.prereqs[p] = nil
		}
	}
	return nil
}

// Has reports whether name is a known course.
func (g *Graph) Has(name string) bool {
	_, ok := g.prereqs[name]
	return ok
}

// Prerequisites returns a copy of the direct prerequisites of name.
func (g *Graph) Prerequisites(name string) ([]string, bool) {
	p, ok := g.prereqs[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(p), true
}

// Courses returns every known course name, sorted.
func (g *Graph) Courses() []string {
	names := make([]string, 0, len(g.prereqs))
	for name := range g.prereqs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of known courses.
func (g *Graph) Len() int {
	return len(g.prereqs)
}

// RecommendPath returns a study order ending with target in which every
// course comes after all of its transitive prerequisites. Prerequisites are
// explored in listed order. An unknown target yields an empty path and no
// error. A prerequisite cycle reachable from target yields a *CycleError.
func (g *Graph) RecommendPath(target string) ([]string, error) {
	if !g.Has(target) {
		return []string{}, nil
	}

	var (
		path  []string
		done  = make(map[string]bool)
		stack []string
		onStk = make(map[string]bool)
	)

	var visit func(name string) error
	visit = func(name string) error {
		if done[name] {
			return nil
		}
		if onStk[name] {
			start := slices.Index(stack, name)
			cycle := append(slices.Clone(stack[start:]), name)
			return &CycleError{Course: name, Path: cycle}
		}

		onStk[name] = true
		stack = append(stack, name)

		for _, p := range g.prereqs[name] {
			if err := visit(p); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		delete(onStk, name)
		done[name] = true
		path = append(path, name)
		return nil
	}

	if err := visit(target); err != nil {
		return nil, err
	}
	return path, nil
}

// String renders one "course <- [prerequisites]" line per course, sorted by
// course name.
func (g *Graph) String() string {
	var b strings.Builder
	for _, name := range g.Courses() {
		b.WriteString(Entry{Name: name, Prerequisites: g.prereqs[name]}.String())
		b.WriteByte('\n')
	}
	return b.String()
}
