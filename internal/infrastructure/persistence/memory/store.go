// Package memory provides in-process record and course stores. They lose
// their contents on exit and can be told to fail, which makes them the
// store of choice for tests.
package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"

	"github.com/alem-hub/student-records/internal/domain/course"
	"github.com/alem-hub/student-records/internal/domain/student"
)

// ErrInjected is the default failure returned after FailNext or FailAlways.
var ErrInjected = errors.New("memory: injected failure")

// faults arms store failures.
type faults struct {
	mu     sync.Mutex
	next   int
	always error
	err    error
}

// FailNext makes the next n calls return err (ErrInjected if nil).
func (f *faults) FailNext(n int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		err = ErrInjected
	}
	f.next, f.err = n, err
}

// FailAlways makes every call return err until Recover. Nil means ErrInjected.
func (f *faults) FailAlways(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		err = ErrInjected
	}
	f.always = err
}

// Recover clears every armed failure.
func (f *faults) Recover() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next, f.always, f.err = 0, nil, nil
}

func (f *faults) check() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.always != nil {
		return f.always
	}
	if f.next > 0 {
		f.next--
		return f.err
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Students
// ─────────────────────────────────────────────────────────────────────────────

// StudentStore implements student.Store.
type StudentStore struct {
	faults

	mu      sync.RWMutex
	records map[string]student.Record
	order   []string
	calls   int
}

var _ student.Store = (*StudentStore)(nil)

// NewStudentStore returns an empty store.
func NewStudentStore() *StudentStore {
	return &StudentStore{records: make(map[string]student.Record)}
}

// Put upserts r; an existing ID keeps its position.
func (s *StudentStore) Put(ctx context.Context, r student.Record) error {
	if err := s.begin(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.records[r.ID] = r
	return nil
}

// Delete removes id. A missing id is not an error.
func (s *StudentStore) Delete(ctx context.Context, id string) error {
	if err := s.begin(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return nil
	}
	delete(s.records, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return nil
}

// GetAll returns a copy of every record in first-insertion order.
func (s *StudentStore) GetAll(ctx context.Context) ([]student.Record, error) {
	if err := s.begin(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]student.Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out, nil
}

// Calls reports how many store calls were attempted, failed ones included.
func (s *StudentStore) Calls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls
}

func (s *StudentStore) begin(ctx context.Context) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.check()
}

// ─────────────────────────────────────────────────────────────────────────────
// Courses
// ─────────────────────────────────────────────────────────────────────────────

// CourseStore implements course.Store.
type CourseStore struct {
	faults

	mu      sync.RWMutex
	courses map[string][]string
}

var _ course.Store = (*CourseStore)(nil)

// NewCourseStore returns an empty store.
func NewCourseStore() *CourseStore {
	return &CourseStore{courses: make(map[string][]string)}
}

// Put replaces the prerequisites of name.
func (s *CourseStore) Put(ctx context.Context, name string, prerequisites []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.check(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[name] = append([]string{}, prerequisites...)
	return nil
}

// GetAll returns every course ordered by name.
func (s *CourseStore) GetAll(ctx context.Context) ([]course.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.check(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]course.Entry, 0, len(s.courses))
	for name, prereqs := range s.courses {
		entries = append(entries, course.Entry{Name: name, Prerequisites: append([]string{}, prereqs...)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
