// Package session owns the in-memory cores (record collection, ranking,
// undo log, course graph) together with the stores they mirror.
//
// A Session is not safe for concurrent use.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alem-hub/student-records/internal/domain/course"
	"github.com/alem-hub/student-records/internal/domain/history"
	"github.com/alem-hub/student-records/internal/domain/leaderboard"
	"github.com/alem-hub/student-records/internal/domain/shared"
	"github.com/alem-hub/student-records/internal/domain/student"
	"github.com/alem-hub/student-records/internal/infrastructure/metrics"
	"github.com/alem-hub/student-records/pkg/logger"
)

// Options configures a Session. Zero values are usable.
type Options struct {
	// Logger receives operation logs. Nil discards them.
	Logger *logger.Logger

	// Metrics records operation outcomes. Nil disables metrics.
	Metrics *metrics.Metrics

	// TopK is the default size of the ranking query.
	TopK int
}

// Session is the state shared by commands and queries.
type Session struct {
	Students *student.Collection
	Ranking  *leaderboard.Ranking
	Undo     *history.UndoLog
	Courses  *course.Graph

	StudentStore student.Store
	CourseStore  course.Store

	Log     *logger.Logger
	Metrics *metrics.Metrics
	TopK    int
}

// New returns an empty session over the given stores. Call Hydrate to load
// what the stores already hold.
func New(students student.Store, courses course.Store, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.TopK <= 0 {
		opts.TopK = leaderboard.DefaultTopK
	}

	return &Session{
		Students:     student.NewCollection(),
		Ranking:      leaderboard.NewRanking(),
		Undo:         history.NewUndoLog(),
		Courses:      course.NewGraph(),
		StudentStore: students,
		CourseStore:  courses,
		Log:          opts.Logger,
		Metrics:      opts.Metrics,
		TopK:         opts.TopK,
	}
}

// Hydrate replaces the in-memory state with the stores' contents. The undo
// log starts empty.
func (s *Session) Hydrate(ctx context.Context) error {
	start := time.Now()

	records, err := s.StudentStore.GetAll(ctx)
	if err != nil {
		return s.hydrateFailed("students", err)
	}
	entries, err := s.CourseStore.GetAll(ctx)
	if err != nil {
		return s.hydrateFailed("courses", err)
	}

	students := student.NewCollection()
	ranking := leaderboard.NewRanking()
	for _, r := range records {
		if err := students.Insert(r); err != nil {
			return s.hydrateFailed("students", fmt.Errorf("record %q: %w", r.ID, err))
		}
		ranking.Insert(r)
	}

	graph := course.NewGraph()
	for _, e := range entries {
		if err := graph.AddCourse(e.Name, e.Prerequisites); err != nil {
			return s.hydrateFailed("courses", fmt.Errorf("course %q: %w", e.Name, err))
		}
	}

	s.Students, s.Ranking, s.Courses = students, ranking, graph
	s.Undo = history.NewUndoLog()
	s.PublishState()

	s.Log.Info("session hydrated",
		logger.Int("students", students.Len()),
		logger.Int("courses", graph.Len()),
		logger.Latency(time.Since(start)),
	)
	return nil
}

func (s *Session) hydrateFailed(what string, err error) error {
	s.Log.Error("hydrate failed", logger.String("source", what), logger.Err(err))
	return shared.WrapError("session", "Hydrate", shared.ErrPersistence, "load "+what, err)
}

// PublishState pushes the current core sizes to metrics.
func (s *Session) PublishState() {
	s.Metrics.SetState(s.Students.Len(), s.Undo.Len(), s.Courses.Len())
}

// Observe logs the outcome of an operation and counts it. Expected domain
// outcomes log at Warn, store failures at Error.
func (s *Session) Observe(op string, err error, fields ...logger.Field) {
	status := Status(err)
	s.Metrics.RecordOperation(op, status)

	log := s.Log.With(logger.Operation(op))
	switch status {
	case metrics.StatusSuccess:
		log.Info(op+" succeeded", fields...)
	case metrics.StatusError:
		log.Error(op+" failed", append(fields, logger.Err(err))...)
	default:
		log.Warn(op+" rejected", append(fields, logger.Err(err))...)
	}
}

// Status maps an operation error to its metrics status label.
func Status(err error) string {
	switch {
	case err == nil:
		return metrics.StatusSuccess
	case shared.IsPersistence(err):
		return metrics.StatusError
	case shared.IsNotFound(err), errors.Is(err, shared.ErrNothingToUndo):
		return metrics.StatusNotFound
	case shared.IsValidation(err):
		return metrics.StatusInvalid
	case shared.IsAlreadyExists(err):
		return metrics.StatusConflict
	case shared.IsCyclicDependency(err):
		return metrics.StatusCycle
	default:
		return metrics.StatusError
	}
}
