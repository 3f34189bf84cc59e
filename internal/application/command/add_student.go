// Package command contains the write operations. Each command updates the
// in-memory cores first and then persists; a store failure is returned as a
// persistence error and the in-memory change is kept.
package command

import (
	"context"
	"time"

	"github.com/alem-hub/student-records/internal/application/session"
	"github.com/alem-hub/student-records/internal/domain/shared"
	"github.com/alem-hub/student-records/internal/domain/student"
	"github.com/alem-hub/student-records/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD STUDENT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// AddStudentCommand contains the fields of a new student record.
type AddStudentCommand struct {
	ID     string
	Name   string
	Course string
	Year   int
	GPA    float64
}

// Record validates the command and builds the record it describes.
func (c AddStudentCommand) Record() (student.Record, error) {
	return student.NewRecord(c.ID, c.Name, c.Course, c.Year, c.GPA)
}

// AddStudentResult is returned on success.
type AddStudentResult struct {
	Record student.Record
}

// AddStudentHandler inserts a student into the collection and the ranking.
type AddStudentHandler struct {
	session *session.Session
}

// NewAddStudentHandler creates a new AddStudentHandler.
func NewAddStudentHandler(s *session.Session) *AddStudentHandler {
	return &AddStudentHandler{session: s}
}

// Handle executes the command.
func (h *AddStudentHandler) Handle(ctx context.Context, cmd AddStudentCommand) (result *AddStudentResult, err error) {
	const op = "add_student"
	defer func() { h.session.Observe(op, err, logger.StudentID(cmd.ID), logger.GPA(cmd.GPA)) }()

	r, err := cmd.Record()
	if err != nil {
		return nil, err
	}

	if err := h.session.Students.Insert(r); err != nil {
		return nil, err
	}
	h.session.Ranking.Insert(r)
	h.session.PublishState()

	if err := putStudent(ctx, h.session, op, r); err != nil {
		return nil, err
	}

	return &AddStudentResult{Record: r}, nil
}

// putStudent persists r and times the call.
func putStudent(ctx context.Context, s *session.Session, op string, r student.Record) error {
	start := time.Now()
	err := s.StudentStore.Put(ctx, r)
	s.Metrics.ObserveStore(op, time.Since(start))
	if err != nil {
		return shared.WrapError("student", op, shared.ErrPersistence, "store put "+r.ID, err)
	}
	return nil
}
