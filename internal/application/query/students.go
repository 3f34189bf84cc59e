// Package query contains read operations. Queries never modify the session.
package query

import (
	"context"
	"slices"
	"strings"

	"github.com/alem-hub/student-records/internal/application/session"
	"github.com/alem-hub/student-records/internal/domain/shared"
	"github.com/alem-hub/student-records/internal/domain/student"
	"github.com/alem-hub/student-records/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// FIND STUDENT QUERY
// ══════════════════════════════════════════════════════════════════════════════

// FindStudentQuery looks up one live record.
type FindStudentQuery struct {
	ID string
}

// FindStudentHandler handles FindStudentQuery.
type FindStudentHandler struct {
	session *session.Session
}

// NewFindStudentHandler creates a new FindStudentHandler.
func NewFindStudentHandler(s *session.Session) *FindStudentHandler {
	return &FindStudentHandler{session: s}
}

// Handle returns the record or a not-found error.
func (h *FindStudentHandler) Handle(_ context.Context, q FindStudentQuery) (r student.Record, err error) {
	const op = "find_student"
	id := strings.TrimSpace(q.ID)
	defer func() { h.session.Observe(op, err, logger.StudentID(id)) }()

	r, ok := h.session.Students.Find(id)
	if !ok {
		return student.Record{}, shared.WrapError("student", op, shared.ErrNotFound, "no student with ID "+id, shared.ErrStudentNotFound)
	}
	return r, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LIST STUDENTS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// ListStudentsQuery returns every live record in insertion order.
type ListStudentsQuery struct{}

// ListStudentsHandler handles ListStudentsQuery.
type ListStudentsHandler struct {
	session *session.Session
}

// NewListStudentsHandler creates a new ListStudentsHandler.
func NewListStudentsHandler(s *session.Session) *ListStudentsHandler {
	return &ListStudentsHandler{session: s}
}

// Handle returns a copy of the collection; never nil.
func (h *ListStudentsHandler) Handle(_ context.Context, _ ListStudentsQuery) ([]student.Record, error) {
	records := slices.Collect(h.session.Students.All())
	if records == nil {
		records = []student.Record{}
	}
	h.session.Observe("list_students", nil, logger.Count(len(records)))
	return records, nil
}
