package command

import (
	"context"
	"strings"
	"time"

	"github.com/alem-hub/student-records/internal/application/session"
	"github.com/alem-hub/student-records/internal/domain/history"
	"github.com/alem-hub/student-records/internal/domain/shared"
	"github.com/alem-hub/student-records/internal/domain/student"
	"github.com/alem-hub/student-records/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DELETE STUDENT COMMAND
// Removes a live record and records it on the undo log. The ranking is left
// alone; queries skip entries that are no longer live.
// ══════════════════════════════════════════════════════════════════════════════

// DeleteStudentCommand names the record to delete.
type DeleteStudentCommand struct {
	ID string
}

// DeleteStudentResult is returned on success.
type DeleteStudentResult struct {
	// Record is the deleted record.
	Record student.Record

	// UndoEntryID identifies the undo log entry that can restore it.
	UndoEntryID string
}

// DeleteStudentHandler handles DeleteStudentCommand.
type DeleteStudentHandler struct {
	session *session.Session
}

// NewDeleteStudentHandler creates a new DeleteStudentHandler.
func NewDeleteStudentHandler(s *session.Session) *DeleteStudentHandler {
	return &DeleteStudentHandler{session: s}
}

// Handle executes the command.
func (h *DeleteStudentHandler) Handle(ctx context.Context, cmd DeleteStudentCommand) (result *DeleteStudentResult, err error) {
	const op = "delete_student"
	id := strings.TrimSpace(cmd.ID)
	defer func() { h.session.Observe(op, err, logger.StudentID(id)) }()

	removed, ok := h.session.Students.Delete(id)
	if !ok {
		return nil, shared.WrapError("student", op, shared.ErrNotFound, "no student with ID "+id, shared.ErrStudentNotFound)
	}

	entry := history.NewDeleteEntry(removed)
	h.session.Undo.Push(entry)
	h.session.PublishState()

	start := time.Now()
	err = h.session.StudentStore.Delete(ctx, id)
	h.session.Metrics.ObserveStore(op, time.Since(start))
	if err != nil {
		return nil, shared.WrapError("student", op, shared.ErrPersistence, "store delete "+id, err)
	}

	return &DeleteStudentResult{Record: removed, UndoEntryID: entry.ID}, nil
}
