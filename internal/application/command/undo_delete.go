package command

import (
	"context"

	"github.com/alem-hub/student-records/internal/application/session"
	"github.com/alem-hub/student-records/internal/domain/shared"
	"github.com/alem-hub/student-records/internal/domain/student"
	"github.com/alem-hub/student-records/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNDO DELETE COMMAND
// Re-inserts the most recently deleted record. If its ID has been reused since
// the deletion, the undo is refused and the entry stays on the log.
// ══════════════════════════════════════════════════════════════════════════════

// UndoDeleteCommand has no parameters; the undo log is a single LIFO.
type UndoDeleteCommand struct{}

// UndoDeleteResult is returned on success.
type UndoDeleteResult struct {
	// Record is the restored record, field-for-field equal to the deleted one.
	Record student.Record

	// EntryID is the undo log entry that was consumed.
	EntryID string
}

// UndoDeleteHandler handles UndoDeleteCommand.
type UndoDeleteHandler struct {
	session *session.Session
}

// NewUndoDeleteHandler creates a new UndoDeleteHandler.
func NewUndoDeleteHandler(s *session.Session) *UndoDeleteHandler {
	return &UndoDeleteHandler{session: s}
}

// Handle executes the command.
func (h *UndoDeleteHandler) Handle(ctx context.Context, _ UndoDeleteCommand) (result *UndoDeleteResult, err error) {
	const op = "undo_delete"
	var restored student.Record
	defer func() { h.session.Observe(op, err, logger.StudentID(restored.ID), logger.GPA(restored.GPA)) }()

	entry, ok := h.session.Undo.Pop()
	if !ok {
		return nil, shared.NewDomainError("history", op, shared.ErrNothingToUndo, "undo log is empty")
	}
	restored = entry.Record
	id := restored.ID

	if err := h.session.Students.Insert(entry.Record); err != nil {
		h.session.Undo.Push(entry)
		return nil, shared.WrapError("history", op, shared.ErrAlreadyExists,
			"student "+id+" was added again after it was deleted", err)
	}
	// The ranking kept its entry for this record; it is live again.
	h.session.PublishState()

	if err := putStudent(ctx, h.session, op, entry.Record); err != nil {
		return nil, err
	}

	return &UndoDeleteResult{Record: entry.Record, EntryID: entry.ID}, nil
}
