package command

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/student-records/internal/application/session"
	"github.com/alem-hub/student-records/internal/domain/course"
	"github.com/alem-hub/student-records/internal/domain/shared"
	"github.com/alem-hub/student-records/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// IMPORT CATALOG COMMAND
// Adds every course of a catalog. All names are validated before the graph is
// touched, so an invalid catalog changes nothing.
// ══════════════════════════════════════════════════════════════════════════════

// ImportCatalogCommand carries the courses to add, in order.
type ImportCatalogCommand struct {
	Courses []course.Entry
}

// Validate checks every course and prerequisite name.
func (c ImportCatalogCommand) Validate() error {
	for _, e := range c.Courses {
		if err := course.ValidateName(e.Name); err != nil {
			return err
		}
		for _, p := range e.Prerequisites {
			if err := course.ValidateName(p); err != nil {
				return fmt.Errorf("prerequisite of %q: %w", e.Name, err)
			}
		}
	}
	return nil
}

// ImportCatalogResult is returned on success.
type ImportCatalogResult struct {
	Imported int
}

// ImportCatalogHandler handles ImportCatalogCommand.
type ImportCatalogHandler struct {
	session *session.Session
}

// NewImportCatalogHandler creates a new ImportCatalogHandler.
func NewImportCatalogHandler(s *session.Session) *ImportCatalogHandler {
	return &ImportCatalogHandler{session: s}
}

// Handle executes the command. Stores that implement course.BatchStore
// receive the whole catalog in one call.
func (h *ImportCatalogHandler) Handle(ctx context.Context, cmd ImportCatalogCommand) (result *ImportCatalogResult, err error) {
	const op = "import_catalog"
	defer func() { h.session.Observe(op, err, logger.Count(len(cmd.Courses))) }()

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	for _, e := range cmd.Courses {
		if err := h.session.Courses.AddCourse(e.Name, e.Prerequisites); err != nil {
			return nil, err
		}
	}
	h.session.PublishState()

	start := time.Now()
	err = h.persist(ctx, cmd.Courses)
	h.session.Metrics.ObserveStore(op, time.Since(start))
	if err != nil {
		return nil, shared.WrapError("course", op, shared.ErrPersistence, "store catalog", err)
	}

	return &ImportCatalogResult{Imported: len(cmd.Courses)}, nil
}

func (h *ImportCatalogHandler) persist(ctx context.Context, entries []course.Entry) error {
	if batch, ok := h.session.CourseStore.(course.BatchStore); ok {
		return batch.PutBatch(ctx, entries)
	}
	for _, e := range entries {
		if err := h.session.CourseStore.Put(ctx, e.Name, e.Prerequisites); err != nil {
			return err
		}
	}
	return nil
}
