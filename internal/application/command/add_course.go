package command

import (
	"context"
	"strings"
	"time"

	"github.com/alem-hub/student-records/internal/application/session"
	"github.com/alem-hub/student-records/internal/domain/shared"
	"github.com/alem-hub/student-records/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD COURSE COMMAND
// Sets the prerequisites of a course, replacing any earlier list.
// ══════════════════════════════════════════════════════════════════════════════

// AddCourseCommand describes one course.
type AddCourseCommand struct {
	Name          string
	Prerequisites []string
}

// AddCourseHandler handles AddCourseCommand.
type AddCourseHandler struct {
	session *session.Session
}

// NewAddCourseHandler creates a new AddCourseHandler.
func NewAddCourseHandler(s *session.Session) *AddCourseHandler {
	return &AddCourseHandler{session: s}
}

// Handle executes the command.
func (h *AddCourseHandler) Handle(ctx context.Context, cmd AddCourseCommand) (err error) {
	const op = "add_course"
	name := strings.TrimSpace(cmd.Name)
	prereqs := make([]string, 0, len(cmd.Prerequisites))
	for _, p := range cmd.Prerequisites {
		prereqs = append(prereqs, strings.TrimSpace(p))
	}
	defer func() {
		h.session.Observe(op, err, logger.CourseName(name), logger.Count(len(prereqs)))
	}()

	if err := h.session.Courses.AddCourse(name, prereqs); err != nil {
		return err
	}
	h.session.PublishState()

	start := time.Now()
	err = h.session.CourseStore.Put(ctx, name, prereqs)
	h.session.Metrics.ObserveStore(op, time.Since(start))
	if err != nil {
		return shared.WrapError("course", op, shared.ErrPersistence, "store put "+name, err)
	}
	return nil
}
