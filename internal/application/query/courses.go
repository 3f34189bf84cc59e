package query

import (
	"context"
	"strings"

	"github.com/alem-hub/student-records/internal/application/session"
	"github.com/alem-hub/student-records/internal/domain/course"
	"github.com/alem-hub/student-records/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECOMMEND PATH QUERY
// ══════════════════════════════════════════════════════════════════════════════

// RecommendPathQuery asks for the courses to take before Course.
type RecommendPathQuery struct {
	Course string
}

// RecommendPathHandler handles RecommendPathQuery.
type RecommendPathHandler struct {
	session *session.Session
}

// NewRecommendPathHandler creates a new RecommendPathHandler.
func NewRecommendPathHandler(s *session.Session) *RecommendPathHandler {
	return &RecommendPathHandler{session: s}
}

// Handle returns every transitive prerequisite before the courses that need
// it, ending with the course itself. An unknown course yields an empty path.
// A cycle yields a *course.CycleError.
func (h *RecommendPathHandler) Handle(_ context.Context, q RecommendPathQuery) (path []string, err error) {
	const op = "recommend_path"
	name := strings.TrimSpace(q.Course)
	defer func() { h.session.Observe(op, err, logger.CourseName(name), logger.Count(len(path))) }()

	return h.session.Courses.RecommendPath(name)
}

// ══════════════════════════════════════════════════════════════════════════════
// LIST COURSES QUERY
// ══════════════════════════════════════════════════════════════════════════════

// ListCoursesQuery returns every known course with its prerequisites.
type ListCoursesQuery struct{}

// ListCoursesHandler handles ListCoursesQuery.
type ListCoursesHandler struct {
	session *session.Session
}

// NewListCoursesHandler creates a new ListCoursesHandler.
func NewListCoursesHandler(s *session.Session) *ListCoursesHandler {
	return &ListCoursesHandler{session: s}
}

// Handle returns the courses sorted by name.
func (h *ListCoursesHandler) Handle(_ context.Context, _ ListCoursesQuery) ([]course.Entry, error) {
	names := h.session.Courses.Courses()
	entries := make([]course.Entry, 0, len(names))
	for _, name := range names {
		prereqs, _ := h.session.Courses.Prerequisites(name)
		entries = append(entries, course.Entry{Name: name, Prerequisites: prereqs})
	}
	h.session.Observe("list_courses", nil, logger.Count(len(entries)))
	return entries, nil
}
