package query

import (
	"context"

	"github.com/alem-hub/student-records/internal/application/session"
	"github.com/alem-hub/student-records/internal/domain/shared"
	"github.com/alem-hub/student-records/internal/domain/student"
	"github.com/alem-hub/student-records/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// TOP STUDENTS QUERY
// The ranking keeps every record it was given, including deleted ones. Only
// entries that match a live record field-for-field are reported, each ID once.
// ══════════════════════════════════════════════════════════════════════════════

// TopStudentsQuery asks for the K best students by GPA.
type TopStudentsQuery struct {
	// K is the number of students; 0 uses the session default.
	K int
}

// Validate checks the query parameters.
func (q TopStudentsQuery) Validate() error {
	if q.K < 0 {
		return shared.NewDomainError("leaderboard", "top_students", shared.ErrValueOutOfRange, "k cannot be negative")
	}
	return nil
}

// RankedStudent is one row of the result.
type RankedStudent struct {
	// Rank starts at 1.
	Rank   int            `json:"rank"`
	Record student.Record `json:"record"`
}

// TopStudentsHandler handles TopStudentsQuery.
type TopStudentsHandler struct {
	session *session.Session
}

// NewTopStudentsHandler creates a new TopStudentsHandler.
func NewTopStudentsHandler(s *session.Session) *TopStudentsHandler {
	return &TopStudentsHandler{session: s}
}

// Handle returns at most K live students, GPA descending, ties in insertion
// order.
func (h *TopStudentsHandler) Handle(_ context.Context, q TopStudentsQuery) (result []RankedStudent, err error) {
	const op = "top_students"
	defer func() { h.session.Observe(op, err, logger.Count(len(result))) }()

	if err := q.Validate(); err != nil {
		return nil, err
	}
	k := q.K
	if k == 0 {
		k = h.session.TopK
	}

	seen := make(map[string]bool)
	top := h.session.Ranking.TopFunc(k, func(r student.Record) bool {
		live, ok := h.session.Students.Find(r.ID)
		if !ok || live != r || seen[r.ID] {
			return false
		}
		seen[r.ID] = true
		return true
	})

	result = make([]RankedStudent, len(top))
	for i, r := range top {
		result[i] = RankedStudent{Rank: i + 1, Record: r}
	}
	return result, nil
}
