package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alem-hub/student-records/internal/domain/course"
	"github.com/alem-hub/student-records/internal/domain/student"
)

// ─────────────────────────────────────────────────────────────────────────────
// Students
// ─────────────────────────────────────────────────────────────────────────────

// StudentStore implements student.Store.
type StudentStore struct {
	db *sql.DB
}

var _ student.Store = (*StudentStore)(nil)

// Put upserts r, keeping the row's original seq.
func (s *StudentStore) Put(ctx context.Context, r student.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO students (id, name, course, year, gpa)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			course = excluded.course,
			year = excluded.year,
			gpa = excluded.gpa,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		r.ID, r.Name, r.Course, r.Year, r.GPA)
	if err != nil {
		return fmt.Errorf("sqlite: put student %s: %w", r.ID, err)
	}
	return nil
}

// Delete removes id. A missing id is not an error.
func (s *StudentStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: delete student %s: %w", id, err)
	}
	return nil
}

// GetAll returns every record in first-insertion order.
func (s *StudentStore) GetAll(ctx context.Context) ([]student.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, course, year, gpa FROM students ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list students: %w", err)
	}
	defer rows.Close()

	records := make([]student.Record, 0)
	values := make([]any, student.RowArity)
	dest := make([]any, len(values))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("sqlite: scan student: %w", err)
		}
		r, err := student.FromRow(values)
		if err != nil {
			return nil, fmt.Errorf("sqlite: stored student %v: %w", values[0], err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list students: %w", err)
	}
	return records, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Courses
// ─────────────────────────────────────────────────────────────────────────────

// CourseStore implements course.Store.
type CourseStore struct {
	db *sql.DB
}

var (
	_ course.Store      = (*CourseStore)(nil)
	_ course.BatchStore = (*CourseStore)(nil)
)

const upsertCourse = `
	INSERT INTO courses (name, prerequisites)
	VALUES (?, ?)
	ON CONFLICT(name) DO UPDATE SET
		prerequisites = excluded.prerequisites,
		updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`

// Put replaces the prerequisites of name.
func (s *CourseStore) Put(ctx context.Context, name string, prerequisites []string) error {
	encoded, err := course.EncodePrerequisites(prerequisites)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, upsertCourse, name, encoded); err != nil {
		return fmt.Errorf("sqlite: put course %s: %w", name, err)
	}
	return nil
}

// PutBatch writes all entries in a single transaction.
func (s *CourseStore) PutBatch(ctx context.Context, entries []course.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, upsertCourse)
	if err != nil {
		return fmt.Errorf("sqlite: prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		encoded, err := course.EncodePrerequisites(e.Prerequisites)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, e.Name, encoded); err != nil {
			return fmt.Errorf("sqlite: put course %s: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// GetAll returns every course in insertion order.
func (s *CourseStore) GetAll(ctx context.Context) ([]course.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, prerequisites FROM courses ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list courses: %w", err)
	}
	defer rows.Close()

	entries := make([]course.Entry, 0)
	for rows.Next() {
		var name, encoded string
		if err := rows.Scan(&name, &encoded); err != nil {
			return nil, fmt.Errorf("sqlite: scan course: %w", err)
		}
		prereqs, err := course.DecodePrerequisites(encoded)
		if err != nil {
			return nil, fmt.Errorf("sqlite: course %q: %w", name, err)
		}
		entries = append(entries, course.Entry{Name: name, Prerequisites: prereqs})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list courses: %w", err)
	}
	return entries, nil
}
