package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/student-records/internal/domain/course"
)

// CourseStore implements course.Store on the courses table.
type CourseStore struct {
	db Querier
}

// NewCourseStore creates a CourseStore.
func NewCourseStore(db Querier) *CourseStore {
	return &CourseStore{db: db}
}

var (
	_ course.Store      = (*CourseStore)(nil)
	_ course.BatchStore = (*CourseStore)(nil)
)

type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Put replaces the prerequisite list of name.
func (s *CourseStore) Put(ctx context.Context, name string, prerequisites []string) error {
	encoded, err := course.EncodePrerequisites(prerequisites)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO courses (name, prerequisites)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET
			prerequisites = EXCLUDED.prerequisites,
			updated_at = NOW()
	`
	if _, err := s.db.Exec(ctx, query, name, encoded); err != nil {
		return storeError("put course "+name, err)
	}
	return nil
}

// PutBatch writes several courses in one round trip.
func (s *CourseStore) PutBatch(ctx context.Context, entries []course.Entry) error {
	batch := &pgx.Batch{}
	for _, e := range entries {
		encoded, err := course.EncodePrerequisites(e.Prerequisites)
		if err != nil {
			return err
		}
		batch.Queue(`
			INSERT INTO courses (name, prerequisites)
			VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET
				prerequisites = EXCLUDED.prerequisites,
				updated_at = NOW()
		`, e.Name, encoded)
	}

	sender, ok := s.db.(batchSender)
	if !ok {
		for _, e := range entries {
			if err := s.Put(ctx, e.Name, e.Prerequisites); err != nil {
				return err
			}
		}
		return nil
	}

	results := sender.SendBatch(ctx, batch)
	defer results.Close()
	for _, e := range entries {
		if _, err := results.Exec(); err != nil {
			return storeError("put course "+e.Name, err)
		}
	}
	return nil
}

// GetAll returns every course in insertion order.
func (s *CourseStore) GetAll(ctx context.Context) ([]course.Entry, error) {
	rows, err := s.db.Query(ctx, `SELECT name, prerequisites FROM courses ORDER BY seq`)
	if err != nil {
		return nil, storeError("list courses", err)
	}
	defer rows.Close()

	entries := make([]course.Entry, 0)
	for rows.Next() {
		e, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list courses", err)
	}

	return entries, nil
}

func scanCourse(row pgx.Row) (course.Entry, error) {
	var name, encoded string
	if err := row.Scan(&name, &encoded); err != nil {
		return course.Entry{}, fmt.Errorf("postgres: scan course: %w", err)
	}

	prereqs, err := course.DecodePrerequisites(encoded)
	if err != nil {
		return course.Entry{}, fmt.Errorf("postgres: course %q: %w", name, err)
	}
	return course.Entry{Name: name, Prerequisites: prereqs}, nil
}
