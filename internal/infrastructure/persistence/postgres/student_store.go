package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/student-records/internal/domain/student"
)

// StudentStore implements student.Store on the students table.
type StudentStore struct {
	db Querier
}

// NewStudentStore creates a StudentStore.
func NewStudentStore(db Querier) *StudentStore {
	return &StudentStore{db: db}
}

var _ student.Store = (*StudentStore)(nil)

// Put upserts r. The row keeps the sequence number of its first insert.
func (s *StudentStore) Put(ctx context.Context, r student.Record) error {
	query := `
		INSERT INTO students (id, name, course, year, gpa)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			course = EXCLUDED.course,
			year = EXCLUDED.year,
			gpa = EXCLUDED.gpa,
			updated_at = NOW()
	`

	if _, err := s.db.Exec(ctx, query, r.ID, r.Name, r.Course, r.Year, r.GPA); err != nil {
		return storeError("put student "+r.ID, err)
	}
	return nil
}

// Delete removes the row for id. Deleting a missing id is not an error.
func (s *StudentStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return storeError("delete student "+id, err)
	}
	return nil
}

// GetAll returns every record in insertion order.
func (s *StudentStore) GetAll(ctx context.Context) ([]student.Record, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, course, year, gpa FROM students ORDER BY seq`)
	if err != nil {
		return nil, storeError("list students", err)
	}
	defer rows.Close()

	records := make([]student.Record, 0)
	for rows.Next() {
		r, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list students", err)
	}

	return records, nil
}

// scanStudent reads one row through student.FromRow so a corrupted table
// cannot feed invalid records into the session.
func scanStudent(row pgx.Row) (student.Record, error) {
	values := make([]any, student.RowArity)
	dest := make([]any, len(values))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := row.Scan(dest...); err != nil {
		return student.Record{}, fmt.Errorf("postgres: scan student: %w", err)
	}

	r, err := student.FromRow(values)
	if err != nil {
		return student.Record{}, fmt.Errorf("postgres: stored student %v: %w", values[0], err)
	}
	return r, nil
}
