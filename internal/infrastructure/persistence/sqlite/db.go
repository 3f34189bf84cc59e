// Package sqlite stores student records and course prerequisites in an
// embedded SQLite database. It is the default store.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed schema/0001_init.sql
var schema string

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// DB wraps the database handle shared by the student and course stores.
type DB struct {
	*sql.DB
}

// Open opens the database at dsn and applies the schema.
// DSN is a file path, "file:path?..." URI or ":memory:".
func Open(ctx context.Context, dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	wrapped := &DB{DB: db}
	if err := wrapped.init(ctx, isMemory(dsn)); err != nil {
		db.Close()
		return nil, err
	}

	return wrapped, nil
}

func isMemory(dsn string) bool {
	return dsn == MemoryDSN || strings.Contains(dsn, "mode=memory")
}

func (db *DB) init(ctx context.Context, memory bool) error {
	if memory {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			return fmt.Errorf("enabling WAL: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		return fmt.Errorf("setting busy timeout: %w", err)
	}

	return db.Migrate(ctx)
}

// Migrate applies the embedded schema. It is idempotent. A courses table in
// the older layout (course_name, prerequisites) is rebuilt with its rows kept
// in their original order.
func (db *DB) Migrate(ctx context.Context) error {
	legacy, err := db.hasColumn(ctx, "courses", "course_name")
	if err != nil {
		return fmt.Errorf("inspecting courses table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("running SQLite migrations: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if legacy {
		if _, err := tx.ExecContext(ctx, `ALTER TABLE courses RENAME TO courses_legacy`); err != nil {
			return fmt.Errorf("renaming legacy courses table: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("running SQLite migrations: %w", err)
	}
	if legacy {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO courses (name, prerequisites)
			SELECT course_name, COALESCE(prerequisites, '')
			FROM courses_legacy
			ORDER BY rowid`); err != nil {
			return fmt.Errorf("copying legacy courses: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DROP TABLE courses_legacy`); err != nil {
			return fmt.Errorf("dropping legacy courses table: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("running SQLite migrations: %w", err)
	}
	return nil
}

// hasColumn reports whether table exists and has column.
func (db *DB) hasColumn(ctx context.Context, table, column string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Students returns the record store backed by this database.
func (db *DB) Students() *StudentStore {
	return &StudentStore{db: db.DB}
}

// Courses returns the course store backed by this database.
func (db *DB) Courses() *CourseStore {
	return &CourseStore{db: db.DB}
}
