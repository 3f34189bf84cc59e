package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/alem-hub/student-records/internal/domain/course"
	"github.com/alem-hub/student-records/internal/domain/student"
)

const (
	studentPrefix = "student/"
	coursePrefix  = "course/"
	studentSeqKey = "meta/student-seq"
)

func studentKey(id string) []byte { return []byte(studentPrefix + id) }

func courseKey(name string) []byte { return []byte(coursePrefix + name) }

// storedRecord is the value written under student/<id>.
type storedRecord struct {
	Seq    uint64         `json:"seq"`
	Record student.Record `json:"record"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Students
// ─────────────────────────────────────────────────────────────────────────────

// StudentStore implements student.Store.
type StudentStore struct {
	db *badger.DB
}

var _ student.Store = (*StudentStore)(nil)

// Put upserts r. An existing key keeps its sequence number.
func (s *StudentStore) Put(ctx context.Context, r student.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		seq, err := existingSeq(txn, r.ID)
		if err != nil {
			return err
		}
		if seq == 0 {
			if seq, err = nextSeq(txn); err != nil {
				return err
			}
		}

		data, err := json.Marshal(storedRecord{Seq: seq, Record: r})
		if err != nil {
			return err
		}
		return txn.Set(studentKey(r.ID), data)
	})
	if err != nil {
		return fmt.Errorf("badger: put student %s: %w", r.ID, err)
	}
	return nil
}

func existingSeq(txn *badger.Txn, id string) (uint64, error) {
	item, err := txn.Get(studentKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var stored storedRecord
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &stored)
	}); err != nil {
		return 0, err
	}
	return stored.Seq, nil
}

func nextSeq(txn *badger.Txn) (uint64, error) {
	var seq uint64
	item, err := txn.Get([]byte(studentSeqKey))
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return 0, err
	default:
		if err := item.Value(func(val []byte) error {
			seq = binary.BigEndian.Uint64(val)
			return nil
		}); err != nil {
			return 0, err
		}
	}

	seq++
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	if err := txn.Set([]byte(studentSeqKey), buf); err != nil {
		return 0, err
	}
	return seq, nil
}

// Delete removes id. A missing id is not an error.
func (s *StudentStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(studentKey(id))
	})
	if err != nil {
		return fmt.Errorf("badger: delete student %s: %w", id, err)
	}
	return nil
}

// GetAll returns every record in first-insertion order.
func (s *StudentStore) GetAll(ctx context.Context) ([]student.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var stored []storedRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(studentPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var sr storedRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &sr)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", item.Key(), err)
			}
			if err := sr.Record.Validate(); err != nil {
				return fmt.Errorf("stored student %q: %w", strings.TrimPrefix(string(item.Key()), studentPrefix), err)
			}
			stored = append(stored, sr)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger: list students: %w", err)
	}

	sort.Slice(stored, func(i, j int) bool { return stored[i].Seq < stored[j].Seq })

	records := make([]student.Record, 0, len(stored))
	for _, sr := range stored {
		records = append(records, sr.Record)
	}
	return records, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Courses
// ─────────────────────────────────────────────────────────────────────────────

// CourseStore implements course.Store.
type CourseStore struct {
	db *badger.DB
}

var (
	_ course.Store      = (*CourseStore)(nil)
	_ course.BatchStore = (*CourseStore)(nil)
)

// Put replaces the prerequisites of name.
func (s *CourseStore) Put(ctx context.Context, name string, prerequisites []string) error {
	return s.PutBatch(ctx, []course.Entry{{Name: name, Prerequisites: prerequisites}})
}

// PutBatch writes all entries in one transaction.
func (s *CourseStore) PutBatch(ctx context.Context, entries []course.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		for _, e := range entries {
			encoded, err := course.EncodePrerequisites(e.Prerequisites)
			if err != nil {
				return err
			}
			if err := txn.Set(courseKey(e.Name), []byte(encoded)); err != nil {
				return fmt.Errorf("put course %s: %w", e.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("badger: %w", err)
	}
	return nil
}

// GetAll returns every course ordered by name.
func (s *CourseStore) GetAll(ctx context.Context) ([]course.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := make([]course.Entry, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(coursePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			name := strings.TrimPrefix(string(item.Key()), coursePrefix)

			var prereqs []string
			if err := item.Value(func(val []byte) error {
				var err error
				prereqs, err = course.DecodePrerequisites(string(val))
				return err
			}); err != nil {
				return fmt.Errorf("course %q: %w", name, err)
			}
			entries = append(entries, course.Entry{Name: name, Prerequisites: prereqs})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger: list courses: %w", err)
	}
	return entries, nil
}
