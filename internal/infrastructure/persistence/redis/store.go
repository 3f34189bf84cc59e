package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/alem-hub/student-records/internal/domain/course"
	"github.com/alem-hub/student-records/internal/domain/student"
)

// ─────────────────────────────────────────────────────────────────────────────
// Students
// ─────────────────────────────────────────────────────────────────────────────

// StudentStore implements student.Store.
type StudentStore struct {
	rdb  *redis.Client
	keys Keys
}

var _ student.Store = (*StudentStore)(nil)

// Put upserts r. ZADD NX keeps the original position of an existing ID.
func (s *StudentStore) Put(ctx context.Context, r student.Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	seq, err := s.rdb.Incr(ctx, s.keys.StudentSeq()).Result()
	if err != nil {
		return fmt.Errorf("redis: put student %s: %w", r.ID, err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.keys.Students(), r.ID, data)
		pipe.ZAddNX(ctx, s.keys.StudentOrder(), redis.Z{Score: float64(seq), Member: r.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: put student %s: %w", r.ID, err)
	}
	return nil
}

// Delete removes id from the hash and the order set.
func (s *StudentStore) Delete(ctx context.Context, id string) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, s.keys.Students(), id)
		pipe.ZRem(ctx, s.keys.StudentOrder(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: delete student %s: %w", id, err)
	}
	return nil
}

// GetAll returns every record in first-insertion order.
func (s *StudentStore) GetAll(ctx context.Context) ([]student.Record, error) {
	ids, err := s.rdb.ZRange(ctx, s.keys.StudentOrder(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list students: %w", err)
	}

	records := make([]student.Record, 0, len(ids))
	if len(ids) == 0 {
		return records, nil
	}

	values, err := s.rdb.HMGet(ctx, s.keys.Students(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list students: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Order entry without a record; skipped until the next Delete cleans it.
			continue
		}
		r, err := decodeRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("redis: stored student %q: %w", ids[i], err)
		}
		records = append(records, r)
	}

	return records, nil
}

func decodeRecord(raw string) (student.Record, error) {
	var r student.Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return student.Record{}, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if err := r.Validate(); err != nil {
		return student.Record{}, err
	}
	return r, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Courses
// ─────────────────────────────────────────────────────────────────────────────

// CourseStore implements course.Store.
type CourseStore struct {
	rdb  *redis.Client
	keys Keys
}

var (
	_ course.Store      = (*CourseStore)(nil)
	_ course.BatchStore = (*CourseStore)(nil)
)

// Put replaces the prerequisites of name.
func (s *CourseStore) Put(ctx context.Context, name string, prerequisites []string) error {
	encoded, err := course.EncodePrerequisites(prerequisites)
	if err != nil {
		return err
	}
	if err := s.rdb.HSet(ctx, s.keys.Courses(), name, encoded).Err(); err != nil {
		return fmt.Errorf("redis: put course %s: %w", name, err)
	}
	return nil
}

// PutBatch writes all entries with a single HSET.
func (s *CourseStore) PutBatch(ctx context.Context, entries []course.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	fields := make(map[string]any, len(entries))
	for _, e := range entries {
		encoded, err := course.EncodePrerequisites(e.Prerequisites)
		if err != nil {
			return err
		}
		fields[e.Name] = encoded
	}

	if err := s.rdb.HSet(ctx, s.keys.Courses(), fields).Err(); err != nil {
		return fmt.Errorf("redis: put courses: %w", err)
	}
	return nil
}

// GetAll returns every course sorted by name. Hashes carry no insertion order.
func (s *CourseStore) GetAll(ctx context.Context) ([]course.Entry, error) {
	all, err := s.rdb.HGetAll(ctx, s.keys.Courses()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list courses: %w", err)
	}

	return decodeCourses(all)
}

func decodeCourses(all map[string]string) ([]course.Entry, error) {
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]course.Entry, 0, len(names))
	for _, name := range names {
		prereqs, err := course.DecodePrerequisites(all[name])
		if err != nil {
			return nil, fmt.Errorf("redis: course %q: %w", name, err)
		}
		entries = append(entries, course.Entry{Name: name, Prerequisites: prereqs})
	}
	return entries, nil
}
