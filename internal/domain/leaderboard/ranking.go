// Package leaderboard ranks students by GPA.
//
// Ranking is a history of every record ever inserted, not a live view: it is
// not pruned when a student is deleted. Callers that need only live students
// filter with TopFunc.
package leaderboard

import (
	"container/heap"
	"slices"

	"github.com/alem-hub/student-records/internal/domain/student"
)

// DefaultTopK is the number of students shown when no size is requested.
const DefaultTopK = 5

// entry is one ranked insertion. seq orders equal GPAs by insertion.
type entry struct {
	record student.Record
	seq    uint64
}

// entryHeap is a max-heap on GPA with earlier insertion winning ties.
type entryHeap []entry

func (h entryHeap) Len() int      { return len(h) }
func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h entryHeap) Less(i, j int) bool {
	if h[i].record.GPA != h[j].record.GPA {
		return h[i].record.GPA > h[j].record.GPA
	}
	return h[i].seq < h[j].seq
}

func (h *entryHeap) Push(x any) { *h = append(*h, x.(entry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// Ranking produces the top students by GPA.
type Ranking struct {
	entries entryHeap
	next    uint64
}

// NewRanking returns an empty ranking.
func NewRanking() *Ranking {
	return &Ranking{}
}

// Insert records r as a candidate. It is O(log n).
func (r *Ranking) Insert(rec student.Record) {
	heap.Push(&r.entries, entry{record: rec, seq: r.next})
	r.next++
}

// Len returns the number of insertions.
func (r *Ranking) Len() int {
	return len(r.entries)
}

// Top returns at most k records ordered by GPA descending. Equal GPAs keep
// insertion order. k <= 0 yields an empty result. Top does not modify the
// ranking.
func (r *Ranking) Top(k int) []student.Record {
	return r.TopFunc(k, nil)
}

// TopFunc is like Top but only counts records accepted by keep. A nil keep
// accepts everything.
func (r *Ranking) TopFunc(k int, keep func(student.Record) bool) []student.Record {
	if k <= 0 || len(r.entries) == 0 {
		return []student.Record{}
	}

	// Pop from a copy so the ranking itself is untouched.
	snapshot := slices.Clone(r.entries)
	out := make([]student.Record, 0, min(k, len(snapshot)))
	for len(out) < k && snapshot.Len() > 0 {
		e := heap.Pop(&snapshot).(entry)
		if keep != nil && !keep(e.record) {
			continue
		}
		out = append(out, e.record)
	}
	return out
}
