package repositories

import (
	"sort"
	"sync"
)

// memoryTable is an insertion-ordered, mutex-guarded record map shared by the
// in-memory repositories. unique maps an index name to a key extractor.
type memoryTable[T any] struct {
	mu      sync.RWMutex
	records map[string]memoryRow[T]
	seq     uint64
	unique  map[string]func(T) string
}

type memoryRow[T any] struct {
	value T
	seq   uint64
}

func newMemoryTable[T any](unique map[string]func(T) string) *memoryTable[T] {
	return &memoryTable[T]{
		records: make(map[string]memoryRow[T]),
		unique:  unique,
	}
}

// newestFirst returns all rows ordered by insertion, most recent first.
// Callers must hold the read lock.
func (t *memoryTable[T]) newestFirst() []T {
	rows := make([]memoryRow[T], 0, len(t.records))
	for _, row := range t.records {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.value)
	}
	return out
}

// conflict reports the name of the first unique index that value would
// violate, ignoring the record stored under skipID. Callers must hold a lock.
func (t *memoryTable[T]) conflict(value T, skipID string) (string, bool) {
	for index, key := range t.unique {
		want := key(value)
		for id, row := range t.records {
			if id != skipID && key(row.value) == want {
				return index, true
			}
		}
	}
	return "", false
}

// find returns the first record matching pred. Callers must hold a lock.
func (t *memoryTable[T]) find(pred func(T) bool) (T, bool) {
	for _, row := range t.records {
		if pred(row.value) {
			return row.value, true
		}
	}
	var zero T
	return zero, false
}
