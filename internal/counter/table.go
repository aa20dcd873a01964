package counter

import "iter"

// Table is a fixed-shape, hash-routed frequency table: N buckets of
// associativity C, both sized once at construction. The table never grows;
// a full bucket evicts its minimum-count entry and hands it back to the
// caller to route into overflow storage. Add never allocates.
//
// Single owner; not safe for concurrent use.
type Table[K comparable] struct {
	buckets []bucket[K]
	hash    func(K) uint64
}

// NewTable builds a table of the given bucket count and associativity.
// Both must be >= 1; the hash function must be deterministic for the
// table's lifetime.
func NewTable[K comparable](buckets, associativity int, hash func(K) uint64) *Table[K] {
	t := &Table[K]{
		buckets: make([]bucket[K], buckets),
		hash:    hash,
	}
	for i := range t.buckets {
		t.buckets[i] = newBucket[K](associativity)
	}
	return t
}

// Add counts one occurrence of key, returning the entry the target bucket
// displaced when it had to evict.
func (t *Table[K]) Add(key K) (Entry[K], bool) {
	h := t.hash(key)
	return t.buckets[h%uint64(len(t.buckets))].add(key)
}

// Iter yields every resident entry in bucket order, slot order within each
// bucket. Restartable and read-only: two passes with no Add between them
// see the same entries.
func (t *Table[K]) Iter() iter.Seq[Entry[K]] {
	return func(yield func(Entry[K]) bool) {
		for i := range t.buckets {
			if !t.buckets[i].iter(yield) {
				return
			}
		}
	}
}

// Len reports the number of resident entries.
func (t *Table[K]) Len() int {
	n := 0
	for i := range t.buckets {
		n += t.buckets[i].length
	}
	return n
}
