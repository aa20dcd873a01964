package counter

// bucket is a fixed-associativity slot group. Occupied slots live in
// entries[:length] and hold pairwise-distinct keys.
type bucket[K comparable] struct {
	entries []Entry[K]
	length  int
}

func newBucket[K comparable](associativity int) bucket[K] {
	return bucket[K]{entries: make([]Entry[K], associativity)}
}

// add counts one occurrence of key. When the bucket is full and key is not
// resident, the occupied slot holding the smallest count (leftmost on ties)
// is replaced with a fresh (key, 1) entry and the displaced entry is
// returned by value, its accumulated count intact.
func (b *bucket[K]) add(key K) (Entry[K], bool) {
	for i := 0; i < b.length; i++ {
		if b.entries[i].Item == key {
			b.entries[i].Count++
			return Entry[K]{}, false
		}
	}
	if b.length < len(b.entries) {
		b.entries[b.length] = Entry[K]{Item: key, Count: 1}
		b.length++
		return Entry[K]{}, false
	}
	minIdx := 0
	for i := 1; i < b.length; i++ {
		if b.entries[i].Count < b.entries[minIdx].Count {
			minIdx = i
		}
	}
	evicted := b.entries[minIdx]
	b.entries[minIdx] = Entry[K]{Item: key, Count: 1}
	return evicted, true
}

// iter yields the occupied prefix in slot order. Returns false when the
// consumer stopped early.
func (b *bucket[K]) iter(yield func(Entry[K]) bool) bool {
	for i := 0; i < b.length; i++ {
		if !yield(b.entries[i]) {
			return false
		}
	}
	return true
}
