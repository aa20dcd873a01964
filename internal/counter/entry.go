package counter

// Entry is one (key, count) fragment. Count covers occurrences attributed
// to this entry instance since it was created, not the key's full lifetime:
// eviction moves an entry out of the table with its count intact and the
// next admission of the same key starts a fresh entry at 1.
type Entry[K comparable] struct {
	Item  K
	Count uint64
}
