// Package stackfreq counts occurrences of hot keys in bounded memory. A
// fixed hash table absorbs the frequent keys on the sampling path; anything
// a full bucket evicts spills into an append-only, file-backed overflow
// log with its accumulated count intact. Draining a session therefore
// yields fragments, possibly several per key, and consumers sum counts by
// key to recover exact totals.
package stackfreq

import (
	"fmt"
	"iter"

	"github.com/Meesho/BharatMLStack/stackfreq/internal/counter"
	"github.com/Meesho/BharatMLStack/stackfreq/internal/overflow"
)

var (
	// ErrDrained is returned by Iter and Sums after a session has already
	// been drained; the overflow read is single-use.
	ErrDrained = overflow.ErrDrained
	// ErrClosed is returned once Close has released the session.
	ErrClosed = overflow.ErrClosed
)

// Entry is one (key, count) fragment of a session's output. A key that was
// evicted and later re-admitted appears as several entries; Aggregate sums
// them back together.
type Entry[K comparable] = counter.Entry[K]

// Collector is one bounded-memory counting session: a fixed hash table
// plus an overflow log for everything the table evicts. Add is
// allocation-free and O(1) except when a full staging buffer forces one
// synchronous write, which keeps it usable on latency-sensitive capture
// paths.
//
// A Collector has a single logical owner. No method is safe for concurrent
// use, and Iter must not overlap with Add on the same instance.
type Collector[K comparable] struct {
	table *counter.Table[K]
	log   *overflow.Log[counter.Entry[K]]
}

// New builds a session from a validated Config, a bucket-routing hasher,
// and the key codec that fixes the spill record layout. The overflow log's
// backing temp file is created here; a creation failure is fatal for the
// instance.
func New[K comparable](cfg Config, hash Hasher[K], keys KeyCodec[K]) (*Collector[K], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	olog, err := overflow.NewLog[counter.Entry[K]](cfg.TempDir, cfg.StagingCapacity, entryCodec[K]{keys})
	if err != nil {
		return nil, err
	}
	return &Collector[K]{
		table: counter.NewTable(cfg.Buckets, cfg.Associativity, hash),
		log:   olog,
	}, nil
}

// Add counts one occurrence of key. A non-nil error means the table
// mutation happened but the entry it evicted could not be spilled; exactly
// that evicted fragment goes unrecorded. Errors are never retried
// internally.
func (c *Collector[K]) Add(key K) error {
	evicted, ok := c.table.Add(key)
	if !ok {
		return nil
	}
	if err := c.log.Push(evicted); err != nil {
		return fmt.Errorf("stackfreq: spill evicted entry: %w", err)
	}
	return nil
}

// Iter drains the session: every resident table entry in bucket order,
// then every spilled entry with file-flushed records before still-staged
// ones. The overflow read happens once, up front; a second Iter returns
// ErrDrained.
func (c *Collector[K]) Iter() (iter.Seq[Entry[K]], error) {
	spilled, err := c.log.Drain()
	if err != nil {
		return nil, err
	}
	resident := c.table.Iter()
	return func(yield func(Entry[K]) bool) {
		for e := range resident {
			if !yield(e) {
				return
			}
		}
		for e := range spilled {
			if !yield(e) {
				return
			}
		}
	}, nil
}

// Sums drains the session and aggregates fragment counts by key. For every
// key the result equals the number of Add calls made for it, minus only
// fragments whose spill previously failed with an error.
func (c *Collector[K]) Sums() (map[K]uint64, error) {
	entries, err := c.Iter()
	if err != nil {
		return nil, err
	}
	return Aggregate(entries), nil
}

// Spilled reports how many entries have been evicted into the overflow log
// so far.
func (c *Collector[K]) Spilled() int64 {
	return c.log.Len()
}

// Resident reports how many entries the table currently holds.
func (c *Collector[K]) Resident() int {
	return c.table.Len()
}

// Close releases the session's backing temp file. Safe to call more than
// once.
func (c *Collector[K]) Close() error {
	return c.log.Close()
}

// Aggregate sums entry counts by key, the reduction every consumer of a
// drained session performs.
func Aggregate[K comparable](entries iter.Seq[Entry[K]]) map[K]uint64 {
	sums := make(map[K]uint64)
	for e := range entries {
		sums[e.Item] += e.Count
	}
	return sums
}
