package overflow

import (
	"errors"
	"fmt"
	"iter"
	"os"

	"github.com/rs/zerolog/log"
)

var (
	ErrDrained = errors.New("overflow log already drained")
	ErrClosed  = errors.New("overflow log closed")
)

// Log is an append-only spill sink: a fixed staging buffer in front of an
// anonymous temp file. Pushes land in the staging buffer; a full buffer is
// flushed to the file as one contiguous block of fixed-size records. File
// content is immutable once written.
//
// Single owner; not safe for concurrent use.
type Log[T any] struct {
	file    *os.File
	codec   Codec[T]
	staged  []T
	cursor  int
	scratch []byte // reused flush encode buffer
	offset  int64  // next file write offset
	flushed int64  // records resident in the file
	drained bool
	closed  bool
}

// NewLog creates a log staging up to capacity records in memory, backed by
// an anonymous temp file under dir (os.TempDir when dir is empty). A
// backing-file creation failure is fatal for the instance.
func NewLog[T any](dir string, capacity int, codec Codec[T]) (*Log[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("overflow: staging capacity must be >= 1, got %d", capacity)
	}
	f, err := tempFile(dir)
	if err != nil {
		return nil, fmt.Errorf("overflow: create backing file: %w", err)
	}
	return &Log[T]{
		file:    f,
		codec:   codec,
		staged:  make([]T, capacity),
		scratch: make([]byte, 0, capacity*codec.Size()),
	}, nil
}

// Push stages v, flushing the staging buffer to the backing file first when
// it is full. On a flush failure the staged records stay resident, v is not
// recorded, and the same Push may be retried.
func (l *Log[T]) Push(v T) error {
	if l.closed {
		return ErrClosed
	}
	if l.cursor == len(l.staged) {
		if err := l.flush(); err != nil {
			return err
		}
	}
	l.staged[l.cursor] = v
	l.cursor++
	return nil
}

func (l *Log[T]) flush() error {
	buf := l.scratch[:0]
	for i := 0; i < l.cursor; i++ {
		buf = l.codec.AppendRecord(buf, l.staged[i])
	}
	n, err := l.file.WriteAt(buf, l.offset)
	if err != nil {
		log.Error().Msgf("overflow: flush of %d records at offset %d failed: %v", l.cursor, l.offset, err)
		return fmt.Errorf("overflow: flush: %w", err)
	}
	if n != len(buf) {
		return fmt.Errorf("overflow: short flush: wrote %d of %d bytes", n, len(buf))
	}
	// The cursor resets only after the write is confirmed, so a failed
	// flush never strands staged records.
	l.offset += int64(n)
	l.flushed += int64(l.cursor)
	l.cursor = 0
	return nil
}

// Drain reads the backing file once and yields every flushed record in
// write order, followed by the staged prefix in push order. The log is
// single-use: a second Drain returns ErrDrained.
func (l *Log[T]) Drain() (iter.Seq[T], error) {
	if l.closed {
		return nil, ErrClosed
	}
	if l.drained {
		return nil, ErrDrained
	}

	size := l.codec.Size()
	buf := make([]byte, l.flushed*int64(size))
	if len(buf) > 0 {
		// A failed read leaves the log undrained so the caller may retry.
		if _, err := l.file.ReadAt(buf, 0); err != nil {
			return nil, fmt.Errorf("overflow: read backing file: %w", err)
		}
	}
	l.drained = true
	staged := l.staged[:l.cursor]
	return func(yield func(T) bool) {
		for off := 0; off < len(buf); off += size {
			if !yield(l.codec.DecodeRecord(buf[off:])) {
				return
			}
		}
		for i := range staged {
			if !yield(staged[i]) {
				return
			}
		}
	}, nil
}

// Len reports the number of records held, staged and flushed combined.
func (l *Log[T]) Len() int64 {
	return l.flushed + int64(l.cursor)
}

// Close releases the backing file. The file is anonymous, so the OS
// reclaims its space once the descriptor closes.
func (l *Log[T]) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	return l.file.Close()
}
