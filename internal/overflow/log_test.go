package overflow

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// u64Codec encodes test values as bare little-endian uint64 records.
type u64Codec struct{}

func (u64Codec) Size() int { return 8 }

func (u64Codec) AppendRecord(dst []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, v)
}

func (u64Codec) DecodeRecord(src []byte) uint64 {
	return binary.LittleEndian.Uint64(src)
}

func newTestLog(t *testing.T, capacity int) *Log[uint64] {
	t.Helper()
	l, err := NewLog[uint64](t.TempDir(), capacity, u64Codec{})
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func drainAll(t *testing.T, l *Log[uint64]) []uint64 {
	t.Helper()
	seq, err := l.Drain()
	require.NoError(t, err)
	var out []uint64
	for v := range seq {
		out = append(out, v)
	}
	return out
}

func TestLogStagedOnly(t *testing.T) {
	l := newTestLog(t, 8)

	for v := uint64(0); v < 5; v++ {
		require.NoError(t, l.Push(v))
	}

	assert.Equal(t, int64(5), l.Len())
	assert.Equal(t, []uint64{0, 1, 2, 3, 4}, drainAll(t, l))
}

func TestLogFlushedBeforeStaged(t *testing.T) {
	l := newTestLog(t, 4)

	// 10 pushes with capacity 4: two full flushes (records 0..7) plus two
	// staged records. Flushed records must come first, push order kept
	// within each group.
	for v := uint64(0); v < 10; v++ {
		require.NoError(t, l.Push(v))
	}

	assert.Equal(t, int64(8), l.flushed)
	assert.Equal(t, 2, l.cursor)
	assert.Equal(t, []uint64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, drainAll(t, l))
}

func TestLogFlushBoundary(t *testing.T) {
	l := newTestLog(t, 4)

	// Filling the buffer exactly does not flush; the flush happens on the
	// push that needs the space.
	for v := uint64(0); v < 4; v++ {
		require.NoError(t, l.Push(v))
	}
	assert.Equal(t, int64(0), l.flushed)

	require.NoError(t, l.Push(4))
	assert.Equal(t, int64(4), l.flushed)
	assert.Equal(t, 1, l.cursor)
}

func TestLogDrainIsSingleUse(t *testing.T) {
	l := newTestLog(t, 4)
	require.NoError(t, l.Push(7))

	_, err := l.Drain()
	require.NoError(t, err)

	_, err = l.Drain()
	assert.ErrorIs(t, err, ErrDrained)
}

func TestLogDrainEmpty(t *testing.T) {
	l := newTestLog(t, 4)
	assert.Empty(t, drainAll(t, l))
}

func TestLogFlushFailureKeepsStagedRecords(t *testing.T) {
	l := newTestLog(t, 4)
	for v := uint64(0); v < 4; v++ {
		require.NoError(t, l.Push(v))
	}

	// Kill the backing file so the next flush write fails.
	require.NoError(t, l.file.Close())

	err := l.Push(4)
	require.Error(t, err)

	// The staged records survive the failed flush and the rejected record
	// was not admitted.
	assert.Equal(t, 4, l.cursor)
	assert.Equal(t, int64(0), l.flushed)
	assert.Equal(t, int64(4), l.Len())
}

func TestLogUseAfterClose(t *testing.T) {
	l := newTestLog(t, 4)
	require.NoError(t, l.Close())

	assert.ErrorIs(t, l.Push(1), ErrClosed)
	_, err := l.Drain()
	assert.ErrorIs(t, err, ErrClosed)

	// Close is idempotent.
	assert.NoError(t, l.Close())
}

func TestLogLargeSpill(t *testing.T) {
	l := newTestLog(t, 16)

	const n = 1000
	for v := uint64(0); v < n; v++ {
		require.NoError(t, l.Push(v))
	}

	out := drainAll(t, l)
	require.Len(t, out, n)
	for i, v := range out {
		require.Equal(t, uint64(i), v, "record %d out of order", i)
	}
}
