package stackfreq

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// Hasher routes keys to buckets. It must be deterministic for the life of
// one Collector; distribution quality determines how evenly buckets fill.
// Determinism across processes is not required.
type Hasher[K comparable] func(K) uint64

// HashString hashes string keys with xxhash.
func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// HashUint64 hashes integer keys with xxh3 over their little-endian bytes.
// Raw integer identities (object IDs, pre-hashed stack digests) tend to be
// clustered, so they get mixed instead of used as-is.
func HashUint64(k uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], k)
	return xxh3.Hash(b[:])
}

// MaxFrames is the deepest stack identity FrameKey carries.
const MaxFrames = 32

// FrameKey is a fixed-depth stack identity: Depth captured frame addresses
// in Frames[:Depth]. Slots above Depth must stay zero so that equal stacks
// compare equal.
type FrameKey struct {
	Frames [MaxFrames]uint64
	Depth  uint8
}

// HashFrames hashes the captured prefix of a FrameKey with murmur3.
func HashFrames(k FrameKey) uint64 {
	var b [MaxFrames * 8]byte
	n := int(k.Depth)
	if n > MaxFrames {
		n = MaxFrames
	}
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint64(b[i*8:], k.Frames[i])
	}
	return murmur3.Sum64(b[:n*8])
}
