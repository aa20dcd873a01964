package stackfreq

import (
	"encoding/binary"
	"fmt"

	"github.com/Meesho/BharatMLStack/stackfreq/internal/counter"
)

// KeyCodec fixes a key type's on-disk representation. Spilled entries are
// stored as fixed-width records, so every key of a codec encodes to exactly
// Width bytes, little-endian fields throughout.
type KeyCodec[K comparable] interface {
	Width() int
	// AppendKey appends exactly Width bytes encoding k to dst.
	AppendKey(dst []byte, k K) []byte
	// DecodeKey decodes one key from the first Width bytes of src.
	DecodeKey(src []byte) K
}

// Uint64Codec encodes uint64 keys as 8 little-endian bytes.
type Uint64Codec struct{}

func (Uint64Codec) Width() int { return 8 }

func (Uint64Codec) AppendKey(dst []byte, k uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, k)
}

func (Uint64Codec) DecodeKey(src []byte) uint64 {
	return binary.LittleEndian.Uint64(src)
}

// StringCodec encodes string keys into a fixed-width record: a 2-byte
// length followed by the bytes, zero-padded up to Max. Keys longer than Max
// cannot be represented losslessly, which would corrupt per-key sums, so
// AppendKey panics on them; sizing Max is the caller's contract.
type StringCodec struct {
	Max int
}

func (c StringCodec) Width() int { return 2 + c.Max }

func (c StringCodec) AppendKey(dst []byte, k string) []byte {
	if len(k) > c.Max {
		panic(fmt.Sprintf("stackfreq: key of %d bytes exceeds StringCodec max %d", len(k), c.Max))
	}
	dst = binary.LittleEndian.AppendUint16(dst, uint16(len(k)))
	dst = append(dst, k...)
	for i := len(k); i < c.Max; i++ {
		dst = append(dst, 0)
	}
	return dst
}

func (c StringCodec) DecodeKey(src []byte) string {
	n := binary.LittleEndian.Uint16(src)
	return string(src[2 : 2+int(n)])
}

// FramesCodec encodes FrameKey stack identities: 1 depth byte followed by
// all MaxFrames slots, keeping the record width constant regardless of
// capture depth.
type FramesCodec struct{}

func (FramesCodec) Width() int { return 1 + MaxFrames*8 }

func (FramesCodec) AppendKey(dst []byte, k FrameKey) []byte {
	dst = append(dst, k.Depth)
	for i := 0; i < MaxFrames; i++ {
		dst = binary.LittleEndian.AppendUint64(dst, k.Frames[i])
	}
	return dst
}

func (FramesCodec) DecodeKey(src []byte) FrameKey {
	k := FrameKey{Depth: src[0]}
	for i := 0; i < MaxFrames; i++ {
		k.Frames[i] = binary.LittleEndian.Uint64(src[1+i*8:])
	}
	return k
}

// entryCodec frames a full spill record: encoded key then 8 count bytes.
type entryCodec[K comparable] struct {
	keys KeyCodec[K]
}

func (c entryCodec[K]) Size() int { return c.keys.Width() + 8 }

func (c entryCodec[K]) AppendRecord(dst []byte, e counter.Entry[K]) []byte {
	dst = c.keys.AppendKey(dst, e.Item)
	return binary.LittleEndian.AppendUint64(dst, e.Count)
}

func (c entryCodec[K]) DecodeRecord(src []byte) counter.Entry[K] {
	w := c.keys.Width()
	return counter.Entry[K]{
		Item:  c.keys.DecodeKey(src[:w]),
		Count: binary.LittleEndian.Uint64(src[w : w+8]),
	}
}
