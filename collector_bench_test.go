package stackfreq

import "testing"

func BenchmarkCollectorAdd(b *testing.B) {
	cfg := DefaultConfig(16)
	cfg.TempDir = b.TempDir()
	c, err := New[uint64](cfg, HashUint64, Uint64Codec{})
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	defer c.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := c.Add(uint64(i % (1 << 16))); err != nil {
			b.Fatalf("Add: %v", err)
		}
	}
}

func BenchmarkCollectorAddFrames(b *testing.B) {
	cfg := DefaultConfig(FramesCodec{}.Width() + 8)
	cfg.TempDir = b.TempDir()
	c, err := New[FrameKey](cfg, HashFrames, FramesCodec{})
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	defer c.Close()

	keys := make([]FrameKey, 1024)
	for i := range keys {
		keys[i].Depth = uint8(1 + i%8)
		for d := 0; d < int(keys[i].Depth); d++ {
			keys[i].Frames[d] = uint64(i*31 + d)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := c.Add(keys[i%len(keys)]); err != nil {
			b.Fatalf("Add: %v", err)
		}
	}
}
