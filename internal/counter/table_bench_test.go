package counter

import "testing"

func BenchmarkTableAddHit(b *testing.B) {
	tbl := NewTable[uint64](256, 4, HashForTest)
	tbl.Add(42)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tbl.Add(42)
	}
}

func BenchmarkTableAddChurn(b *testing.B) {
	tbl := NewTable[uint64](256, 4, HashForTest)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tbl.Add(uint64(i % (1 << 14)))
	}
}
