package index

import (
	"fmt"
	"testing"
)

func BenchmarkInvertedAdd(b *testing.B) {
	b.ReportAllocs()
	ix := NewInverted()
	for i := 0; i < b.N; i++ {
		ix.Add(i, fmt.Sprintf("成语%d", i), "比喻做事要有始有终 不可半途而废")
	}
}

func benchIndex(n int) *Inverted {
	ix := NewInverted()
	for i := 0; i < n; i++ {
		ix.Add(i, fmt.Sprintf("成语%05d", i), fmt.Sprintf("比喻做事要有始有终 term%d", i%97))
		ix.AddKey(i, fmt.Sprintf("成语%05d", i))
	}
	return ix
}

// BenchmarkInvertedLookup measures substring lookup over 10 000 entries.
func BenchmarkInvertedLookup(b *testing.B) {
	ix := benchIndex(10000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ix.Lookup("有始")
	}
}

func BenchmarkInvertedMatchParallel(b *testing.B) {
	ix := benchIndex(10000)
	tokens := []string{"term4", "有始有终"}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = ix.Match(tokens)
		}
	})
}

func BenchmarkInvertedPrefix(b *testing.B) {
	ix := benchIndex(10000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ix.Prefix("成语01", 10)
	}
}
