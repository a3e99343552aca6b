package search

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/dataset"
)

func benchDataset(b *testing.B, n int) *dataset.Dataset {
	b.Helper()
	recs := make([]map[string]string, n)
	for i := range recs {
		recs[i] = map[string]string{
			"idiom":      fmt.Sprintf("成语%05d", i),
			"definition": fmt.Sprintf("第%d条释义，比喻做事要有始有终 term%d", i, i%97),
		}
	}
	body, err := json.Marshal(recs)
	if err != nil {
		b.Fatal(err)
	}
	batch, err := dataset.Normalize(body, dataset.NormalizeOptions{})
	if err != nil {
		b.Fatal(err)
	}
	ds := dataset.New()
	ds.Append(batch.Entries)
	ds.MarkReady(0)
	return ds
}

func benchmarkSearch(b *testing.B, strategy Strategy, query string) {
	e := NewEngine(benchDataset(b, 30000), Options{Strategy: strategy, MinQueryLength: 2})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Search(query)
	}
}

func BenchmarkSearchIndexedRare(b *testing.B) { benchmarkSearch(b, StrategyIndexed, "term42") }
func BenchmarkSearchScanRare(b *testing.B)    { benchmarkSearch(b, StrategyScan, "term42") }
func BenchmarkSearchIndexedCJK(b *testing.B)  { benchmarkSearch(b, StrategyIndexed, "有始有终") }
func BenchmarkSearchScanCJK(b *testing.B)     { benchmarkSearch(b, StrategyScan, "有始有终") }

// BenchmarkSearchIndexedParallel measures concurrent read throughput.
func BenchmarkSearchIndexedParallel(b *testing.B) {
	e := NewEngine(benchDataset(b, 30000), Options{Strategy: StrategyIndexed, MinQueryLength: 2})
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = e.Search("term7")
		}
	})
}

func BenchmarkAppendPartition(b *testing.B) {
	recs := make([]map[string]string, 3000)
	for i := range recs {
		recs[i] = map[string]string{"idiom": fmt.Sprintf("成语%05d", i), "definition": "比喻做事要有始有终"}
	}
	body, _ := json.Marshal(recs)
	batch, err := dataset.Normalize(body, dataset.NormalizeOptions{})
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ds := dataset.New()
		ds.Append(batch.Entries)
	}
}
