// Package benchmark provides performance benchmarks for this module's
// ML-KEM operations.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./test/benchmark/
//
// For profiling:
//
//	go test -bench=. -cpuprofile=cpu.prof -memprofile=mem.prof ./test/benchmark/
package benchmark

import (
	"testing"

	"github.com/sara-star-quant/mlkem-go/pkg/mlkem"
	"github.com/sara-star-quant/mlkem-go/pkg/params"
	"github.com/sara-star-quant/mlkem-go/pkg/selftest"
)

// --- ML-KEM-512 Benchmarks ---

func BenchmarkKeyGeneration512(b *testing.B) {
	benchmarkKeyGeneration[params.ML512](b)
}

func BenchmarkEncapsulate512(b *testing.B) {
	benchmarkEncapsulate[params.ML512](b)
}

func BenchmarkDecapsulate512(b *testing.B) {
	benchmarkDecapsulate[params.ML512](b)
}

// --- ML-KEM-768 Benchmarks ---

func BenchmarkKeyGeneration768(b *testing.B) {
	benchmarkKeyGeneration[params.ML768](b)
}

func BenchmarkEncapsulate768(b *testing.B) {
	benchmarkEncapsulate[params.ML768](b)
}

func BenchmarkDecapsulate768(b *testing.B) {
	benchmarkDecapsulate[params.ML768](b)
}

// --- ML-KEM-1024 Benchmarks ---

func BenchmarkKeyGeneration1024(b *testing.B) {
	benchmarkKeyGeneration[params.ML1024](b)
}

func BenchmarkEncapsulate1024(b *testing.B) {
	benchmarkEncapsulate[params.ML1024](b)
}

func BenchmarkDecapsulate1024(b *testing.B) {
	benchmarkDecapsulate[params.ML1024](b)
}

func benchmarkKeyGeneration[S params.Set](b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, err := mlkem.GenerateKeyPairRandom[S]()
		if err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkEncapsulate[S params.Set](b *testing.B) {
	ek, _, err := mlkem.GenerateKeyPairRandom[S]()
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, err := mlkem.Encapsulate[S](ek)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkDecapsulate[S params.Set](b *testing.B) {
	ek, dk, err := mlkem.GenerateKeyPairRandom[S]()
	if err != nil {
		b.Fatal(err)
	}
	_, c, err := mlkem.Encapsulate[S](ek)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := mlkem.Decapsulate[S](dk, c)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// --- Parallel Benchmarks ---

func BenchmarkEncapsulate768Parallel(b *testing.B) {
	ek, _, err := mlkem.GenerateKeyPairRandom[params.ML768]()
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _, _ = mlkem.Encapsulate[params.ML768](ek)
		}
	})
}

// --- Self-Test Benchmarks ---

func BenchmarkPairwiseConsistencyTest768(b *testing.B) {
	ek, dk, err := mlkem.GenerateKeyPairRandom[params.ML768]()
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if out := selftest.PairwiseConsistencyTest[params.ML768](ek, dk); !out.Passed {
			b.Fatalf("pairwise consistency test failed: %v", out.Err)
		}
	}
}
