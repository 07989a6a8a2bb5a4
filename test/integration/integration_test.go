// Package integration provides end-to-end integration tests for this
// module's ML-KEM engine: key generation through encapsulation and
// decapsulation, exercised the way two independent peers would use it,
// with the observability and self-test layers wired in.
package integration

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/sara-star-quant/mlkem-go/pkg/mlkem"
	"github.com/sara-star-quant/mlkem-go/pkg/observability"
	"github.com/sara-star-quant/mlkem-go/pkg/params"
	"github.com/sara-star-quant/mlkem-go/pkg/selftest"
)

// TestFullKeyExchange512/768/1024 verifies the complete recipient-
// generates-keys, sender-encapsulates, recipient-decapsulates flow for
// each parameter set.
func TestFullKeyExchange512(t *testing.T) { testFullKeyExchange[params.ML512](t) }
func TestFullKeyExchange768(t *testing.T) { testFullKeyExchange[params.ML768](t) }
func TestFullKeyExchange1024(t *testing.T) { testFullKeyExchange[params.ML1024](t) }

func testFullKeyExchange[S params.Set](t *testing.T) {
	ek, dk, err := mlkem.GenerateKeyPairRandom[S]()
	if err != nil {
		t.Fatalf("GenerateKeyPairRandom failed: %v", err)
	}

	senderK, c, err := mlkem.Encapsulate[S](ek)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}

	recipientK, err := mlkem.Decapsulate[S](dk, c)
	if err != nil {
		t.Fatalf("Decapsulate failed: %v", err)
	}

	if senderK != recipientK {
		t.Fatalf("shared secrets disagree: sender %x, recipient %x", senderK, recipientK)
	}
}

// TestConcurrentKeyExchanges verifies that many independent key
// exchanges, run concurrently against the same parameter set, each reach
// an independent and internally consistent shared secret.
func TestConcurrentKeyExchanges(t *testing.T) {
	const n = 16

	var wg sync.WaitGroup
	results := make([][32]byte, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			ek, dk, err := mlkem.GenerateKeyPairRandom[params.ML768]()
			if err != nil {
				errs[idx] = err
				return
			}
			k1, c, err := mlkem.Encapsulate[params.ML768](ek)
			if err != nil {
				errs[idx] = err
				return
			}
			k2, err := mlkem.Decapsulate[params.ML768](dk, c)
			if err != nil {
				errs[idx] = err
				return
			}
			if k1 != k2 {
				errs[idx] = errMismatch
				return
			}
			results[idx] = k1
		}(i)
	}
	wg.Wait()

	seen := make(map[[32]byte]bool, n)
	for i, err := range errs {
		if err != nil {
			t.Fatalf("exchange %d failed: %v", i, err)
		}
		if seen[results[i]] {
			t.Fatalf("exchange %d produced a shared secret already seen from another exchange", i)
		}
		seen[results[i]] = true
	}
}

var errMismatch = mismatchError{}

type mismatchError struct{}

func (mismatchError) Error() string { return "shared secrets do not match" }

// TestKeyExchangeWithTracing verifies that wiring a recording tracer
// around a key exchange captures one span per operation without
// disturbing the result.
func TestKeyExchangeWithTracing(t *testing.T) {
	tracer := observability.NewSimpleTracer()
	observability.SetTracer(tracer)
	defer observability.SetTracer(observability.NoOpTracer{})

	ctx, end := observability.StartSpan(context.Background(), observability.SpanKeyGen,
		observability.WithAttributes(observability.Attributes{ParameterSet: "ML-KEM-768"}.ToMap()))
	ek, dk, err := mlkem.GenerateKeyPairRandom[params.ML768]()
	end(err)
	if err != nil {
		t.Fatalf("GenerateKeyPairRandom failed: %v", err)
	}

	_, end = observability.StartSpan(ctx, observability.SpanEncapsulate)
	_, c, err := mlkem.Encapsulate[params.ML768](ek)
	end(err)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}

	_, end = observability.StartSpan(ctx, observability.SpanDecapsulate)
	_, err = mlkem.Decapsulate[params.ML768](dk, c)
	end(err)
	if err != nil {
		t.Fatalf("Decapsulate failed: %v", err)
	}

	spans := tracer.Spans()
	if len(spans) != 3 {
		t.Fatalf("expected 3 recorded spans, got %d", len(spans))
	}
	for _, s := range spans {
		if s.Error != nil {
			t.Errorf("span %q recorded an error: %v", s.Name, s.Error)
		}
	}
}

// TestSelfTestGatesKeyGeneration verifies that GenerateKeyPairChecked,
// with the pairwise consistency test enabled, still returns keys that
// round-trip through an independent Encapsulate/Decapsulate call.
func TestSelfTestGatesKeyGeneration(t *testing.T) {
	selftest.InitCST(selftest.Config{EnablePairwiseTest: true})

	var d, z [32]byte
	copy(d[:], bytes.Repeat([]byte{0x11}, 32))
	copy(z[:], bytes.Repeat([]byte{0x22}, 32))

	ek, dk, err := selftest.GenerateKeyPairChecked[params.ML768](d, z)
	if err != nil {
		t.Fatalf("GenerateKeyPairChecked failed: %v", err)
	}

	k1, c, err := mlkem.Encapsulate[params.ML768](ek)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}
	k2, err := mlkem.Decapsulate[params.ML768](dk, c)
	if err != nil {
		t.Fatalf("Decapsulate failed: %v", err)
	}
	if k1 != k2 {
		t.Fatal("shared secrets disagree after checked keygen")
	}
}
