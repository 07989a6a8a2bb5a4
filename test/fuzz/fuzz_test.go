// Package fuzz provides fuzz tests for this module's parsers: the
// attacker-facing decode paths an ML-KEM peer exercises on wire data it
// does not control.
//
// Run fuzz tests with:
//
//	go test -fuzz=FuzzEncapsulate -fuzztime=30s ./test/fuzz/
//	go test -fuzz=FuzzDecapsulateCiphertext -fuzztime=30s ./test/fuzz/
//	go test -fuzz=FuzzBitpackDecode -fuzztime=30s ./test/fuzz/
package fuzz

import (
	"testing"

	"github.com/sara-star-quant/mlkem-go/internal/bitpack"
	"github.com/sara-star-quant/mlkem-go/pkg/mlkem"
	"github.com/sara-star-quant/mlkem-go/pkg/ntt"
	"github.com/sara-star-quant/mlkem-go/pkg/params"
)

// FuzzEncapsulate fuzzes Encapsulate's untrusted-ek path: the modulus
// re-encoding check in FIPS 203 §7.2 step 2 must reject any malformed
// encapsulation key without panicking, and must never derive a shared
// secret from one it rejected.
func FuzzEncapsulate(f *testing.F) {
	ek, _, err := mlkem.GenerateKeyPairRandom[params.ML768]()
	if err == nil {
		f.Add(ek)
		corrupted := append([]byte(nil), ek...)
		corrupted[0] ^= 0xFF
		f.Add(corrupted)
	}
	f.Add([]byte{})
	f.Add(make([]byte, params.EncapsulationKeySize(params.ML768{})))

	f.Fuzz(func(t *testing.T, data []byte) {
		_, c, err := mlkem.Encapsulate[params.ML768](data)
		if err == nil && c == nil {
			t.Errorf("Encapsulate returned no error but a nil ciphertext for input of length %d", len(data))
		}
	})
}

// FuzzDecapsulateCiphertext fuzzes Decapsulate's ciphertext path.
// Decapsulate must never panic and must always return a 32-byte value
// (the real shared secret or the implicit-rejection pseudorandom one) for
// any ciphertext of the correct length.
func FuzzDecapsulateCiphertext(f *testing.F) {
	_, dk, err := mlkem.GenerateKeyPairRandom[params.ML768]()
	if err != nil {
		f.Skip("could not generate a decapsulation key for seeding")
	}
	size := params.CiphertextSize(params.ML768{})
	f.Add(make([]byte, size))
	allOnes := make([]byte, size)
	for i := range allOnes {
		allOnes[i] = 0xFF
	}
	f.Add(allOnes)

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) != size {
			t.Skip()
		}
		k, err := mlkem.Decapsulate[params.ML768](dk, data)
		if err != nil {
			t.Errorf("Decapsulate returned an error for a correctly-sized ciphertext: %v", err)
		}
		if len(k) != mlkem.SharedSecretSize {
			t.Errorf("Decapsulate returned a shared secret of length %d, want %d", len(k), mlkem.SharedSecretSize)
		}
	})
}

// FuzzBitpackDecode fuzzes the generic d-bit decoder that every
// ciphertext and key component passes through. It is seeded at the two
// widths attacker-controlled ciphertext bytes reach directly (du=10 for
// ML-KEM-768/512's c1, dv=4 for c2); any input whose length matches one of
// the widths 1, 4, 5, 10, 11 or 12 is decoded at that width.
func FuzzBitpackDecode(f *testing.F) {
	f.Add(make([]byte, bitpack.EncodedLen(10)))
	f.Add(make([]byte, bitpack.EncodedLen(4)))

	f.Fuzz(func(t *testing.T, data []byte) {
		for _, d := range []int{1, 4, 5, 10, 11, 12} {
			if len(data) != bitpack.EncodedLen(d) {
				continue
			}
			vals := bitpack.Decode(d, data)
			for _, v := range vals {
				if v >= (1 << uint(d)) {
					t.Errorf("Decode(%d, ...) produced out-of-range value %d", d, v)
				}
			}
		}
	})
}

// FuzzNTTDecodeChecked fuzzes the checked 12-bit NTT-domain decoder used
// to validate encapsulation-key polynomial encodings; it
// must reject any encoding containing a coefficient >= q without
// panicking.
func FuzzNTTDecodeChecked(f *testing.F) {
	f.Add(make([]byte, 384))
	over := make([]byte, 384)
	for i := range over {
		over[i] = 0xFF
	}
	f.Add(over)

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) != 384 {
			t.Skip()
		}
		_, _ = ntt.DecodeChecked(data)
	})
}
