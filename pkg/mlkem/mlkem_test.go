package mlkem

import (
	"testing"

	"github.com/sara-star-quant/mlkem-go/pkg/params"
)

func TestRoundTrip512(t *testing.T)  { testRoundTrip[params.ML512](t) }
func TestRoundTrip768(t *testing.T)  { testRoundTrip[params.ML768](t) }
func TestRoundTrip1024(t *testing.T) { testRoundTrip[params.ML1024](t) }

func testRoundTrip[S params.Set](t *testing.T) {
	t.Helper()

	var d, z [32]byte
	for i := range d {
		d[i] = byte(i)
		z[i] = byte(0xFF - i)
	}

	ek, dk := GenerateKeyPair[S](d, z)

	K1, c, err := Encapsulate[S](ek)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}

	K2, err := Decapsulate[S](dk, c)
	if err != nil {
		t.Fatalf("Decapsulate returned an error: %v", err)
	}

	if K1 != K2 {
		t.Fatal("shared secrets from encaps/decaps must match")
	}
}

func TestKeyGenDeterministic(t *testing.T) {
	var d, z [32]byte
	for i := range d {
		d[i] = 0x04
		z[i] = 0x04
	}

	ek1, dk1 := GenerateKeyPair[params.ML768](d, z)
	ek2, dk2 := GenerateKeyPair[params.ML768](d, z)

	if string(ek1) != string(ek2) {
		t.Error("encapsulation key generation must be deterministic in (d, z)")
	}
	if string(dk1) != string(dk2) {
		t.Error("decapsulation key generation must be deterministic in (d, z)")
	}
}

func TestImplicitRejectionOnBitFlip(t *testing.T) {
	var d, z [32]byte
	for i := range d {
		d[i] = byte(i * 2)
		z[i] = byte(i * 3)
	}
	ek, dk := GenerateKeyPair[params.ML768](d, z)

	K1, c, err := Encapsulate[params.ML768](ek)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}

	tampered := make([]byte, len(c))
	copy(tampered, c)
	tampered[0] ^= 0x01

	K2, err := Decapsulate[params.ML768](dk, tampered)
	if err != nil {
		t.Fatalf("Decapsulate should never return an error, got: %v", err)
	}

	if K1 == K2 {
		t.Fatal("decapsulating a tampered ciphertext should not reproduce the original shared secret")
	}

	// Implicit rejection must still be deterministic given the same
	// (dk, tampered-c) pair.
	K3, err := Decapsulate[params.ML768](dk, tampered)
	if err != nil {
		t.Fatalf("Decapsulate should never return an error, got: %v", err)
	}
	if K2 != K3 {
		t.Fatal("implicit rejection must be deterministic for a fixed (dk, c)")
	}
}

func TestEncapsulateRejectsInvalidEncapsulationKey(t *testing.T) {
	var d, z [32]byte
	ek, _ := GenerateKeyPair[params.ML768](d, z)

	corrupted := make([]byte, len(ek))
	copy(corrupted, ek)
	corrupted[0] = 0xFF
	corrupted[1] = 0xFF // forces the first 12-bit coefficient out of range

	if _, _, err := Encapsulate[params.ML768](corrupted); err == nil {
		t.Fatal("Encapsulate should reject an encapsulation key that fails the modulus check")
	}
}

func TestEncapsulateRejectsWrongLength(t *testing.T) {
	if _, _, err := Encapsulate[params.ML768](make([]byte, 10)); err == nil {
		t.Fatal("Encapsulate should reject a wrong-length encapsulation key")
	}
}

func TestDecapsulateRejectsWrongLengths(t *testing.T) {
	var d, z [32]byte
	ek, dk := GenerateKeyPair[params.ML768](d, z)
	_, c, err := Encapsulate[params.ML768](ek)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}

	if _, err := Decapsulate[params.ML768](make([]byte, 10), c); err == nil {
		t.Fatal("Decapsulate should reject a wrong-length decapsulation key")
	}
	if _, err := Decapsulate[params.ML768](dk, make([]byte, 10)); err == nil {
		t.Fatal("Decapsulate should reject a wrong-length ciphertext")
	}
}

func TestKeySizesMatchParams(t *testing.T) {
	var d, z [32]byte
	ek, dk := GenerateKeyPair[params.ML1024](d, z)

	if len(ek) != params.EncapsulationKeySize(params.ML1024{}) {
		t.Errorf("ek size = %d, want %d", len(ek), params.EncapsulationKeySize(params.ML1024{}))
	}
	if len(dk) != params.DecapsulationKeySize(params.ML1024{}) {
		t.Errorf("dk size = %d, want %d", len(dk), params.DecapsulationKeySize(params.ML1024{}))
	}
}
