// Package errors defines the error taxonomy for the ML-KEM engine.
//
// spec.md's error policy (FIPS 203 §7) is intentionally coarse: the only
// input error callers see at the package boundary is InvalidInput (a
// failure of the OS random source is returned wrapped as it is). Decapsulation never
// surfaces a failure — a ciphertext that fails the re-encryption check is
// absorbed by implicit rejection — so ErrDecapsulationFailure exists only
// as an internal sentinel for tests and is never returned by pkg/mlkem.
// Error strings never interpolate secret material.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the public ML-KEM/K-PKE surface.
var (
	// ErrInvalidInput indicates a byte string had the wrong length, an
	// encapsulation key failed its modulus re-encoding check, or a
	// 12-bit decoded coefficient was >= q.
	ErrInvalidInput = errors.New("mlkem: invalid input")

	// ErrDecapsulationFailure is never returned by pkg/mlkem.Decapsulate;
	// it exists so internal tests can assert that the re-encryption
	// mismatch path was taken without that fact leaking to callers.
	ErrDecapsulationFailure = errors.New("mlkem: decapsulation failure (internal only)")
)

// Finer-grained decode errors. capyKEM's error.rs distinguishes
// EncodingError from the coarser InvalidInput; these sentinels name those
// finer kinds, but no package returns them: the pkg/ring and pkg/ntt
// decoders report a rejected encoding as a false ok result, pkg/kpke
// passes that on as a bool, and pkg/mlkem turns it into ErrInvalidInput.
var (
	// ErrWrongLength indicates a byte string was not the expected size
	// for the encoding width being decoded.
	ErrWrongLength = errors.New("mlkem: wrong encoded length")

	// ErrCoefficientOutOfRange indicates a decoded 12-bit group was >= q.
	ErrCoefficientOutOfRange = errors.New("mlkem: decoded coefficient out of range")
)

// CryptoError wraps a cryptographic error with the operation that failed.
type CryptoError struct {
	Op  string
	Err error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

// NewCryptoError creates a new CryptoError.
func NewCryptoError(op string, err error) *CryptoError {
	return &CryptoError{Op: op, Err: err}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
