// Package mlkemgo implements ML-KEM, the Module-Lattice-Based
// Key-Encapsulation Mechanism standardized in NIST FIPS 203.
//
// # Quick Start
//
//	import "github.com/sara-star-quant/mlkem-go/pkg/mlkem"
//	import "github.com/sara-star-quant/mlkem-go/pkg/params"
//
//	ek, dk, _ := mlkem.GenerateKeyPairRandom[params.ML768]()
//	sharedSecret, ciphertext, _ := mlkem.Encapsulate[params.ML768](ek)
//	recovered, _ := mlkem.Decapsulate[params.ML768](dk, ciphertext)
//
// # Package Structure
//
//   - pkg/mlkem: the top-level KeyGen/Encapsulate/Decapsulate API (Algorithms 16-18)
//   - pkg/kpke: the internal public-key encryption scheme ML-KEM is built on (Algorithms 13-15)
//   - pkg/ring, pkg/ntt, pkg/field: polynomial ring arithmetic, the number-theoretic transform, and Z_q
//   - pkg/params: the three named parameter sets (ML-KEM-512/768/1024) as compile-time type parameters
//   - pkg/symmetric: the G/H/J/XOF/PRF hash and XOF bindings FIPS 203 builds everything else from
//   - pkg/secret: zeroizing and constant-time helpers for handling key material
//   - pkg/selftest: FIPS 140-3 style Power-On and Conditional Self-Tests
//   - pkg/observability: structured logging, tracing, and Prometheus/health metrics
//   - internal/bitpack: the generic d-bit ByteEncode/ByteDecode used by every wire format in the standard
//   - internal/constants, internal/errors: shared numeric constants and error types
//
// # Security Properties
//
//   - IND-CCA2 security under the Module Learning With Errors assumption
//   - Three NIST security categories: ML-KEM-512 (Category 1), ML-KEM-768 (Category 3), ML-KEM-1024 (Category 5)
//   - Implicit rejection: a malformed ciphertext never surfaces as a distinguishable error from Decapsulate
//   - Constant-time comparison and selection around all secret-dependent branches
//
// # Non-goals
//
// This module implements the ML-KEM primitive only. It does not provide
// key-exchange transcripts, hybridization with a classical algorithm,
// transport framing, or a network protocol built on top of it - callers
// needing those should compose them around this package.
//
// # Testing
//
//	go test ./...                                   # all tests
//	go test -fuzz=FuzzEncapsulate ./test/fuzz/       # fuzz tests
//	go test -bench=. ./test/benchmark                # benchmarks
//
// # References
//
//   - NIST FIPS 203: Module-Lattice-Based Key-Encapsulation Mechanism Standard
//   - NIST FIPS 202: SHA-3 Standard (SHAKE-128/256)
package mlkemgo
