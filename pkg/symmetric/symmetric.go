// Package symmetric binds the five hash/XOF functions FIPS 203 §4.1
// builds every higher-level ML-KEM operation on top of: G, H, J, and the
// two XOFs (the public-matrix sampler and the noise PRF).
//
// All five are instantiated over SHA3-256/SHA3-512/SHAKE-128/SHAKE-256
// per FIPS 203 §3.6, the same Keccak family the kdf.go derivation
// functions in this codebase build on, using the same
// golang.org/x/crypto/sha3 package.
package symmetric

import (
	"golang.org/x/crypto/sha3"
)

// G is FIPS 203's G: SHA3-512, with the 64-byte digest split into two
// 32-byte halves. K-PKE.KeyGen calls G(d || k) to derive (rho, sigma);
// Encapsulate and Decapsulate call G(m || H(ek)) to derive (K, r).
// ML-KEM key generation does not call G.
func G(input []byte) (a, b [32]byte) {
	digest := sha3.Sum512(input)
	copy(a[:], digest[:32])
	copy(b[:], digest[32:])
	return a, b
}

// H is FIPS 203's H: SHA3-256, used to hash encapsulation keys.
func H(input []byte) [32]byte {
	return sha3.Sum256(input)
}

// J is FIPS 203's J: SHAKE-256 squeezed to 32 bytes, used only to derive
// the implicit-rejection shared secret K-bar = J(z || c) in decaps.
func J(input []byte) [32]byte {
	var out [32]byte
	h := sha3.NewShake256()
	h.Write(input)
	_, _ = h.Read(out[:])
	return out
}

// XOF is FIPS 203's XOF: SHAKE-128, used by SampleNTT (FIPS 203
// Algorithm 7) to expand a 32-byte seed plus two matrix indices into a
// uniform byte stream for rejection sampling.
type XOF struct {
	state sha3.ShakeHash
}

// NewXOF absorbs rho || i || j, the per-entry domain separation FIPS 203
// Algorithm 7 specifies for sampling matrix/vector entry (i, j).
func NewXOF(rho []byte, i, j byte) *XOF {
	h := sha3.NewShake128()
	h.Write(rho)
	h.Write([]byte{i, j})
	return &XOF{state: h}
}

// Squeeze draws n more bytes from the XOF stream.
func (x *XOF) Squeeze(n int) []byte {
	out := make([]byte, n)
	_, _ = x.state.Read(out)
	return out
}

// PRF is FIPS 203's PRF_eta: SHAKE-256(s || b) squeezed to 64*eta bytes,
// used by SampleCBD (via K-PKE.KeyGen/Encrypt) to generate noise
// polynomials with a per-sample one-byte domain-separating nonce b.
func PRF(eta int, s []byte, b byte) []byte {
	h := sha3.NewShake256()
	h.Write(s)
	h.Write([]byte{b})
	out := make([]byte, 64*eta)
	_, _ = h.Read(out)
	return out
}
