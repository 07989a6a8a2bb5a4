// Package secret provides the secret-hygiene primitives spec.md §5/§9
// requires: a buffer wrapper that redacts its own textual rendering and is
// cleared by an explicit Zero call (it is not zeroized automatically when
// it becomes unreachable or is garbage-collected), and a constant-time
// comparator for the two
// side-channel-sensitive checks in ML-KEM (the encapsulation-key modulus
// re-encoding check, and the ciphertext comparison in decapsulation).
//
// Grounded in pkg/crypto/random.go's Zeroize/ZeroizeMultiple helpers and
// the crypto.Zeroize(...) call sites scattered through this codebase's
// session teardown paths, but packaged as a type so every secret-bearing
// buffer gets the same guarantee instead of relying on call sites to
// remember to zeroize.
package secret

import "crypto/subtle"

// Bytes wraps a secret byte slice so it can only be rendered as redacted
// text and must be explicitly zeroized. It has no copy semantics worth
// preserving: copying the struct copies the slice header, not the
// underlying bytes, so Zero on any copy clears the same backing array.
type Bytes struct {
	b []byte
}

// New takes ownership of b. Callers must not retain their own reference to
// b after this call if they want Zero to be effective.
func New(b []byte) *Bytes {
	return &Bytes{b: b}
}

// NewCopy copies b into a freshly allocated secret buffer, leaving the
// caller's slice untouched.
func NewCopy(b []byte) *Bytes {
	cp := make([]byte, len(b))
	copy(cp, b)
	return &Bytes{b: cp}
}

// Expose returns the underlying slice. The returned slice aliases the
// secret's storage; it becomes invalid after Zero.
func (s *Bytes) Expose() []byte {
	if s == nil {
		return nil
	}
	return s.b
}

// Len returns the length of the wrapped buffer.
func (s *Bytes) Len() int {
	if s == nil {
		return 0
	}
	return len(s.b)
}

// Zero overwrites the buffer with zeros. Safe to call more than once and
// on a nil receiver.
func (s *Bytes) Zero() {
	if s == nil {
		return
	}
	Zeroize(s.b)
}

// String never renders the secret value, satisfying fmt.Stringer so that
// accidental %v/%s formatting of a secret can't leak it into a log line.
func (s *Bytes) String() string {
	if s == nil {
		return "secret.Bytes(nil)"
	}
	return "secret.Bytes(REDACTED)"
}

// GoString backs %#v the same way String backs %v/%s.
func (s *Bytes) GoString() string {
	return s.String()
}

// Zeroize overwrites b with zeros in place.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ZeroizeAll zeroizes every slice given.
func ZeroizeAll(bs ...[]byte) {
	for _, b := range bs {
		Zeroize(b)
	}
}

// ConstantTimeEqual reports whether a and b hold the same bytes, in time
// independent of where they first differ. Used for the encapsulation-key
// modulus re-encoding check and the ciphertext comparison that selects
// between the real and implicitly-rejected shared secret in decaps —
// neither comparison may short-circuit on a secret-derived value.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// ConstantTimeSelect returns a if v == 1, b if v == 0. v must be 0 or 1;
// any other value is undefined. Used to pick between the re-encryption's
// derived key and the implicit-rejection key without branching on the
// comparison result.
func ConstantTimeSelect(v int, a, b []byte) []byte {
	out := make([]byte, len(a))
	subtle.ConstantTimeCopy(int32AsInt(v), out, a)
	subtle.ConstantTimeCopy(1-int32AsInt(v), out, b)
	return out
}

func int32AsInt(v int) int {
	if v != 0 {
		return 1
	}
	return 0
}
