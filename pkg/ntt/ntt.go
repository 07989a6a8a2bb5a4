// Package ntt implements T_q, the NTT domain ML-KEM's matrix/vector
// arithmetic runs in, plus the forward/inverse transforms between R_q and
// T_q and the uniform rejection sampler FIPS 203 Algorithm 7 (SampleNTT)
// uses to expand a public seed into the K-PKE matrix A-hat.
//
// Grounded on original_source/src/math/ntt_element.rs and
// original_source/src/math/ntt.rs: both forward and inverse transforms walk
// the same internal/constants.NTTRoots table, just in opposite directions
// (k incrementing from 1 in the forward direction, decrementing from 127 in
// the inverse), and base-case multiplication uses the separate ModRoots
// table keyed by pair index.
package ntt

import (
	"github.com/sara-star-quant/mlkem-go/internal/bitpack"
	"github.com/sara-star-quant/mlkem-go/internal/constants"
	"github.com/sara-star-quant/mlkem-go/pkg/field"
	"github.com/sara-star-quant/mlkem-go/pkg/ring"
	"github.com/sara-star-quant/mlkem-go/pkg/symmetric"
)

const n = ring.N

// Element is a polynomial in T_q: the NTT-domain representation of an
// R_q element, stored as 256 field elements.
type Element struct {
	Coeffs [n]field.Element
}

// Zero returns the NTT-domain additive identity.
func Zero() Element {
	return Element{}
}

// Forward computes NTT(f), FIPS 203 Algorithm 9.
func Forward(f ring.Element) Element {
	coeffs := f.Coeffs
	k := 1
	for length := 128; length >= 2; length /= 2 {
		for start := 0; start < n; start += 2 * length {
			zeta := field.New(constants.NTTRoots[k])
			k++
			for j := start; j < start+length; j++ {
				t := zeta.Mul(coeffs[j+length])
				coeffs[j+length] = coeffs[j].Sub(t)
				coeffs[j] = coeffs[j].Add(t)
			}
		}
	}
	return Element{Coeffs: coeffs}
}

// Inverse computes NTT^-1(f_hat), FIPS 203 Algorithm 10. It walks the same
// NTTRoots table Forward does, starting at index 127 and decrementing,
// then scales every coefficient by 128^-1 mod q (ZetaInvMultiplier).
func Inverse(fHat Element) ring.Element {
	coeffs := fHat.Coeffs
	k := 127
	for length := 2; length <= 128; length *= 2 {
		for start := 0; start < n; start += 2 * length {
			zeta := field.New(constants.NTTRoots[k])
			k--
			for j := start; j < start+length; j++ {
				t := coeffs[j]
				coeffs[j] = t.Add(coeffs[j+length])
				coeffs[j+length] = zeta.Mul(coeffs[j+length].Sub(t))
			}
		}
	}
	invMul := field.New(constants.ZetaInvMultiplier)
	for i := range coeffs {
		coeffs[i] = coeffs[i].Mul(invMul)
	}
	return ring.Element{Coeffs: coeffs}
}

// Multiply computes the product of two T_q elements, FIPS 203 Algorithm
// 11: 128 independent degree-1 multiplications modulo X^2 - gamma_i, one
// per entry of constants.ModRoots.
func Multiply(a, b Element) Element {
	var out Element
	for i, gamma := range constants.ModRoots {
		a0, a1 := a.Coeffs[2*i], a.Coeffs[2*i+1]
		b0, b1 := b.Coeffs[2*i], b.Coeffs[2*i+1]
		g := field.New(gamma)

		c0 := a0.Mul(b0).Add(a1.Mul(b1).Mul(g))
		c1 := a0.Mul(b1).Add(a1.Mul(b0))

		out.Coeffs[2*i] = c0
		out.Coeffs[2*i+1] = c1
	}
	return out
}

// Add returns a+b coefficient-wise; T_q is isomorphic to R_q as an
// additive group so this is the same operation as ring.Element.Add.
func (a Element) Add(b Element) Element {
	var out Element
	for i := range a.Coeffs {
		out.Coeffs[i] = a.Coeffs[i].Add(b.Coeffs[i])
	}
	return out
}

// SampleUniform implements FIPS 203 Algorithm 7 (SampleNTT): rejection
// sample 12-bit groups from XOF(rho, i, j) until 256 values below q have
// been accepted.
func SampleUniform(rho []byte, i, j byte) Element {
	xof := symmetric.NewXOF(rho, i, j)

	var out Element
	count := 0
	for count < n {
		buf := xof.Squeeze(3)
		d1 := uint16(buf[0]) | (uint16(buf[1])&0x0F)<<8
		d2 := uint16(buf[1])>>4 | uint16(buf[2])<<4

		if d1 < field.Q {
			out.Coeffs[count] = field.New(d1)
			count++
		}
		if count < n && d2 < field.Q {
			out.Coeffs[count] = field.New(d2)
			count++
		}
	}
	return out
}

// Encode serializes the element's coefficients as d-bit values, the same
// encoding ring.Element.Encode uses (T_q and R_q share FIPS 203's
// ByteEncode_d/ByteDecode_d).
func (a Element) Encode(d int) []byte {
	var vals [n]uint16
	for i, c := range a.Coeffs {
		vals[i] = c.Val()
	}
	return bitpack.Encode(d, vals)
}

// DecodeChecked is ByteDecode_12 for a T_q element, rejecting any
// coefficient >= q.
func DecodeChecked(bytes []byte) (Element, bool) {
	vals := bitpack.Decode(12, bytes)
	var out Element
	for i, v := range vals {
		if v >= field.Q {
			return Element{}, false
		}
		out.Coeffs[i] = field.New(v)
	}
	return out, true
}
