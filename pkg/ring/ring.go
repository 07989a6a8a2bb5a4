// Package ring implements R_q, the ring Z_q[X]/(X^256+1) ML-KEM's
// polynomials live in: element arithmetic, the centered binomial noise
// sampler, compression/decompression, and the two serializations FIPS 203
// defines over R_q (the general d-bit coefficient encoding and the 1-bit
// message encoding).
//
// Grounded on original_source/src/math/ring_element.rs for the shape of
// Element (a [256]field.Element array) and SampleCBD, generalized from
// that file's eta=2-only sampler to FIPS 203 Algorithm 8's general eta via
// the same bit-counting construction, since ML-KEM-512 needs eta_1=3.
package ring

import (
	"github.com/sara-star-quant/mlkem-go/internal/bitpack"
	"github.com/sara-star-quant/mlkem-go/pkg/field"
	"github.com/sara-star-quant/mlkem-go/pkg/symmetric"
)

const N = 256

// Element is a polynomial in R_q: 256 coefficients, each reduced mod q.
type Element struct {
	Coeffs [N]field.Element
}

// Zero returns the additive identity of R_q.
func Zero() Element {
	return Element{}
}

// Add returns a+b coefficient-wise.
func (a Element) Add(b Element) Element {
	var out Element
	for i := range a.Coeffs {
		out.Coeffs[i] = a.Coeffs[i].Add(b.Coeffs[i])
	}
	return out
}

// Sub returns a-b coefficient-wise.
func (a Element) Sub(b Element) Element {
	var out Element
	for i := range a.Coeffs {
		out.Coeffs[i] = a.Coeffs[i].Sub(b.Coeffs[i])
	}
	return out
}

// Neg returns -a coefficient-wise.
func (a Element) Neg() Element {
	var out Element
	for i := range a.Coeffs {
		out.Coeffs[i] = a.Coeffs[i].Neg()
	}
	return out
}

// Compress applies field.CompressD to every coefficient, per FIPS 203
// Definition 4.5 extended coefficient-wise to a polynomial.
func (a Element) Compress(d uint) Element {
	var out Element
	for i := range a.Coeffs {
		out.Coeffs[i] = field.New(field.CompressD(a.Coeffs[i], d))
	}
	return out
}

// Decompress applies field.DecompressD to every coefficient.
func (a Element) Decompress(d uint) Element {
	var out Element
	for i := range a.Coeffs {
		out.Coeffs[i] = field.DecompressD(a.Coeffs[i].Val(), d)
	}
	return out
}

// SampleCBD implements FIPS 203 Algorithm 8 (SamplePolyCBD_eta): draw
// 64*eta bytes from PRF_eta(s, b) and turn them into N coefficients
// distributed as the difference of two independent Binomial(eta, 1/2)
// variables, each reduced mod q.
func SampleCBD(eta int, s []byte, b byte) Element {
	bytes := symmetric.PRF(eta, s, b)

	// Treat the byte stream as a bit stream, LSB first within each byte,
	// exactly as FIPS 203 Algorithm 8's BitsToBytes inverse does.
	bits := make([]byte, 0, len(bytes)*8)
	for _, byt := range bytes {
		for k := 0; k < 8; k++ {
			bits = append(bits, (byt>>uint(k))&1)
		}
	}

	var out Element
	for i := 0; i < N; i++ {
		var x, y uint16
		base := 2 * eta * i
		for j := 0; j < eta; j++ {
			x += uint16(bits[base+j])
		}
		for j := 0; j < eta; j++ {
			y += uint16(bits[base+eta+j])
		}
		out.Coeffs[i] = field.New(x).Sub(field.New(y))
	}
	return out
}

// Encode serializes the polynomial's coefficients as d-bit values per FIPS
// 203 Algorithm 4 (ByteEncode_d). For d=12 the coefficients must already be
// fully reduced mod q; for d<12 (compressed form) they must fit in d bits.
func (a Element) Encode(d int) []byte {
	var vals [N]uint16
	for i, c := range a.Coeffs {
		vals[i] = c.Val()
	}
	return bitpack.Encode(d, vals)
}

// Decode implements FIPS 203 Algorithm 5 (ByteDecode_d). For d=12 every
// decoded value must be < q; DecodeChecked enforces that, mirroring
// capyKEM's check_reduced. Decode itself performs no check and is used for
// d<12 where every d-bit value is already a valid field representative.
func Decode(d int, bytes []byte) Element {
	vals := bitpack.Decode(d, bytes)
	var out Element
	for i, v := range vals {
		out.Coeffs[i] = field.New(v)
	}
	return out
}

// DecodeChecked is Decode for d=12, additionally rejecting any coefficient
// that decoded to a value >= q, per FIPS 203's requirement that
// ByteDecode_12 reject improperly reduced encodings when used to decode a
// public value (an encapsulation key's t_hat and a private key's s_hat are
// decoded at d=12, a K-PKE ciphertext's u/v never is, and implementations
// that skip this check have historically been the source of malleability
// bugs). The K-PKE and ML-KEM code paths use ntt.DecodeChecked, which
// performs the same check for T_q elements.
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

// EncodeMessage packs a 32-byte message into R_q by mapping each bit m_i
// to the polynomial coefficient Decompress_1(m_i) = m_i * (q+1)/2, per
// FIPS 203's K-PKE.Encrypt step 4 (mu <- Decompress_1(ByteDecode_1(m))).
func EncodeMessage(m [32]byte) Element {
	var bits [N]uint16
	for i := 0; i < N; i++ {
		bits[i] = uint16((m[i/8] >> uint(i%8)) & 1)
	}
	var out Element
	for i, b := range bits {
		out.Coeffs[i] = field.DecompressD(b, 1)
	}
	return out
}

// DecodeMessage inverts EncodeMessage: compress each coefficient back to
// a single bit and pack the 256 bits into 32 bytes, per K-PKE.Decrypt's
// final step (m <- ByteEncode_1(Compress_1(w))).
func DecodeMessage(a Element) [32]byte {
	var m [32]byte
	for i, c := range a.Coeffs {
		bit := field.CompressD(c, 1)
		m[i/8] |= byte(bit) << uint(i%8)
	}
	return m
}
