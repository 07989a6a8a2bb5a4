// Package bitpack implements the generic d-bit packing FIPS 203 Algorithms
// 4/5 (ByteEncode_d/ByteDecode_d) use to serialize 256-element coefficient
// arrays into byte strings, shared by pkg/ring (R_q elements) and pkg/ntt
// (T_q elements) since both encode the same way.
//
// Grounded on original_source/src/math/encoding.rs's byte_encode/byte_decode,
// which packs val_step values into byte_step bytes via a wide little-endian
// accumulator. The Rust reference picks val_step/byte_step from typenum
// arithmetic (lcm(d,8)/d, lcm(d,8)/8) at compile time; Go has no const
// generics, so this builds the same two numbers with math/big-free integer
// gcd/lcm at call time. Every call site in this module passes a literal d,
// so the extra arithmetic is over constants that could be precomputed, but
// keeping it general avoids a second, bespoke packer per width.
package bitpack

const n = 256

// widths this module ever packs: 1 (message), 4, 5, 10, 11 (compression),
// 12 (uncompressed field elements).

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// steps returns (valStep, byteStep): valStep values pack exactly into
// byteStep bytes with no remaining fractional byte, i.e. lcm(d,8)/d and
// lcm(d,8)/8.
func steps(d int) (valStep, byteStep int) {
	l := d * 8 / gcd(d, 8)
	return l / d, l / 8
}

// EncodedLen returns the length in bytes of a d-bit encoding of 256
// coefficients: 32*d.
func EncodedLen(d int) int {
	return 32 * d
}

// Encode packs 256 values (each required to fit in d bits) into
// EncodedLen(d) bytes, little-endian within each val_step/byte_step group,
// matching byte_encode::<D> in the Rust reference.
func Encode(d int, vals [n]uint16) []byte {
	valStep, byteStep := steps(d)
	out := make([]byte, 0, EncodedLen(d))

	for i := 0; i < n; i += valStep {
		var x uint64
		var x2 uint64 // overflow half, used only when d*valStep > 64
		for j := 0; j < valStep; j++ {
			shift := d * j
			v := uint64(vals[i+j])
			if shift < 64 {
				x |= v << uint(shift)
				if shift+d > 64 {
					x2 |= v >> uint(64-shift)
				}
			} else {
				x2 |= v << uint(shift-64)
			}
		}

		buf := make([]byte, 16)
		for k := 0; k < 8; k++ {
			buf[k] = byte(x >> uint(8*k))
			buf[8+k] = byte(x2 >> uint(8*k))
		}
		out = append(out, buf[:byteStep]...)
	}
	return out
}

// Decode unpacks a d-bit encoding back into 256 values in [0, 2^d). When
// d == 12 the caller (pkg/ring/pkg/ntt) is responsible for the additional
// "< q" range check FIPS 203 requires of uncompressed-coefficient decoding;
// this function only undoes the bit packing.
func Decode(d int, bytes []byte) [n]uint16 {
	valStep, byteStep := steps(d)
	mask := uint64(1)<<uint(d) - 1

	var vals [n]uint16
	idx := 0
	for off := 0; off < len(bytes); off += byteStep {
		var buf [16]byte
		copy(buf[:], bytes[off:off+byteStep])

		var x, x2 uint64
		for k := 0; k < 8; k++ {
			x |= uint64(buf[k]) << uint(8*k)
			x2 |= uint64(buf[8+k]) << uint(8*k)
		}

		for j := 0; j < valStep; j++ {
			shift := d * j
			var v uint64
			if shift < 64 {
				v = x >> uint(shift)
				if shift+d > 64 {
					v |= x2 << uint(64-shift)
				}
			} else {
				v = x2 >> uint(shift-64)
			}
			vals[idx] = uint16(v & mask)
			idx++
		}
	}
	return vals
}
