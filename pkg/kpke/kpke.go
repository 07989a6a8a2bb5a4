// Package kpke implements K-PKE, the internal public-key encryption
// scheme FIPS 203 §5 builds ML-KEM on top of via the Fujisaki-Okamoto
// transform in pkg/mlkem. K-PKE itself is not IND-CCA2 secure and is
// never exposed outside this module.
//
// Grounded on original_source/src/fips203/{keygen,encrypt,decrypt}.rs for
// the three algorithms' shapes, generalized to Go generics over
// params.Set in place of the Rust reference's typenum-based ParameterSet
// monomorphization.
package kpke

import (
	"github.com/sara-star-quant/mlkem-go/pkg/ntt"
	"github.com/sara-star-quant/mlkem-go/pkg/params"
	"github.com/sara-star-quant/mlkem-go/pkg/ring"
	"github.com/sara-star-quant/mlkem-go/pkg/symmetric"
)

const encode12Size = 384

// matrixA samples the k*k NTT-domain matrix from a 32-byte seed. When
// transpose is false it produces A_hat[i][j] = SampleNTT(rho, j, i), the
// convention K-PKE.KeyGen uses to build t_hat = A_hat*s_hat + e_hat; when
// true it produces A_hat^T[i][j] = SampleNTT(rho, i, j), the convention
// K-PKE.Encrypt uses to build u = A_hat^T*r_hat + e1. Swapping the two
// index arguments between the two call sites produces the transpose
// without ever materializing or swapping the matrix itself.
func matrixA(k int, rho []byte, transpose bool) [][]ntt.Element {
	a := make([][]ntt.Element, k)
	for i := range a {
		a[i] = make([]ntt.Element, k)
		for j := range a[i] {
			if transpose {
				a[i][j] = ntt.SampleUniform(rho, byte(i), byte(j))
			} else {
				a[i][j] = ntt.SampleUniform(rho, byte(j), byte(i))
			}
		}
	}
	return a
}

// KeyGen implements FIPS 203 Algorithm 13 (K-PKE.KeyGen). d is the
// 32-byte randomness; the returned ekPKE is 384*k+32 bytes
// (ByteEncode_12(t_hat) || rho) and dkPKE is 384*k bytes
// (ByteEncode_12(s_hat)).
func KeyGen[S params.Set](d [32]byte) (ekPKE, dkPKE []byte) {
	var p S
	k := p.K()

	seedInput := make([]byte, 0, 33)
	seedInput = append(seedInput, d[:]...)
	seedInput = append(seedInput, byte(k))
	rho, sigma := symmetric.G(seedInput)

	aHat := matrixA(k, rho[:], false)

	n := byte(0)
	sHat := make([]ntt.Element, k)
	for i := range sHat {
		sHat[i] = ntt.Forward(ring.SampleCBD(p.Eta1(), sigma[:], n))
		n++
	}
	eHat := make([]ntt.Element, k)
	for i := range eHat {
		eHat[i] = ntt.Forward(ring.SampleCBD(p.Eta1(), sigma[:], n))
		n++
	}

	tHat := make([]ntt.Element, k)
	for i := range tHat {
		acc := eHat[i]
		for j := 0; j < k; j++ {
			acc = acc.Add(ntt.Multiply(aHat[i][j], sHat[j]))
		}
		tHat[i] = acc
	}

	ekPKE = make([]byte, 0, encode12Size*k+32)
	for _, t := range tHat {
		ekPKE = append(ekPKE, t.Encode(12)...)
	}
	ekPKE = append(ekPKE, rho[:]...)

	dkPKE = make([]byte, 0, encode12Size*k)
	for _, s := range sHat {
		dkPKE = append(dkPKE, s.Encode(12)...)
	}

	return ekPKE, dkPKE
}

// Encrypt implements FIPS 203 Algorithm 14 (K-PKE.Encrypt). rand is the
// 32-byte encryption randomness; ok is false if ekPKE fails its length
// check or a 12-bit decode rejects an out-of-range coefficient.
func Encrypt[S params.Set](ekPKE []byte, m [32]byte, rand []byte) (c []byte, ok bool) {
	var p S
	k := p.K()

	if len(ekPKE) != encode12Size*k+32 {
		return nil, false
	}

	tHat := make([]ntt.Element, k)
	for i := 0; i < k; i++ {
		elem, good := ntt.DecodeChecked(ekPKE[i*encode12Size : (i+1)*encode12Size])
		if !good {
			return nil, false
		}
		tHat[i] = elem
	}
	rho := ekPKE[encode12Size*k:]

	aHatT := matrixA(k, rho, true)

	n := byte(0)
	rHat := make([]ntt.Element, k)
	for i := range rHat {
		rHat[i] = ntt.Forward(ring.SampleCBD(p.Eta1(), rand, n))
		n++
	}
	e1 := make([]ring.Element, k)
	for i := range e1 {
		e1[i] = ring.SampleCBD(p.Eta2(), rand, n)
		n++
	}
	e2 := ring.SampleCBD(p.Eta2(), rand, n)

	u := make([]ring.Element, k)
	for i := range u {
		acc := ntt.Zero()
		for j := 0; j < k; j++ {
			acc = acc.Add(ntt.Multiply(aHatT[i][j], rHat[j]))
		}
		u[i] = ntt.Inverse(acc).Add(e1[i])
	}

	vHat := ntt.Zero()
	for i := 0; i < k; i++ {
		vHat = vHat.Add(ntt.Multiply(tHat[i], rHat[i]))
	}
	mu := ring.EncodeMessage(m)
	v := ntt.Inverse(vHat).Add(e2).Add(mu)

	c = make([]byte, 0, params.CiphertextSize(p))
	for i := range u {
		c = append(c, u[i].Compress(uint(p.Du())).Encode(p.Du())...)
	}
	c = append(c, v.Compress(uint(p.Dv())).Encode(p.Dv())...)

	return c, true
}

// Decrypt implements FIPS 203 Algorithm 15 (K-PKE.Decrypt).
func Decrypt[S params.Set](dkPKE []byte, c []byte) [32]byte {
	var p S
	k := p.K()
	du, dv := p.Du(), p.Dv()

	uEncLen := (32 * du)
	u := make([]ring.Element, k)
	for i := 0; i < k; i++ {
		enc := c[i*uEncLen : (i+1)*uEncLen]
		u[i] = ring.Decode(du, enc).Decompress(uint(du))
	}

	vEnc := c[uEncLen*k:]
	v := ring.Decode(dv, vEnc).Decompress(uint(dv))

	sHat := make([]ntt.Element, k)
	for i := 0; i < k; i++ {
		// dkPKE is our own K-PKE private key, never attacker-controlled,
		// so its encoding is trusted and the range check's result is
		// ignored here.
		sHat[i], _ = ntt.DecodeChecked(dkPKE[i*encode12Size : (i+1)*encode12Size])
	}

	y := ntt.Zero()
	for i := 0; i < k; i++ {
		y = y.Add(ntt.Multiply(sHat[i], ntt.Forward(u[i])))
	}
	w := v.Sub(ntt.Inverse(y))

	return ring.DecodeMessage(w)
}
