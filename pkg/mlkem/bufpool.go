package mlkem

import "sync"

// scratchPool recycles the fixed-size scratch buffer Encapsulate and
// Decapsulate hash and zeroize on every call (the 64-byte m||H(ek) input
// to G). Under sustained encapsulate/decapsulate load it would otherwise
// be allocated and immediately discarded on every call, so pooling it
// removes the allocator from the hot path the same way the ciphertext
// buffer pool this module descends from did for AEAD framing. The
// variable-length z||c input to J is not pooled; see getZCScratch.
//
// Grounded on pkg/crypto/buffer_pool.go's size-classed sync.Pool pattern,
// narrowed to the one fixed scratch size this package pools instead of
// the teacher's nonce/small/medium/large AEAD classes.
type scratchPool struct {
	hashInput sync.Pool // 64 bytes: m||H(ek) or m'||H(ek)
	zc        sync.Pool // never initialized or used: z||c comes from getZCScratch
}

const hashInputScratchSize = 64

var globalScratchPool = newScratchPool()

func newScratchPool() *scratchPool {
	return &scratchPool{
		hashInput: sync.Pool{
			New: func() any {
				buf := make([]byte, 0, hashInputScratchSize)
				return &buf
			},
		},
	}
}

// getHashInputScratch returns a zero-length, zeroed-capacity buffer of at
// least hashInputScratchSize bytes.
func (p *scratchPool) getHashInputScratch() []byte {
	bufPtr := p.hashInput.Get().(*[]byte)
	buf := (*bufPtr)[:0]
	return buf
}

// putHashInputScratch zeroizes the buffer's contents before returning it
// to the pool: it may have held key-derived secret material (m, H(ek)).
func (p *scratchPool) putHashInputScratch(buf []byte) {
	if cap(buf) < hashInputScratchSize {
		return
	}
	full := buf[:cap(buf)]
	for i := range full {
		full[i] = 0
	}
	full = full[:0]
	p.hashInput.Put(&full)
}

// getZCScratch returns a zero-length buffer with at least the requested
// capacity. z||c varies in length by parameter set (CiphertextSize(p)+32),
// so this is a plain sized allocation rather than a size-classed pool:
// with only three fixed parameter sets in play the variance is small
// enough that pooling by exact capacity would just fragment the pool
// across three classes for no measurable benefit.
func getZCScratch(capacity int) []byte {
	return make([]byte, 0, capacity)
}
