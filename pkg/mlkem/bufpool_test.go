package mlkem

import "testing"

func TestHashInputScratchIsZeroedOnReturn(t *testing.T) {
	buf := globalScratchPool.getHashInputScratch()
	buf = append(buf, []byte("secret-looking-material-32-bytes")...)
	globalScratchPool.putHashInputScratch(buf)

	reused := globalScratchPool.getHashInputScratch()
	full := reused[:cap(reused)]
	for i, b := range full {
		if b != 0 {
			t.Fatalf("pooled buffer not zeroed at index %d: %v", i, full)
		}
	}
}

func TestHashInputScratchRejectsUndersizedBuffer(t *testing.T) {
	small := make([]byte, 0, 4)
	// Must not panic and must not be absorbed into the pool.
	globalScratchPool.putHashInputScratch(small)
}

func TestZCScratchHasRequestedCapacity(t *testing.T) {
	buf := getZCScratch(96)
	if cap(buf) < 96 || len(buf) != 0 {
		t.Fatalf("getZCScratch(96) = len %d cap %d, want len 0 cap >= 96", len(buf), cap(buf))
	}
}
