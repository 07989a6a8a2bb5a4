package mlkem

import (
	"crypto/rand"
	"io"

	"github.com/sara-star-quant/mlkem-go/internal/errors"
)

// secureRandom32 reads 32 cryptographically secure random bytes, sourced
// from the OS CSPRNG via crypto/rand. Used for the keygen seeds d and z
// (FIPS 203 §7.1) and the encapsulation message m (§7.2); a CSPRNG
// failure here is a critical system failure, not a recoverable input
// error, so callers propagate it rather than retry.
func secureRandom32() ([32]byte, error) {
	var b [32]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		return b, errors.NewCryptoError("secureRandom32", err)
	}
	return b, nil
}
