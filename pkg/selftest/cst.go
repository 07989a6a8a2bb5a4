package selftest

import (
	"fmt"
	"sync"

	"github.com/sara-star-quant/mlkem-go/pkg/mlkem"
	"github.com/sara-star-quant/mlkem-go/pkg/params"
)

// Config configures Conditional Self-Test behavior, in the shape of the
// teacher codebase's CSTConfig.
type Config struct {
	// EnablePairwiseTest runs PairwiseConsistencyTest after every
	// GenerateKeyPairChecked call (mlkem.GenerateKeyPair itself never runs
	// it).
	EnablePairwiseTest bool
}

// DefaultConfig returns the default CST configuration: pairwise tests on
// in FIPS mode, off otherwise (matching DefaultCSTConfig's FIPS-mode
// default).
func DefaultConfig() Config {
	return Config{EnablePairwiseTest: FIPSMode()}
}

var (
	cstConfig     Config
	cstConfigOnce sync.Once
)

// InitCST sets the Conditional Self-Test configuration. Must be called
// before GenerateKeyPairChecked if a non-default configuration is needed;
// otherwise DefaultConfig applies.
func InitCST(c Config) {
	cstConfigOnce.Do(func() { cstConfig = c })
}

func getConfig() Config {
	cstConfigOnce.Do(func() { cstConfig = DefaultConfig() })
	return cstConfig
}

// Outcome is the result of a Conditional Self-Test.
type Outcome struct {
	Passed bool
	Err    error
}

// PairwiseConsistencyTest implements the FIPS 140-3 pairwise consistency
// test for an ML-KEM key pair: encapsulate against ek, decapsulate
// against dk, and verify the two sides agree on a non-zero shared secret.
func PairwiseConsistencyTest[S params.Set](ek mlkem.EncapsulationKey, dk mlkem.DecapsulationKey) *Outcome {
	K1, c, err := mlkem.Encapsulate[S](ek)
	if err != nil {
		return &Outcome{Err: fmt.Errorf("encapsulation failed: %w", err)}
	}
	K2, err := mlkem.Decapsulate[S](dk, c)
	if err != nil {
		return &Outcome{Err: fmt.Errorf("decapsulation failed: %w", err)}
	}
	if K1 != K2 {
		return &Outcome{Err: fmt.Errorf("shared secrets do not match")}
	}
	if K1 == [mlkem.SharedSecretSize]byte{} {
		return &Outcome{Err: fmt.Errorf("shared secret is all zeros")}
	}
	return &Outcome{Passed: true}
}

// GenerateKeyPairChecked generates a key pair and, if the active CST
// configuration has EnablePairwiseTest set, runs PairwiseConsistencyTest
// on it before returning. In FIPS mode a failed check panics; otherwise
// it is surfaced as an error.
func GenerateKeyPairChecked[S params.Set](d, z [32]byte) (mlkem.EncapsulationKey, mlkem.DecapsulationKey, error) {
	ek, dk := mlkem.GenerateKeyPair[S](d, z)

	if getConfig().EnablePairwiseTest {
		outcome := PairwiseConsistencyTest[S](ek, dk)
		if !outcome.Passed {
			if FIPSMode() {
				panic(fmt.Sprintf("FIPS pairwise consistency test failed: %v", outcome.Err))
			}
			return nil, nil, fmt.Errorf("pairwise consistency test failed: %w", outcome.Err)
		}
	}

	return ek, dk, nil
}
