// Package params defines the three named ML-KEM parameter levels as Go
// types rather than runtime configuration, so that (k, eta1, eta2, du, dv)
// stay pinned at compile time the way FIPS 203's reference does with
// per-level monomorphization. Each level is an uninstantiated zero-size
// type implementing Set; code generic over Set is written once and
// specialized by the type argument, mirroring the capyKEM reference's
// ParameterSet trait (one trait, three concrete parameter structs).
package params

// Set binds the five FIPS 203 parameters for one ML-KEM security level.
// Implementations are zero-size marker types; none of these methods read
// any runtime state.
type Set interface {
	// K is the module rank.
	K() int
	// Eta1 is the CBD width used for the secret and keygen error vectors.
	Eta1() int
	// Eta2 is the CBD width used for the encryption error terms.
	Eta2() int
	// Du is the compression width for ciphertext component c1.
	Du() int
	// Dv is the compression width for ciphertext component c2.
	Dv() int
	// Name identifies the level for logging and error messages.
	Name() string
}

// ML512 is ML-KEM-512 (NIST Category 1).
type ML512 struct{}

func (ML512) K() int        { return 2 }
func (ML512) Eta1() int     { return 3 }
func (ML512) Eta2() int     { return 2 }
func (ML512) Du() int       { return 10 }
func (ML512) Dv() int       { return 4 }
func (ML512) Name() string  { return "ML-KEM-512" }

// ML768 is ML-KEM-768 (NIST Category 3).
type ML768 struct{}

func (ML768) K() int       { return 3 }
func (ML768) Eta1() int    { return 2 }
func (ML768) Eta2() int    { return 2 }
func (ML768) Du() int      { return 10 }
func (ML768) Dv() int      { return 4 }
func (ML768) Name() string { return "ML-KEM-768" }

// ML1024 is ML-KEM-1024 (NIST Category 5).
type ML1024 struct{}

func (ML1024) K() int       { return 4 }
func (ML1024) Eta1() int    { return 2 }
func (ML1024) Eta2() int    { return 2 }
func (ML1024) Du() int      { return 11 }
func (ML1024) Dv() int      { return 5 }
func (ML1024) Name() string { return "ML-KEM-1024" }

// EncapsulationKeySize returns |ek| = 384*k + 32 for p.
func EncapsulationKeySize(p Set) int { return 384*p.K() + 32 }

// DecapsulationKeySize returns |dk| = 768*k + 96 for p.
func DecapsulationKeySize(p Set) int { return 768*p.K() + 96 }

// CiphertextSize returns |c| = 32*(du*k + dv) for p.
func CiphertextSize(p Set) int { return 32 * (p.Du()*p.K() + p.Dv()) }

// PKEPrivateKeySize returns the size of the K-PKE-only private key,
// 384*k bytes (the encode_12(s_hat) component of dk).
func PKEPrivateKeySize(p Set) int { return 384 * p.K() }
