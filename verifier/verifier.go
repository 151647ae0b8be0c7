// Package verifier re-derives the winning number an external randomness
// service published for a slot and block hash.
//
// Every function in this package is pure: no I/O, no shared state, safe for
// concurrent use.
package verifier

// Verify runs the current algorithm version.
func Verify(slot uint64, blockhash string, modulus uint64) (Result, error) {
	return VerifyVersion(CurrentVersion, slot, blockhash, modulus)
}

func VerifyVersion(version Version, slot uint64, blockhash string, modulus uint64) (Result, error) {
	alg, err := Lookup(version)
	if err != nil {
		return Result{}, err
	}

	return alg.Verify(slot, blockhash, modulus)
}

// CheckVersion fails unless declared is exactly the version this module
// computes. A newer tag is a different algorithm and is never accepted.
func CheckVersion(declared string) error {
	if Version(declared) != CurrentVersion {
		return newVersionMismatchError(Version(declared), CurrentVersion)
	}

	return nil
}
