package verifier

import (
	"encoding/hex"
	"sort"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/iseefortune/go-verifier/utils"
)

// Algorithm is one frozen variant of the winning number derivation. A change
// to byte layout, digest or reduction is a new Algorithm under a new Version.
type Algorithm interface {
	Version() Version
	Verify(slot uint64, blockhash string, modulus uint64) (Result, error)
}

// algorithms is the closed set of supported variants, selected by tag.
var algorithms = map[Version]Algorithm{
	V1: algorithmV1{},
}

func Lookup(version Version) (Algorithm, error) {
	alg, ok := algorithms[version]
	if !ok {
		return nil, newVersionMismatchError(version, "")
	}

	return alg, nil
}

func Versions() []Version {
	versions := make([]Version, 0, len(algorithms))
	for v := range algorithms {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })

	return versions
}

// algorithmV1:
//   - base58 decode blockhash, expect 32 bytes
//   - digest = sha256(slot_le_u64 || blockhash)
//   - winning = sum(digest bytes) % modulus
type algorithmV1 struct{}

func (algorithmV1) Version() Version { return V1 }

func (a algorithmV1) Verify(slot uint64, blockhash string, modulus uint64) (Result, error) {
	if modulus == 0 {
		return Result{}, ErrInvalidModulus
	}

	hashBytes, err := decodeBlockhash(blockhash)
	if err != nil {
		return Result{}, err
	}

	msg := Message{Slot: slot, Blockhash: hashBytes}
	b, err := msg.MarshallBinary()
	if err != nil {
		return Result{}, errors.Wrap(err, "building digest material")
	}
	if len(b) != MessageSize {
		return Result{}, errors.Errorf("digest material must be %d bytes, got %d", MessageSize, len(b))
	}

	digest, err := utils.Sha256Hash(b)
	if err != nil {
		return Result{}, errors.Wrap(err, "hashing digest material")
	}

	total := utils.ByteSum(digest[:])

	return Result{
		Version:       a.Version(),
		Slot:          slot,
		Blockhash:     blockhash,
		WinningNumber: total % modulus,
		Debug: Debug{
			DecodedLen:   len(hashBytes),
			SlotLEHex:    utils.Uint64ToLEHex(slot),
			BlockhashHex: hex.EncodeToString(hashBytes[:]),
			MessageHex:   hex.EncodeToString(b),
			DigestHex:    hex.EncodeToString(digest[:]),
			DigestSum:    total,
			Modulus:      modulus,
		},
	}, nil
}

func decodeBlockhash(blockhash string) ([BlockhashSize]byte, error) {
	var out [BlockhashSize]byte

	// an empty string is valid base58 for zero bytes
	if blockhash == "" {
		return out, newInvalidLengthError(0)
	}

	decoded, err := base58.Decode(blockhash)
	if err != nil {
		return out, newInvalidEncodingError(err)
	}

	if len(decoded) != BlockhashSize {
		return out, newInvalidLengthError(len(decoded))
	}
	copy(out[:], decoded)

	return out, nil
}
