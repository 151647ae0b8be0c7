package verifier

import (
	"github.com/pkg/errors"

	"github.com/iseefortune/go-verifier/utils"
)

type Version string

const (
	V1 Version = "v1"

	CurrentVersion = V1
)

const (
	BlockhashSize = 32
	MessageSize   = 8 + BlockhashSize

	// MaxDigestSum is the byte sum of a digest made of 0xff bytes only.
	MaxDigestSum = 32 * 255
)

// Message is the digest material of algorithm v1. Field order and widths are
// part of the v1 contract: slot as little-endian u64, then the raw hash bytes.
type Message struct {
	Slot      uint64
	Blockhash [BlockhashSize]byte
}

func (m *Message) MarshallBinary() ([]byte, error) {
	b, err := utils.BinarySerialize(m)
	if err != nil {
		return nil, errors.Wrap(err, "serializing message")
	}

	return b, nil
}

func (m *Message) Digest() ([32]byte, error) {
	b, err := m.MarshallBinary()
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "serializing message")
	}

	digest, err := utils.Sha256Hash(b)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "hashing message")
	}

	return digest, nil
}

type Result struct {
	Version       Version
	Slot          uint64
	Blockhash     string
	WinningNumber uint64
	Debug         Debug
}

// Debug holds every intermediate value of a derivation so an auditor can
// recompute each step independently.
type Debug struct {
	DecodedLen   int    `json:"decoded_len"`
	SlotLEHex    string `json:"slot_u64_le_hex"`
	BlockhashHex string `json:"blockhash_bytes_hex"`
	MessageHex   string `json:"message_hex"`
	DigestHex    string `json:"digest_sha256_hex"`
	DigestSum    uint64 `json:"digest_sum_u64"`
	Modulus      uint64 `json:"modulus"`
}
