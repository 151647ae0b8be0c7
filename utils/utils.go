package utils

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"

	"github.com/minio/sha256-simd"
	"github.com/pkg/errors"
)

func Sha256Hash(data []byte) ([32]byte, error) {
	h := sha256.New()
	_, err := h.Write(data)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "sha256 hashing")
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))

	return out, nil
}

// BinarySerialize writes data using little-endian encoding with no padding
// between fields, so a struct of fixed-size fields maps to an exact byte layout.
func BinarySerialize(data interface{}) ([]byte, error) {
	if data == nil {
		return nil, nil
	}

	var buff bytes.Buffer
	err := binary.Write(&buff, binary.LittleEndian, data)
	if err != nil {
		return nil, errors.Wrap(err, "writing data to buff")
	}

	return buff.Bytes(), nil
}

func Uint64ToLEHex(v uint64) string {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)

	return hex.EncodeToString(b[:])
}

func ByteSum(data []byte) uint64 {
	var total uint64
	for _, b := range data {
		total += uint64(b)
	}

	return total
}
