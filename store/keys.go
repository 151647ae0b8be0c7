package store

import (
	"encoding/binary"
)

const (
	auditRecordKey = 0x00
	lastRunKey     = 0x01
)

func slotPrefix(slot uint64) []byte {
	key := []byte{auditRecordKey}
	key = binary.BigEndian.AppendUint64(key, slot)

	return key
}

func recordKey(slot, modulus uint64, blockhash string) []byte {
	key := slotPrefix(slot)
	key = binary.BigEndian.AppendUint64(key, modulus)
	key = append(key, blockhash...)

	return key
}

// upperBound returns the smallest key greater than every key starting with
// prefix, or nil when no such key exists.
func upperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}

	return nil
}
