package database

import (
	"encoding/binary"
	"fmt"
)

// keySize is the width of an encoded item key. Keys are big-endian so that
// byte order and numeric order agree.
const keySize = 8

func encodeKey(key uint64) []byte {
	b := make([]byte, keySize)
	binary.BigEndian.PutUint64(b, key)
	return b
}

func decodeKey(b []byte) (uint64, error) {
	if len(b) != keySize {
		return 0, fmt.Errorf("invalid key length %d", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}
