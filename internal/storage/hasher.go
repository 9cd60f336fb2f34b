// Package storage builds and takes apart the keys of hashed storage maps and
// iterates remote maps through a paged cursor.
package storage

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
)

// Hasher is the key hashing scheme of a storage map.
type Hasher int

const (
	Twox64Concat Hasher = iota + 1
	Blake2_128Concat
)

func (h Hasher) String() string {
	switch h {
	case Twox64Concat:
		return "Twox64Concat"
	case Blake2_128Concat:
		return "Blake2_128Concat"
	default:
		return "Unknown"
	}
}

// HashLen is the width in bytes of the hash placed before the encoded key.
func (h Hasher) HashLen() int {
	switch h {
	case Twox64Concat:
		return 8
	case Blake2_128Concat:
		return 16
	default:
		return 0
	}
}

// Hash returns the hashed form of an encoded map key as it appears in the
// storage key: hash(key) ++ key for the concatenating hashers.
func (h Hasher) Hash(key []byte) []byte {
	switch h {
	case Twox64Concat:
		return append(Twox64(key), key...)
	case Blake2_128Concat:
		return append(Blake2_128(key), key...)
	default:
		panic("storage: unknown hasher " + h.String())
	}
}

// Twox64 is xxhash64 with seed 0, little-endian.
func Twox64(data []byte) []byte {
	return twox(data, 0)
}

// Twox128 is the concatenation of xxhash64 with seeds 0 and 1, each little-endian.
func Twox128(data []byte) []byte {
	return append(twox(data, 0), twox(data, 1)...)
}

func twox(data []byte, seed uint64) []byte {
	d := xxhash.NewWithSeed(seed)
	_, _ = d.Write(data)
	return binary.LittleEndian.AppendUint64(nil, d.Sum64())
}

func Blake2_128(data []byte) []byte {
	h, err := blake2b.New(16, nil)
	if err != nil {
		// only returned for invalid sizes or keys
		panic(err)
	}
	_, _ = h.Write(data)
	return h.Sum(nil)
}
