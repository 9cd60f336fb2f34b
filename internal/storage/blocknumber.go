package storage

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/dmagro/subspace-cli/internal/scale"
)

// DecodeError reports a storage key or value that does not match the layout
// expected for its map.
type DecodeError struct {
	Key    string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := "decode storage key " + e.Key + ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// BlockHashEntry is one row of the System.BlockHash map.
type BlockHashEntry struct {
	Number uint32
	Hash   common.Hash
}

// DecodeBlockNumberKey slices prefixHexLen+itemHashHexLen hex characters off
// a hex-encoded storage key and decodes the remainder as a little-endian u32.
// A leading "0x" is ignored.
//
// The boundary must match the node's hashers for the map being read: a wrong
// boundary that still leaves 8 hex characters decodes to a wrong number
// without error.
func DecodeBlockNumberKey(keyHex string, prefixHexLen, itemHashHexLen int) (uint32, error) {
	keyHex = strings.TrimPrefix(keyHex, "0x")
	head := prefixHexLen + itemHashHexLen
	if len(keyHex) < head {
		return 0, &DecodeError{
			Key:    keyHex,
			Reason: fmt.Sprintf("key has %d hex chars, prefix needs %d", len(keyHex), head),
		}
	}

	raw, err := hex.DecodeString(keyHex[head:])
	if err != nil {
		return 0, &DecodeError{Key: keyHex, Reason: "block number is not valid hex", Err: err}
	}
	if len(raw) != 4 {
		return 0, &DecodeError{
			Key:    keyHex,
			Reason: fmt.Sprintf("block number is %d bytes, want 4", len(raw)),
		}
	}

	number, err := scale.DecodeU32(raw)
	if err != nil {
		return 0, &DecodeError{Key: keyHex, Reason: "block number", Err: err}
	}
	return number, nil
}

// EncodeBlockNumberKey returns the System.BlockHash storage key for n.
func EncodeBlockNumberKey(n uint32) []byte {
	return BlockHashMap.Key(scale.EncodeU32(n))
}

// DecodeBlockHashEntry turns one System.BlockHash cursor entry into a typed row.
func DecodeBlockHashEntry(e *Entry) (BlockHashEntry, error) {
	number, err := DecodeBlockNumberKey(e.KeyHex(), PrefixHexLen, BlockHashMap.ItemHashHexLen())
	if err != nil {
		return BlockHashEntry{}, err
	}
	if len(e.Value) != common.HashLength {
		return BlockHashEntry{}, &DecodeError{
			Key:    e.KeyHex(),
			Reason: fmt.Sprintf("block hash value is %d bytes, want %d", len(e.Value), common.HashLength),
		}
	}
	return BlockHashEntry{Number: number, Hash: common.BytesToHash(e.Value)}, nil
}
