package chain

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// DefaultSS58Prefix is the generic Substrate address format.
const DefaultSS58Prefix = 42

// MaxSS58Prefix is the largest prefix the two-byte format can carry.
const MaxSS58Prefix = 16383

var ErrInvalidSS58 = errors.New("invalid ss58 address")

var ss58Pre = []byte("SS58PRE")

func ss58Checksum(payload []byte) []byte {
	sum := blake2b.Sum512(append(append([]byte(nil), ss58Pre...), payload...))
	return sum[:2]
}

// EncodeSS58 renders a 32-byte public key as an SS58 address.
func EncodeSS58(pub []byte, prefix uint16) string {
	var payload []byte
	if prefix < 64 {
		payload = []byte{byte(prefix)}
	} else {
		prefix &= MaxSS58Prefix
		first := byte((prefix&0b0000_0000_1111_1100)>>2) | 0b0100_0000
		second := byte(prefix>>8) | byte(prefix&0b0000_0000_0000_0011)<<6
		payload = []byte{first, second}
	}
	payload = append(payload, pub...)
	return base58.Encode(append(payload, ss58Checksum(payload)...))
}

// DecodeSS58 parses an SS58 address of a 32-byte key and verifies its checksum.
func DecodeSS58(addr string) (pub []byte, prefix uint16, err error) {
	data, err := base58.Decode(addr)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidSS58, err)
	}
	if len(data) < 2 {
		return nil, 0, fmt.Errorf("%w: too short", ErrInvalidSS58)
	}

	var prefixLen int
	switch {
	case data[0] < 64:
		prefixLen = 1
		prefix = uint16(data[0])
	case data[0] < 128:
		prefixLen = 2
		lower := data[0]<<2 | data[1]>>6
		upper := data[1] & 0b0011_1111
		prefix = uint16(lower) | uint16(upper)<<8
	default:
		return nil, 0, fmt.Errorf("%w: reserved prefix byte %#x", ErrInvalidSS58, data[0])
	}

	if len(data) != prefixLen+32+2 {
		return nil, 0, fmt.Errorf("%w: %d bytes, want %d", ErrInvalidSS58, len(data), prefixLen+32+2)
	}

	body, sum := data[:len(data)-2], data[len(data)-2:]
	if !bytes.Equal(ss58Checksum(body), sum) {
		return nil, 0, fmt.Errorf("%w: checksum mismatch", ErrInvalidSS58)
	}
	return body[prefixLen:], prefix, nil
}
