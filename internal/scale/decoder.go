// Package scale decodes the subset of the SCALE codec used by the storage
// items this tool reads: fixed-width little-endian integers, u128 balances
// and compact-prefixed lengths.
package scale

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

var (
	ErrUnexpectedEOF   = errors.New("scale: unexpected end of input")
	ErrTrailingBytes   = errors.New("scale: trailing bytes after value")
	ErrCompactOverflow = errors.New("scale: compact integer overflows uint64")
)

// Decoder reads SCALE values sequentially from a byte slice.
type Decoder struct {
	buf []byte
	off int
}

func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.off
}

// Rest returns the unread bytes without consuming them.
func (d *Decoder) Rest() []byte {
	return d.buf[d.off:]
}

// Finish reports an error if any input is left unread.
func (d *Decoder) Finish() error {
	if n := d.Remaining(); n != 0 {
		return fmt.Errorf("%w: %d left", ErrTrailingBytes, n)
	}
	return nil
}

func (d *Decoder) Bytes(n int) ([]byte, error) {
	if n < 0 || d.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrUnexpectedEOF, n, d.Remaining())
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *Decoder) U8() (uint8, error) {
	b, err := d.Bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) U32() (uint32, error) {
	b, err := d.Bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// U128 decodes a little-endian 128-bit unsigned integer.
func (d *Decoder) U128() (*uint256.Int, error) {
	b, err := d.Bytes(16)
	if err != nil {
		return nil, err
	}
	var be [16]byte
	for i := range b {
		be[15-i] = b[i]
	}
	return new(uint256.Int).SetBytes(be[:]), nil
}

// Compact decodes a compact-encoded unsigned integer.
func (d *Decoder) Compact() (uint64, error) {
	first, err := d.U8()
	if err != nil {
		return 0, err
	}
	switch first & 0b11 {
	case 0b00:
		return uint64(first >> 2), nil
	case 0b01:
		next, err := d.U8()
		if err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint16([]byte{first, next}) >> 2), nil
	case 0b10:
		rest, err := d.Bytes(3)
		if err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint32([]byte{first, rest[0], rest[1], rest[2]}) >> 2), nil
	default:
		n := int(first>>2) + 4
		if n > 8 {
			return 0, fmt.Errorf("%w: %d byte payload", ErrCompactOverflow, n)
		}
		b, err := d.Bytes(n)
		if err != nil {
			return 0, err
		}
		var buf [8]byte
		copy(buf[:], b)
		return binary.LittleEndian.Uint64(buf[:]), nil
	}
}

// DecodeU32 decodes b as exactly one little-endian u32.
func DecodeU32(b []byte) (uint32, error) {
	d := NewDecoder(b)
	v, err := d.U32()
	if err != nil {
		return 0, err
	}
	if err := d.Finish(); err != nil {
		return 0, err
	}
	return v, nil
}

func EncodeU32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

// EncodeU128 encodes v as 16 little-endian bytes. Bits above 128 are dropped.
func EncodeU128(v *uint256.Int) []byte {
	be := v.Bytes32()
	out := make([]byte, 16)
	for i := range out {
		out[i] = be[31-i]
	}
	return out
}

// EncodeCompact encodes v in compact form.
func EncodeCompact(v uint64) []byte {
	switch {
	case v < 1<<6:
		return []byte{byte(v) << 2}
	case v < 1<<14:
		return binary.LittleEndian.AppendUint16(nil, uint16(v<<2|0b01))
	case v < 1<<30:
		return binary.LittleEndian.AppendUint32(nil, uint32(v<<2|0b10))
	default:
		b := binary.LittleEndian.AppendUint64(nil, v)
		n := 8
		for n > 4 && b[n-1] == 0 {
			n--
		}
		return append([]byte{byte(n-4)<<2 | 0b11}, b[:n]...)
	}
}
