package chain

import (
	"bytes"
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"github.com/dmagro/subspace-cli/internal/scale"
)

const (
	aliceSS58 = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	aliceHex  = "0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
)

func TestParseAccountID(t *testing.T) {
	fromSS58, err := ParseAccountID(aliceSS58)
	if err != nil {
		t.Fatalf("ParseAccountID(ss58) error = %v", err)
	}
	fromHex, err := ParseAccountID(aliceHex)
	if err != nil {
		t.Fatalf("ParseAccountID(hex) error = %v", err)
	}
	if fromSS58 != fromHex {
		t.Errorf("ss58 and hex forms differ: %s vs %s", fromSS58.Hex(), fromHex.Hex())
	}
	if fromSS58.Hex() != aliceHex {
		t.Errorf("Hex() = %s, want %s", fromSS58.Hex(), aliceHex)
	}
	if got := fromHex.SS58(DefaultSS58Prefix); got != aliceSS58 {
		t.Errorf("SS58(42) = %s, want %s", got, aliceSS58)
	}
}

func TestParseAccountIDInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"bad_checksum", aliceSS58[:len(aliceSS58)-1] + "Z"},
		{"not_base58", "0OIl"},
		{"short_hex", "0xd435"},
		{"bad_hex", "0x" + string(bytes.Repeat([]byte("zz"), 32))},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAccountID(tt.in); err == nil {
				t.Errorf("ParseAccountID(%q) succeeded", tt.in)
			}
		})
	}
}

func TestSS58TwoBytePrefix(t *testing.T) {
	id, _ := ParseAccountID(aliceHex)
	for _, prefix := range []uint16{0, 2, 42, 63, 64, 2254, MaxSS58Prefix} {
		addr := id.SS58(prefix)
		pub, gotPrefix, err := DecodeSS58(addr)
		if err != nil {
			t.Fatalf("DecodeSS58(%s) error = %v", addr, err)
		}
		if gotPrefix != prefix {
			t.Errorf("prefix %d decoded as %d", prefix, gotPrefix)
		}
		if !bytes.Equal(pub, id.Bytes()) {
			t.Errorf("prefix %d: key %x, want %x", prefix, pub, id.Bytes())
		}
	}
}

func TestDecodeSS58Checksum(t *testing.T) {
	_, _, err := DecodeSS58(aliceSS58[:len(aliceSS58)-1] + "Z")
	if !errors.Is(err, ErrInvalidSS58) {
		t.Errorf("error = %v, want ErrInvalidSS58", err)
	}
}

func TestDecodeAccountInfo(t *testing.T) {
	want := &AccountInfo{
		Nonce:       3,
		Consumers:   1,
		Providers:   1,
		Sufficients: 0,
		Data: AccountData{
			Free:       uint256.MustFromDecimal("1000000000000000000000"),
			Reserved:   uint256.NewInt(5),
			MiscFrozen: uint256.NewInt(0),
			FeeFrozen:  uint256.NewInt(7),
		},
	}

	got, err := DecodeAccountInfo(want.Encode())
	if err != nil {
		t.Fatalf("DecodeAccountInfo() error = %v", err)
	}
	if got.Nonce != 3 || got.Consumers != 1 || got.Providers != 1 || got.Sufficients != 0 {
		t.Errorf("counters = %+v", got)
	}
	if !got.Data.Free.Eq(want.Data.Free) {
		t.Errorf("Free = %s, want %s", got.Data.Free.Dec(), want.Data.Free.Dec())
	}
	if !got.Data.FeeFrozen.Eq(want.Data.FeeFrozen) {
		t.Errorf("FeeFrozen = %s, want 7", got.Data.FeeFrozen.Dec())
	}
}

func TestDecodeAccountInfoAbsent(t *testing.T) {
	got, err := DecodeAccountInfo(nil)
	if err != nil {
		t.Fatalf("DecodeAccountInfo(nil) error = %v", err)
	}
	if got.Nonce != 0 || !got.Data.Free.IsZero() {
		t.Errorf("absent account = %+v, want zero", got)
	}
}

func TestDecodeAccountInfoMalformed(t *testing.T) {
	enc := ZeroAccountInfo().Encode()

	if _, err := DecodeAccountInfo(enc[:len(enc)-1]); !errors.Is(err, scale.ErrUnexpectedEOF) {
		t.Errorf("truncated: error = %v", err)
	}
	if _, err := DecodeAccountInfo(append(enc, 0x00)); !errors.Is(err, scale.ErrTrailingBytes) {
		t.Errorf("trailing: error = %v", err)
	}
}

func TestDecodeEventRecords(t *testing.T) {
	raw := append(scale.EncodeCompact(3), 0x00, 0x01, 0x02)
	ev, err := DecodeEventRecords(raw)
	if err != nil {
		t.Fatalf("DecodeEventRecords() error = %v", err)
	}
	if ev.Count != 3 {
		t.Errorf("Count = %d, want 3", ev.Count)
	}
	if !bytes.Equal(ev.Raw, raw) {
		t.Errorf("Raw = %x, want %x", ev.Raw, raw)
	}

	empty, err := DecodeEventRecords(nil)
	if err != nil || empty.Count != 0 {
		t.Errorf("DecodeEventRecords(nil) = %+v, %v", empty, err)
	}
}
