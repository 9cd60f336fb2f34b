package chain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	"github.com/dmagro/subspace-cli/internal/scale"
)

// AccountID is a 32-byte AccountId32.
type AccountID [32]byte

// ParseAccountID accepts an SS58 address of any network prefix or a
// 0x-prefixed 32-byte hex key.
func ParseAccountID(s string) (AccountID, error) {
	var id AccountID
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "0x") {
		raw, err := hex.DecodeString(s[2:])
		if err != nil {
			return id, fmt.Errorf("invalid account id %q: %w", s, err)
		}
		if len(raw) != len(id) {
			return id, fmt.Errorf("invalid account id %q: %d bytes, want %d", s, len(raw), len(id))
		}
		copy(id[:], raw)
		return id, nil
	}

	pub, _, err := DecodeSS58(s)
	if err != nil {
		return id, fmt.Errorf("invalid account id %q: %w", s, err)
	}
	copy(id[:], pub)
	return id, nil
}

func (a AccountID) Bytes() []byte { return a[:] }

func (a AccountID) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

func (a AccountID) SS58(prefix uint16) string { return EncodeSS58(a[:], prefix) }

// AccountData is the balances part of AccountInfo.
type AccountData struct {
	Free       *uint256.Int
	Reserved   *uint256.Int
	MiscFrozen *uint256.Int
	FeeFrozen  *uint256.Int
}

// AccountInfo is the value of System.Account.
type AccountInfo struct {
	Nonce       uint32
	Consumers   uint32
	Providers   uint32
	Sufficients uint32
	Data        AccountData
}

// ZeroAccountInfo is what the chain reports for an account with no entry.
func ZeroAccountInfo() *AccountInfo {
	return &AccountInfo{Data: AccountData{
		Free:       new(uint256.Int),
		Reserved:   new(uint256.Int),
		MiscFrozen: new(uint256.Int),
		FeeFrozen:  new(uint256.Int),
	}}
}

// DecodeAccountInfo decodes a SCALE AccountInfo. An empty value is the
// zeroed default account.
func DecodeAccountInfo(b []byte) (*AccountInfo, error) {
	if len(b) == 0 {
		return ZeroAccountInfo(), nil
	}

	d := scale.NewDecoder(b)
	info := &AccountInfo{}
	for _, f := range []*uint32{&info.Nonce, &info.Consumers, &info.Providers, &info.Sufficients} {
		v, err := d.U32()
		if err != nil {
			return nil, fmt.Errorf("decode account info: %w", err)
		}
		*f = v
	}
	for _, f := range []**uint256.Int{&info.Data.Free, &info.Data.Reserved, &info.Data.MiscFrozen, &info.Data.FeeFrozen} {
		v, err := d.U128()
		if err != nil {
			return nil, fmt.Errorf("decode account data: %w", err)
		}
		*f = v
	}
	if err := d.Finish(); err != nil {
		return nil, fmt.Errorf("decode account info: %w", err)
	}
	return info, nil
}

// Encode returns the SCALE form of the account info.
func (a *AccountInfo) Encode() []byte {
	var out []byte
	for _, v := range []uint32{a.Nonce, a.Consumers, a.Providers, a.Sufficients} {
		out = append(out, scale.EncodeU32(v)...)
	}
	for _, v := range []*uint256.Int{a.Data.Free, a.Data.Reserved, a.Data.MiscFrozen, a.Data.FeeFrozen} {
		if v == nil {
			v = new(uint256.Int)
		}
		out = append(out, scale.EncodeU128(v)...)
	}
	return out
}
