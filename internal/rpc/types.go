package rpc

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Header is the subset of a block header returned by chain_getHeader.
type Header struct {
	ParentHash     common.Hash `json:"parentHash"`
	Number         string      `json:"number"` // hex
	StateRoot      common.Hash `json:"stateRoot"`
	ExtrinsicsRoot common.Hash `json:"extrinsicsRoot"`
}

// BlockNumber parses the hex-encoded header number.
func (h *Header) BlockNumber() (uint64, error) {
	return ParseHexUint64(h.Number)
}

// ParseHexUint64 parses a 0x-prefixed hex quantity. An empty string is zero.
func ParseHexUint64(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := hexutil.DecodeUint64(s)
	if err != nil {
		return 0, fmt.Errorf("invalid hex quantity %q: %w", s, err)
	}
	return v, nil
}

// RuntimeVersion as returned by state_getRuntimeVersion.
type RuntimeVersion struct {
	SpecName           string `json:"specName"`
	ImplName           string `json:"implName"`
	AuthoringVersion   uint32 `json:"authoringVersion"`
	SpecVersion        uint32 `json:"specVersion"`
	ImplVersion        uint32 `json:"implVersion"`
	TransactionVersion uint32 `json:"transactionVersion"`
}
