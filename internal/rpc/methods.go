package rpc

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrHeaderNotFound is returned when the node has no header for a hash.
var ErrHeaderNotFound = errors.New("header not found")

// BlockHash returns the hash of block number, or of the best block when
// number is nil. A nil hash means the node does not know the block.
func (c *Client) BlockHash(ctx context.Context, number *uint32) (*common.Hash, error) {
	var hash *common.Hash
	var err error
	if number == nil {
		err = c.Call(ctx, &hash, "chain_getBlockHash")
	} else {
		err = c.Call(ctx, &hash, "chain_getBlockHash", *number)
	}
	if err != nil {
		return nil, err
	}
	return hash, nil
}

func (c *Client) Header(ctx context.Context, at common.Hash) (*Header, error) {
	var header *Header
	if err := c.Call(ctx, &header, "chain_getHeader", at); err != nil {
		return nil, err
	}
	if header == nil {
		return nil, ErrHeaderNotFound
	}
	return header, nil
}

// Storage reads the raw value under key at block at. It returns nil, nil
// when the key holds no value.
func (c *Client) Storage(ctx context.Context, key []byte, at common.Hash) ([]byte, error) {
	var value *hexutil.Bytes
	if err := c.Call(ctx, &value, "state_getStorage", hexutil.Bytes(key), at); err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	return *value, nil
}

// KeysPaged returns up to count keys under prefix that sort after startKey.
// A nil startKey starts from the beginning of the prefix.
func (c *Client) KeysPaged(ctx context.Context, prefix []byte, count uint32, startKey []byte, at common.Hash) ([][]byte, error) {
	var start interface{}
	if startKey != nil {
		start = hexutil.Bytes(startKey)
	}

	var raw []hexutil.Bytes
	if err := c.Call(ctx, &raw, "state_getKeysPaged", hexutil.Bytes(prefix), count, start, at); err != nil {
		return nil, err
	}

	keys := make([][]byte, len(raw))
	for i, k := range raw {
		keys[i] = k
	}
	return keys, nil
}

// Chain returns the chain name reported by the node.
func (c *Client) Chain(ctx context.Context) (string, error) {
	var name string
	if err := c.Call(ctx, &name, "system_chain"); err != nil {
		return "", err
	}
	return name, nil
}

func (c *Client) RuntimeVersion(ctx context.Context, at common.Hash) (*RuntimeVersion, error) {
	var version RuntimeVersion
	if err := c.Call(ctx, &version, "state_getRuntimeVersion", at); err != nil {
		return nil, err
	}
	return &version, nil
}
