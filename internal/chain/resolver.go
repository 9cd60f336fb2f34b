// Package chain holds the chain-level types of the tool and resolves the
// block every query of an invocation runs against.
package chain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// BlockReference selects the block to query: by number, by hash, or the
// node's best block when neither is given.
type BlockReference struct {
	number *uint32
	hash   *common.Hash
}

func ByNumber(n uint32) BlockReference {
	return BlockReference{number: &n}
}

func ByHash(h common.Hash) BlockReference {
	return BlockReference{hash: &h}
}

// Best refers to the node's current best block.
func Best() BlockReference {
	return BlockReference{}
}

// NewBlockReference builds a reference from optional flags. A number takes
// precedence over a hash.
func NewBlockReference(number *uint32, hash *common.Hash) BlockReference {
	switch {
	case number != nil:
		return ByNumber(*number)
	case hash != nil:
		return ByHash(*hash)
	default:
		return Best()
	}
}

func (r BlockReference) Number() (uint32, bool) {
	if r.number == nil {
		return 0, false
	}
	return *r.number, true
}

func (r BlockReference) Hash() (common.Hash, bool) {
	if r.hash == nil {
		return common.Hash{}, false
	}
	return *r.hash, true
}

func (r BlockReference) String() string {
	switch {
	case r.number != nil:
		return fmt.Sprintf("block #%d", *r.number)
	case r.hash != nil:
		return "block " + r.hash.Hex()
	default:
		return "best block"
	}
}

// BlockHasher answers chain_getBlockHash. A nil number asks for the best
// block; a nil hash means the node has none.
type BlockHasher interface {
	BlockHash(ctx context.Context, number *uint32) (*common.Hash, error)
}

// ResolutionError means the node has no hash for the requested block.
type ResolutionError struct {
	// Number is nil when the best block was requested.
	Number *uint32
}

func (e *ResolutionError) Error() string {
	if e.Number == nil {
		return "best block hash not found"
	}
	return fmt.Sprintf("block hash for block number %d not found", *e.Number)
}

// Resolve turns ref into one block hash. An explicit hash is used as given
// without asking the node; an unknown hash fails later at the first query.
func Resolve(ctx context.Context, ref BlockReference, hasher BlockHasher) (common.Hash, error) {
	if n, ok := ref.Number(); ok {
		hash, err := hasher.BlockHash(ctx, &n)
		if err != nil {
			return common.Hash{}, fmt.Errorf("resolve block #%d: %w", n, err)
		}
		if hash == nil {
			return common.Hash{}, &ResolutionError{Number: &n}
		}
		log.Debug("Resolved block number", "number", n, "hash", *hash)
		return *hash, nil
	}

	if h, ok := ref.Hash(); ok {
		return h, nil
	}

	hash, err := hasher.BlockHash(ctx, nil)
	if err != nil {
		return common.Hash{}, fmt.Errorf("resolve best block: %w", err)
	}
	if hash == nil {
		return common.Hash{}, &ResolutionError{}
	}
	log.Debug("Resolved best block", "hash", *hash)
	return *hash, nil
}
