package storage

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultPageSize is the number of keys requested per state_getKeysPaged call.
const DefaultPageSize = 512

// Reader is the part of the node RPC surface the cursor needs.
type Reader interface {
	// KeysPaged returns up to count keys with the given prefix that sort
	// after startKey (nil for the first page).
	KeysPaged(ctx context.Context, prefix []byte, count uint32, startKey []byte, at common.Hash) ([][]byte, error)
	// Storage returns the value under key, or nil if absent.
	Storage(ctx context.Context, key []byte, at common.Hash) ([]byte, error)
}

// Entry is one (key, value) pair yielded by an Iterator.
type Entry struct {
	Key   []byte
	Value []byte
}

func (e *Entry) KeyHex() string {
	return hex.EncodeToString(e.Key)
}

// Iterator walks every key under a prefix at a fixed block. It is lazy and
// single-pass: each Next issues at most one key-page request and one value
// request, in order. Once it returns the nil sentinel or an error it stays
// exhausted; walk the map again with a new Iterator.
type Iterator struct {
	reader   Reader
	prefix   []byte
	at       common.Hash
	pageSize uint32

	page     [][]byte
	lastKey  []byte
	lastPage bool
	done     bool
}

func NewIterator(r Reader, prefix []byte, at common.Hash, pageSize uint32) *Iterator {
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	return &Iterator{
		reader:   r,
		prefix:   prefix,
		at:       at,
		pageSize: pageSize,
	}
}

// IterateMap opens a cursor over every entry of m.
func IterateMap(r Reader, m Map, at common.Hash, pageSize uint32) *Iterator {
	return NewIterator(r, m.Prefix(), at, pageSize)
}

// Next returns the next entry, or nil, nil once the map is exhausted.
func (it *Iterator) Next(ctx context.Context) (*Entry, error) {
	if it.done {
		return nil, nil
	}

	if len(it.page) == 0 {
		if it.lastPage {
			it.done = true
			return nil, nil
		}
		keys, err := it.reader.KeysPaged(ctx, it.prefix, it.pageSize, it.lastKey, it.at)
		if err != nil {
			it.done = true
			return nil, fmt.Errorf("fetch storage keys: %w", err)
		}
		if len(keys) == 0 {
			it.done = true
			return nil, nil
		}
		it.page = keys
		it.lastPage = uint32(len(keys)) < it.pageSize
	}

	key := it.page[0]
	it.page = it.page[1:]
	it.lastKey = key

	value, err := it.reader.Storage(ctx, key, it.at)
	if err != nil {
		it.done = true
		return nil, fmt.Errorf("fetch storage value %x: %w", key, err)
	}
	return &Entry{Key: key, Value: value}, nil
}
