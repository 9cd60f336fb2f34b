// Package storagetest provides an in-memory node storage for tests.
package storagetest

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// MemReader serves state_getKeysPaged / state_getStorage semantics from a map.
// When Block is set, queries at any other hash fail.
type MemReader struct {
	Block common.Hash

	// Fail, when set, is returned by the next call of either method.
	Fail error

	mu             sync.Mutex
	values         map[string][]byte
	keysPagedCalls int
	storageCalls   int
}

func NewMemReader(block common.Hash) *MemReader {
	return &MemReader{Block: block, values: make(map[string][]byte)}
}

func (m *MemReader) Put(key, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[string(key)] = value
}

// Calls returns how many KeysPaged and Storage calls were served.
func (m *MemReader) Calls() (keysPaged, storage int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keysPagedCalls, m.storageCalls
}

func (m *MemReader) KeysPaged(_ context.Context, prefix []byte, count uint32, startKey []byte, at common.Hash) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keysPagedCalls++
	if err := m.check(at); err != nil {
		return nil, err
	}

	var keys [][]byte
	for k := range m.values {
		key := []byte(k)
		if !bytes.HasPrefix(key, prefix) {
			continue
		}
		if startKey != nil && bytes.Compare(key, startKey) <= 0 {
			continue
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })
	if uint32(len(keys)) > count {
		keys = keys[:count]
	}
	return keys, nil
}

func (m *MemReader) Storage(_ context.Context, key []byte, at common.Hash) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storageCalls++
	if err := m.check(at); err != nil {
		return nil, err
	}
	return m.values[string(key)], nil
}

func (m *MemReader) check(at common.Hash) error {
	if m.Fail != nil {
		err := m.Fail
		m.Fail = nil
		return err
	}
	if m.Block != (common.Hash{}) && at != m.Block {
		return fmt.Errorf("unknown block %s", at)
	}
	return nil
}
