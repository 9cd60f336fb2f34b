// Package commands runs the system queries against one resolved block.
package commands

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/dmagro/subspace-cli/internal/chain"
	"github.com/dmagro/subspace-cli/internal/storage"
)

// Dispatcher issues every query of an invocation at the same block hash, so
// all results come from one state view.
type Dispatcher struct {
	reader   storage.Reader
	at       common.Hash
	pageSize uint32
}

func NewDispatcher(r storage.Reader, at common.Hash, pageSize uint32) *Dispatcher {
	return &Dispatcher{reader: r, at: at, pageSize: pageSize}
}

// Account reads System.Account for who. An account without an entry comes
// back as the zeroed default, not as an error.
func (d *Dispatcher) Account(ctx context.Context, who chain.AccountID) (*chain.AccountInfo, error) {
	raw, err := d.reader.Storage(ctx, storage.AccountMap.Key(who.Bytes()), d.at)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", storage.AccountMap, err)
	}
	return chain.DecodeAccountInfo(raw)
}

// Events reads the full System.Events list of the block.
func (d *Dispatcher) Events(ctx context.Context) (*chain.EventRecords, error) {
	raw, err := d.reader.Storage(ctx, storage.EventsKey, d.at)
	if err != nil {
		return nil, fmt.Errorf("read System.Events: %w", err)
	}
	return chain.DecodeEventRecords(raw)
}

// BlockHashTable walks System.BlockHash and hands each decoded row to emit
// as soon as it arrives. Rows come in cursor order, not sorted by number.
// The first RPC, decode or emit error ends the walk and is returned along
// with the number of rows emitted so far.
func (d *Dispatcher) BlockHashTable(ctx context.Context, emit func(storage.BlockHashEntry) error) (int, error) {
	it := storage.IterateMap(d.reader, storage.BlockHashMap, d.at, d.pageSize)

	count := 0
	for {
		entry, err := it.Next(ctx)
		if err != nil {
			return count, fmt.Errorf("iterate %s: %w", storage.BlockHashMap, err)
		}
		if entry == nil {
			return count, nil
		}

		row, err := storage.DecodeBlockHashEntry(entry)
		if err != nil {
			return count, err
		}
		if err := emit(row); err != nil {
			return count, err
		}
		count++
	}
}
