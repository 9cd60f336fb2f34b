// Package snapshot exports chain state at one block as a JSON document for
// regenesis tooling.
package snapshot

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"golang.org/x/sync/errgroup"

	"github.com/dmagro/subspace-cli/internal/chain"
	"github.com/dmagro/subspace-cli/internal/commands"
	"github.com/dmagro/subspace-cli/internal/rpc"
	"github.com/dmagro/subspace-cli/internal/scale"
	"github.com/dmagro/subspace-cli/internal/storage"
)

// Node is the RPC surface the exporter reads from.
type Node interface {
	storage.Reader
	Chain(ctx context.Context) (string, error)
	RuntimeVersion(ctx context.Context, at common.Hash) (*rpc.RuntimeVersion, error)
	Header(ctx context.Context, at common.Hash) (*rpc.Header, error)
}

type Metadata struct {
	Chain       string      `json:"chain"`
	SpecName    string      `json:"spec_name"`
	SpecVersion uint32      `json:"spec_version"`
	BlockHash   common.Hash `json:"block_hash"`
	BlockNumber uint64      `json:"block_number"`
	SS58Prefix  uint16      `json:"ss58_prefix"`
	ExportedAt  time.Time   `json:"exported_at"`
}

// Account is one System.Account row. Balances are decimal strings since
// they do not fit a JSON number.
type Account struct {
	Address     string `json:"address"`
	PublicKey   string `json:"public_key"`
	Nonce       uint32 `json:"nonce"`
	Consumers   uint32 `json:"consumers"`
	Providers   uint32 `json:"providers"`
	Sufficients uint32 `json:"sufficients"`
	Free        string `json:"free"`
	Reserved    string `json:"reserved"`
	MiscFrozen  string `json:"misc_frozen"`
	FeeFrozen   string `json:"fee_frozen"`
}

func NewAccount(id chain.AccountID, info *chain.AccountInfo, prefix uint16) Account {
	return Account{
		Address:     id.SS58(prefix),
		PublicKey:   id.Hex(),
		Nonce:       info.Nonce,
		Consumers:   info.Consumers,
		Providers:   info.Providers,
		Sufficients: info.Sufficients,
		Free:        info.Data.Free.Dec(),
		Reserved:    info.Data.Reserved.Dec(),
		MiscFrozen:  info.Data.MiscFrozen.Dec(),
		FeeFrozen:   info.Data.FeeFrozen.Dec(),
	}
}

type BlockHash struct {
	Number uint32      `json:"number"`
	Hash   common.Hash `json:"hash"`
}

// Summary describes a finished export.
type Summary struct {
	Metadata      Metadata
	TotalIssuance *uint256.Int
	TotalFree     *uint256.Int
	Accounts      int
	BlockHashes   int
}

type Options struct {
	PageSize   uint32
	SS58Prefix uint16
}

type Exporter struct {
	node Node
	at   common.Hash
	opts Options
	now  func() time.Time
}

func NewExporter(node Node, at common.Hash, opts Options) *Exporter {
	return &Exporter{node: node, at: at, opts: opts, now: time.Now}
}

// chanBuffer bounds how far the cursor may run ahead of the writer.
const chanBuffer = 64

// Export writes the snapshot document to w, with meta as read by Metadata.
// Tables are streamed entry by entry; nothing is kept in memory beyond the
// channel buffer.
func (e *Exporter) Export(ctx context.Context, w io.Writer, meta *Metadata) (*Summary, error) {
	issuance, err := e.totalIssuance(ctx)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Metadata: *meta, TotalIssuance: issuance, TotalFree: new(uint256.Int)}
	bw := bufio.NewWriter(w)

	metaJSON, err := json.MarshalIndent(meta, "  ", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	if _, err := fmt.Fprintf(bw, "{\n  \"metadata\": %s,\n  \"total_issuance\": %q,\n  \"accounts\": [", metaJSON, issuance.Dec()); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}

	log.Info("Exporting accounts", "block", e.at)
	sum.Accounts, err = streamTable(ctx, bw, func(ctx context.Context, out chan<- Account) error {
		return e.produceAccounts(ctx, out, sum.TotalFree)
	})
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", storage.AccountMap, err)
	}
	if _, err := bw.WriteString("],\n  \"block_hashes\": ["); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}

	log.Info("Exporting block hashes", "accounts", sum.Accounts)
	sum.BlockHashes, err = streamTable(ctx, bw, e.produceBlockHashes)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", storage.BlockHashMap, err)
	}
	if _, err := bw.WriteString("]\n}\n"); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}

	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}
	return sum, nil
}

// Metadata reads the chain name, runtime version and block number of the
// export block.
func (e *Exporter) Metadata(ctx context.Context) (*Metadata, error) {
	name, err := e.node.Chain(ctx)
	if err != nil {
		return nil, fmt.Errorf("read chain name: %w", err)
	}
	version, err := e.node.RuntimeVersion(ctx, e.at)
	if err != nil {
		return nil, fmt.Errorf("read runtime version: %w", err)
	}
	header, err := e.node.Header(ctx, e.at)
	if err != nil {
		return nil, fmt.Errorf("read header %s: %w", e.at, err)
	}
	number, err := header.BlockNumber()
	if err != nil {
		return nil, fmt.Errorf("read header %s: %w", e.at, err)
	}

	return &Metadata{
		Chain:       name,
		SpecName:    version.SpecName,
		SpecVersion: version.SpecVersion,
		BlockHash:   e.at,
		BlockNumber: number,
		SS58Prefix:  e.opts.SS58Prefix,
		ExportedAt:  e.now().UTC(),
	}, nil
}

func (e *Exporter) totalIssuance(ctx context.Context) (*uint256.Int, error) {
	raw, err := e.node.Storage(ctx, storage.TotalIssuanceKey, e.at)
	if err != nil {
		return nil, fmt.Errorf("read Balances.TotalIssuance: %w", err)
	}
	if len(raw) == 0 {
		return new(uint256.Int), nil
	}
	d := scale.NewDecoder(raw)
	v, err := d.U128()
	if err == nil {
		err = d.Finish()
	}
	if err != nil {
		return nil, fmt.Errorf("decode Balances.TotalIssuance: %w", err)
	}
	return v, nil
}

func (e *Exporter) produceAccounts(ctx context.Context, out chan<- Account, totalFree *uint256.Int) error {
	it := storage.IterateMap(e.node, storage.AccountMap, e.at, e.opts.PageSize)
	for {
		entry, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if entry == nil {
			return nil
		}

		key, err := storage.AccountMap.MapKey(entry.Key)
		if err != nil {
			return err
		}
		info, err := chain.DecodeAccountInfo(entry.Value)
		if err != nil {
			return fmt.Errorf("account %x: %w", key, err)
		}

		var id chain.AccountID
		copy(id[:], key)
		totalFree.Add(totalFree, info.Data.Free)

		if err := send(ctx, out, NewAccount(id, info, e.opts.SS58Prefix)); err != nil {
			return err
		}
	}
}

func (e *Exporter) produceBlockHashes(ctx context.Context, out chan<- BlockHash) error {
	d := commands.NewDispatcher(e.node, e.at, e.opts.PageSize)
	_, err := d.BlockHashTable(ctx, func(row storage.BlockHashEntry) error {
		return send(ctx, out, BlockHash{Number: row.Number, Hash: row.Hash})
	})
	return err
}

func send[T any](ctx context.Context, out chan<- T, v T) error {
	select {
	case out <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// streamTable runs produce and a JSON writer concurrently and writes one
// array element per line. The first error on either side cancels the other.
func streamTable[T any](ctx context.Context, w *bufio.Writer, produce func(context.Context, chan<- T) error) (int, error) {
	ch := make(chan T, chanBuffer)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(ch)
		return produce(gctx, ch)
	})

	count := 0
	g.Go(func() error {
		for item := range ch {
			b, err := json.Marshal(item)
			if err != nil {
				return err
			}
			sep := ",\n    "
			if count == 0 {
				sep = "\n    "
			}
			if _, err := w.WriteString(sep); err != nil {
				return err
			}
			if _, err := w.Write(b); err != nil {
				return err
			}
			count++
		}
		if count > 0 {
			_, err := w.WriteString("\n  ")
			return err
		}
		return nil
	})

	err := g.Wait()
	return count, err
}
