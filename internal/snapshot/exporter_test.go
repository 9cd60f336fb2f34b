package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmagro/subspace-cli/internal/chain"
	"github.com/dmagro/subspace-cli/internal/rpc"
	"github.com/dmagro/subspace-cli/internal/scale"
	"github.com/dmagro/subspace-cli/internal/storage"
	"github.com/dmagro/subspace-cli/internal/storage/storagetest"
)

var testBlock = common.HexToHash("0x5ab")

type fakeNode struct {
	*storagetest.MemReader
	headerErr   error
	headerCalls int
}

func (f *fakeNode) Chain(context.Context) (string, error) { return "Subspace Gemini", nil }

func (f *fakeNode) RuntimeVersion(context.Context, common.Hash) (*rpc.RuntimeVersion, error) {
	return &rpc.RuntimeVersion{SpecName: "subspace", SpecVersion: 3}, nil
}

func (f *fakeNode) Header(context.Context, common.Hash) (*rpc.Header, error) {
	f.headerCalls++
	if f.headerErr != nil {
		return nil, f.headerErr
	}
	return &rpc.Header{Number: "0x64"}, nil
}

func newFakeNode(accounts, blocks int) *fakeNode {
	mem := storagetest.NewMemReader(testBlock)
	for i := 0; i < accounts; i++ {
		var id chain.AccountID
		id[31] = byte(i + 1)
		info := chain.ZeroAccountInfo()
		info.Nonce = uint32(i)
		info.Data.Free = uint256.NewInt(uint64(10 * (i + 1)))
		mem.Put(storage.AccountMap.Key(id.Bytes()), info.Encode())
	}
	for n := 0; n < blocks; n++ {
		mem.Put(storage.EncodeBlockNumberKey(uint32(n)), common.BytesToHash([]byte{byte(n + 1)}).Bytes())
	}
	mem.Put(storage.TotalIssuanceKey, scale.EncodeU128(uint256.NewInt(5000)))
	return &fakeNode{MemReader: mem}
}

func export(t *testing.T, exp *Exporter, w io.Writer) (*Summary, error) {
	t.Helper()
	meta, err := exp.Metadata(context.Background())
	require.NoError(t, err)
	return exp.Export(context.Background(), w, meta)
}

type document struct {
	Metadata      Metadata    `json:"metadata"`
	TotalIssuance string      `json:"total_issuance"`
	Accounts      []Account   `json:"accounts"`
	BlockHashes   []BlockHash `json:"block_hashes"`
}

func TestExport(t *testing.T) {
	node := newFakeNode(5, 12)
	exp := NewExporter(node, testBlock, Options{PageSize: 2, SS58Prefix: 42})
	exp.now = func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) }

	var buf bytes.Buffer
	sum, err := export(t, exp, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, node.headerCalls, "header is read once, by Metadata")

	var doc document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc), buf.String())

	assert.Equal(t, "Subspace Gemini", doc.Metadata.Chain)
	assert.Equal(t, testBlock, doc.Metadata.BlockHash)
	assert.EqualValues(t, 100, doc.Metadata.BlockNumber)
	assert.Equal(t, "5000", doc.TotalIssuance)
	assert.Len(t, doc.Accounts, 5)
	assert.Len(t, doc.BlockHashes, 12)

	assert.Equal(t, 5, sum.Accounts)
	assert.Equal(t, 12, sum.BlockHashes)
	assert.Equal(t, "150", sum.TotalFree.Dec())

	for _, a := range doc.Accounts {
		_, prefix, err := chain.DecodeSS58(a.Address)
		require.NoError(t, err)
		assert.EqualValues(t, 42, prefix)
	}
	for _, b := range doc.BlockHashes {
		assert.Equal(t, common.BytesToHash([]byte{byte(b.Number + 1)}), b.Hash)
	}
}

func TestExportEmptyTables(t *testing.T) {
	node := newFakeNode(0, 0)

	var buf bytes.Buffer
	sum, err := export(t, NewExporter(node, testBlock, Options{}), &buf)
	require.NoError(t, err)

	var doc document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc), buf.String())
	assert.Empty(t, doc.Accounts)
	assert.Empty(t, doc.BlockHashes)
	assert.Zero(t, sum.Accounts)
}

func TestExportStopsOnDecodeError(t *testing.T) {
	node := newFakeNode(3, 0)
	var id chain.AccountID
	id[0] = 0xff
	node.Put(storage.AccountMap.Key(id.Bytes()), []byte{0x01, 0x02})

	_, err := export(t, NewExporter(node, testBlock, Options{}), &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, scale.ErrUnexpectedEOF)
}

func TestExportMetadataError(t *testing.T) {
	node := newFakeNode(1, 1)
	node.headerErr = errors.New("header unavailable")

	_, err := NewExporter(node, testBlock, Options{}).Metadata(context.Background())
	assert.ErrorIs(t, err, node.headerErr)
}

type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestExportWriterError(t *testing.T) {
	node := newFakeNode(200, 200)
	diskFull := errors.New("no space left on device")

	_, err := export(t, NewExporter(node, testBlock, Options{PageSize: 50}), failingWriter{diskFull})
	assert.ErrorIs(t, err, diskFull)
}

func TestExportEmptyTablesWriterError(t *testing.T) {
	node := newFakeNode(0, 0)
	diskFull := errors.New("no space left on device")

	_, err := export(t, NewExporter(node, testBlock, Options{}), failingWriter{diskFull})
	assert.ErrorIs(t, err, diskFull)
}
