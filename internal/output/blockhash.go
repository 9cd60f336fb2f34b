package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"

	"github.com/dmagro/subspace-cli/internal/storage"
)

// BlockHashWriter prints System.BlockHash rows as they arrive. JSON output
// is one object per line so nothing needs to be buffered.
type BlockHashWriter struct {
	w   io.Writer
	f   Format
	enc *json.Encoder
}

type blockHashJSON struct {
	Number uint32      `json:"number"`
	Hash   common.Hash `json:"hash"`
}

func NewBlockHashWriter(w io.Writer, f Format) *BlockHashWriter {
	return &BlockHashWriter{w: w, f: f, enc: json.NewEncoder(w)}
}

func (b *BlockHashWriter) Write(row storage.BlockHashEntry) error {
	if b.f == FormatJSON {
		return b.enc.Encode(blockHashJSON{Number: row.Number, Hash: row.Hash})
	}
	_, err := fmt.Fprintf(b.w, "%s %s\n", cyan(fmt.Sprintf("%10d", row.Number)), row.Hash)
	return err
}

// Done prints the terminal footer. JSON output has none.
func (b *BlockHashWriter) Done(count int) {
	if b.f == FormatJSON {
		return
	}
	if count == 0 {
		fmt.Fprintln(b.w, yellow("No System.BlockHash entries at this block."))
		return
	}
	fmt.Fprintf(b.w, "%s\n", dim(fmt.Sprintf("%s entries", formatWithCommas(fmt.Sprint(count)))))
}
