package output

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/dmagro/subspace-cli/internal/chain"
)

type eventsJSON struct {
	Block common.Hash   `json:"block"`
	Count uint64        `json:"count"`
	Raw   hexutil.Bytes `json:"raw"`
}

// RenderEvents prints the event count and the undecoded SCALE payload.
func RenderEvents(w io.Writer, f Format, block common.Hash, ev *chain.EventRecords) error {
	if f == FormatJSON {
		return writeJSON(w, eventsJSON{Block: block, Count: ev.Count, Raw: ev.Raw})
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, bold("System.Events"))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  %s  %s\n", cyan("At block:"), block)
	fmt.Fprintf(w, "  %s    %d\n", cyan("Events:"), ev.Count)
	if len(ev.Raw) > 0 {
		fmt.Fprintf(w, "  %s       %s\n", cyan("Raw:"), hexutil.Encode(ev.Raw))
	}
	fmt.Fprintln(w)
	return nil
}
