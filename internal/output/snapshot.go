package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/dmagro/subspace-cli/internal/snapshot"
)

var headerFmt = color.New(color.FgCyan, color.Underline).SprintfFunc()

type snapshotJSON struct {
	Path          string            `json:"path"`
	Metadata      snapshot.Metadata `json:"metadata"`
	TotalIssuance string            `json:"total_issuance"`
	TotalFree     string            `json:"total_free"`
	Accounts      int               `json:"accounts"`
	BlockHashes   int               `json:"block_hashes"`
}

// RenderSnapshotSummary reports a finished export written to path.
func RenderSnapshotSummary(w io.Writer, f Format, path string, s *snapshot.Summary) error {
	if f == FormatJSON {
		return writeJSON(w, snapshotJSON{
			Path:          path,
			Metadata:      s.Metadata,
			TotalIssuance: s.TotalIssuance.Dec(),
			TotalFree:     s.TotalFree.Dec(),
			Accounts:      s.Accounts,
			BlockHashes:   s.BlockHashes,
		})
	}

	m := s.Metadata
	fmt.Fprintln(w)
	fmt.Fprintln(w, bold(fmt.Sprintf("Snapshot of %s at block #%d", m.Chain, m.BlockNumber)))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  %s     %s\n", cyan("Block hash:"), m.BlockHash)
	fmt.Fprintf(w, "  %s        %s v%d\n", cyan("Runtime:"), m.SpecName, m.SpecVersion)
	fmt.Fprintf(w, "  %s    %d\n", cyan("SS58 prefix:"), m.SS58Prefix)
	fmt.Fprintln(w)

	tbl := table.New("Table", "Entries").WithWriter(w)
	tbl.WithHeaderFormatter(headerFmt)
	tbl.AddRow("System.Account", formatWithCommas(fmt.Sprint(s.Accounts)))
	tbl.AddRow("System.BlockHash", formatWithCommas(fmt.Sprint(s.BlockHashes)))
	tbl.Print()
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s  %s\n", cyan("Total issuance:"), formatWithCommas(s.TotalIssuance.Dec()))
	fmt.Fprintf(w, "  %s      %s\n", cyan("Total free:"), formatWithCommas(s.TotalFree.Dec()))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s Snapshot saved to: %s\n", green("✓"), path)
	fmt.Fprintln(w)
	return nil
}
