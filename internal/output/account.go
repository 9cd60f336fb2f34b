package output

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rodaine/table"

	"github.com/dmagro/subspace-cli/internal/chain"
	"github.com/dmagro/subspace-cli/internal/snapshot"
)

// AccountView is one System.Account lookup.
type AccountView struct {
	Block      common.Hash
	Who        chain.AccountID
	SS58Prefix uint16
	Info       *chain.AccountInfo
}

type accountJSON struct {
	Block   common.Hash      `json:"block"`
	Account snapshot.Account `json:"account"`
}

func RenderAccount(w io.Writer, f Format, v *AccountView) error {
	acc := snapshot.NewAccount(v.Who, v.Info, v.SS58Prefix)
	if f == FormatJSON {
		return writeJSON(w, accountJSON{Block: v.Block, Account: acc})
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, bold("Account "+acc.Address))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  %s     %s\n", cyan("Public key:"), acc.PublicKey)
	fmt.Fprintf(w, "  %s        %s\n", cyan("At block:"), v.Block)
	fmt.Fprintf(w, "  %s           %d\n", cyan("Nonce:"), acc.Nonce)
	fmt.Fprintf(w, "  %s       %d consumers, %d providers, %d sufficients\n",
		cyan("Refcount:"), acc.Consumers, acc.Providers, acc.Sufficients)
	fmt.Fprintln(w)

	tbl := table.New("Balance", "Amount").WithWriter(w)
	tbl.WithHeaderFormatter(headerFmt)
	tbl.AddRow("free", formatWithCommas(acc.Free))
	tbl.AddRow("reserved", formatWithCommas(acc.Reserved))
	tbl.AddRow("misc frozen", formatWithCommas(acc.MiscFrozen))
	tbl.AddRow("fee frozen", formatWithCommas(acc.FeeFrozen))
	tbl.Print()
	fmt.Fprintln(w)
	return nil
}
