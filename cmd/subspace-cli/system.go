package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmagro/subspace-cli/internal/chain"
	"github.com/dmagro/subspace-cli/internal/commands"
	"github.com/dmagro/subspace-cli/internal/output"
)

func systemCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Query the System pallet",
	}

	cmd.AddCommand(accountCmd(opts))
	cmd.AddCommand(eventsCmd(opts))
	cmd.AddCommand(blockHashCmd(opts))

	return cmd
}

func accountCmd(opts *globalOptions) *cobra.Command {
	var who string

	cmd := &cobra.Command{
		Use:   "account",
		Short: "Show System.Account for an address",
		Long: `Show nonce, reference counts and balances of an account.

Examples:
  subspace-cli system account --who 5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY
  subspace-cli --block-number 1000 system account --who 0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := chain.ParseAccountID(who)
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			d := commands.NewDispatcher(s.client, s.block, s.cfg.PageSize)
			info, err := d.Account(cmd.Context(), id)
			if err != nil {
				return err
			}
			return output.RenderAccount(os.Stdout, s.format, &output.AccountView{
				Block:      s.block,
				Who:        id,
				SS58Prefix: s.cfg.SS58Prefix,
				Info:       info,
			})
		},
	}

	cmd.Flags().StringVar(&who, "who", "", "Account as SS58 address or 0x-prefixed public key")
	cmd.MarkFlagRequired("who")

	return cmd
}

func eventsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Show System.Events of the block",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			ev, err := commands.NewDispatcher(s.client, s.block, s.cfg.PageSize).Events(cmd.Context())
			if err != nil {
				return err
			}
			return output.RenderEvents(os.Stdout, s.format, s.block, ev)
		},
	}
}

func blockHashCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "block-hash",
		Short: "List the System.BlockHash table",
		Long: `Stream every block number to hash entry stored in System.BlockHash.

Entries are printed as they are read, in storage order rather than by block
number. With --format json each entry is one JSON object per line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			w := output.NewBlockHashWriter(os.Stdout, s.format)
			count, err := commands.NewDispatcher(s.client, s.block, s.cfg.PageSize).BlockHashTable(cmd.Context(), w.Write)
			if err != nil {
				return fmt.Errorf("after %d entries: %w", count, err)
			}
			w.Done(count)
			return nil
		},
	}
}
