// Command subspace-cli queries a Subspace node over websocket JSON-RPC and
// exports chain state snapshots.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmagro/subspace-cli/internal/config"
	"github.com/dmagro/subspace-cli/internal/env"
)

func rootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "subspace-cli",
		Short:         "Query Subspace chain state at a chosen block",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.url, "url", config.DefaultURL, "Node websocket endpoint")
	flags.Uint32Var(&opts.blockNumber, "block-number", 0, "Query state at this block number")
	flags.StringVar(&opts.blockHash, "block-hash", "", "Query state at this block hash (ignored with --block-number)")
	flags.StringVar(&opts.configPath, "config", defaultConfigPath, "Config file path")
	flags.StringVar(&opts.format, "format", "terminal", "Output format: terminal|json")
	flags.IntVar(&opts.verbosity, "verbosity", 2, "Log level for stderr diagnostics (0=silent, 5=trace)")

	cmd.AddCommand(systemCmd(opts))
	cmd.AddCommand(snapshotCmd(opts))

	return cmd
}

func main() {
	if err := env.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
