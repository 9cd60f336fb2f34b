package main

import (
	"context"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"

	"github.com/dmagro/subspace-cli/internal/config"
	"github.com/dmagro/subspace-cli/internal/output"
	"github.com/dmagro/subspace-cli/internal/report"
	"github.com/dmagro/subspace-cli/internal/snapshot"
)

func snapshotCmd(opts *globalOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export accounts and block hashes to a JSON file",
		Long: `Export System.Account, System.BlockHash and Balances.TotalIssuance at one
block into a JSON document for regenesis tooling.

The file is written under a temporary name and moved into place only once
the export completes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()
			return runSnapshot(cmd.Context(), s, outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Snapshot file (default: snapshot.output from config, else a timestamped file)")

	return cmd
}

func runSnapshot(ctx context.Context, s *session, outPath string) error {
	now := time.Now()

	exp := snapshot.NewExporter(s.client, s.block, snapshot.Options{
		PageSize:   s.cfg.PageSize,
		SS58Prefix: s.cfg.SS58Prefix,
	})
	meta, err := exp.Metadata(ctx)
	if err != nil {
		return err
	}

	f, err := report.Create(snapshotPath(outPath, s.cfg, meta.BlockNumber, now))
	if err != nil {
		return err
	}

	sum, err := exp.Export(ctx, f, meta)
	if err != nil {
		f.Abort()
		return err
	}
	if err := f.Commit(); err != nil {
		return err
	}
	log.Info("Snapshot written", "path", f.Path(), "accounts", sum.Accounts, "block_hashes", sum.BlockHashes, "elapsed", time.Since(now))

	return output.RenderSnapshotSummary(os.Stdout, s.format, f.Path(), sum)
}

// snapshotPath picks the output file: the flag, then snapshot.output from
// the config, then a timestamped file named after the block under
// snapshot.dir.
func snapshotPath(flag string, cfg *config.Config, block uint64, now time.Time) string {
	if flag != "" {
		return flag
	}
	if cfg.Snapshot.Output != "" {
		return cfg.Snapshot.Output
	}
	return report.DefaultPath(cfg.Snapshot.Dir, "snapshot", block, now)
}
