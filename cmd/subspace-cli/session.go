package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dmagro/subspace-cli/internal/chain"
	"github.com/dmagro/subspace-cli/internal/config"
	"github.com/dmagro/subspace-cli/internal/output"
	"github.com/dmagro/subspace-cli/internal/rpc"
)

const defaultConfigPath = "subspace.yaml"

type globalOptions struct {
	url         string
	blockNumber uint32
	blockHash   string
	configPath  string
	format      string
	verbosity   int
}

// session is the state shared by every subcommand: the merged config, the
// output format, an open client and the one block all queries run at.
type session struct {
	cfg    *config.Config
	format output.Format
	client *rpc.Client
	block  common.Hash
}

func (s *session) Close() {
	if s.client == nil {
		return
	}
	for _, t := range s.client.Latency() {
		log.Debug("RPC latency", "method", t.Method, "calls", t.Calls, "p50", t.P50, "p95", t.P95, "max", t.Max, "total", t.Total)
	}
	s.client.Close()
}

func setupLogging(verbosity int) {
	useColor := isatty.IsTerminal(os.Stderr.Fd())
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, log.FromLegacyLevel(verbosity), useColor)
	log.SetDefault(log.NewLogger(handler))
}

// loadConfig reads the config file. The default path may be missing; an
// explicitly passed one may not.
func loadConfig(cmd *cobra.Command, opts *globalOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.LoadOptional(opts.configPath)
	}
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("url") {
		cfg.URL = opts.url
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func blockReference(cmd *cobra.Command, opts *globalOptions) (chain.BlockReference, error) {
	var (
		number *uint32
		hash   *common.Hash
	)
	if cmd.Flags().Changed("block-number") {
		n := opts.blockNumber
		number = &n
	}
	if opts.blockHash != "" {
		h, err := parseBlockHash(opts.blockHash)
		if err != nil {
			return chain.BlockReference{}, err
		}
		hash = &h
	}
	if number != nil && hash != nil {
		fmt.Fprintf(os.Stderr, "Warning: --block-number takes precedence, ignoring --block-hash %s\n", *hash)
	}
	return chain.NewBlockReference(number, hash), nil
}

func parseBlockHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid --block-hash %q: %w", s, err)
	}
	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid --block-hash %q: %d bytes, want %d", s, len(b), common.HashLength)
	}
	return common.BytesToHash(b), nil
}

// openSession runs the setup every subcommand shares and leaves the session
// pointed at the resolved block.
func openSession(ctx context.Context, cmd *cobra.Command, opts *globalOptions) (*session, error) {
	setupLogging(opts.verbosity)

	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		output.DisableColors()
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	ref, err := blockReference(cmd, opts)
	if err != nil {
		return nil, err
	}

	client, err := rpc.Dial(ctx, cfg.URL)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, format: format, client: client}

	s.block, err = chain.Resolve(ctx, ref, client)
	if err != nil {
		s.Close()
		return nil, err
	}
	log.Debug("Querying state", "ref", ref, "block", s.block)
	return s, nil
}
