// Package config loads the YAML configuration of the CLI. Values in the file
// may reference environment variables as ${VAR}; flags override the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultURL        = "ws://127.0.0.1:9944"
	DefaultSS58Prefix = 2254 // Subspace
	DefaultPageSize   = 512

	// Nodes reject state_getKeysPaged counts above this.
	MaxPageSize = 1000
	maxSS58     = 16383
)

type Config struct {
	URL        string   `yaml:"url"`         // Node websocket endpoint (supports ${VAR} env expansion)
	SS58Prefix uint16   `yaml:"ss58_prefix"` // Network prefix used when printing addresses
	PageSize   uint32   `yaml:"page_size"`   // Keys per state_getKeysPaged request
	Snapshot   Snapshot `yaml:"snapshot"`
}

type Snapshot struct {
	Output string `yaml:"output"` // Snapshot file path (empty = timestamped file under Dir)
	Dir    string `yaml:"dir"`    // Directory for timestamped snapshot files
}

func Default() *Config {
	return &Config{
		URL:        DefaultURL,
		SS58Prefix: DefaultSS58Prefix,
		PageSize:   DefaultPageSize,
		Snapshot:   Snapshot{Dir: "snapshots"},
	}
}

func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid url %q (missing scheme or host)", c.URL)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("invalid url scheme %q (expected ws or wss)", u.Scheme)
	}

	if c.PageSize == 0 {
		return fmt.Errorf("page_size must be > 0")
	}
	if c.PageSize > MaxPageSize {
		return fmt.Errorf("page_size must be <= %d", MaxPageSize)
	}
	if c.PageSize < 16 {
		fmt.Fprintf(os.Stderr, "Warning: page_size is very low (%d); listing large maps will need many requests\n", c.PageSize)
	}

	if c.SS58Prefix > maxSS58 {
		return fmt.Errorf("ss58_prefix must be <= %d", maxSS58)
	}
	if c.Snapshot.Output == "" && c.Snapshot.Dir == "" {
		return fmt.Errorf("snapshot.dir is required when snapshot.output is empty")
	}
	return nil
}

// Load reads the file at path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOptional is Load, except that a missing file yields the defaults.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}
