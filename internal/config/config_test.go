package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subspace.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("SUBSPACE_TEST_NODE", "wss://node.example.com:443")
	path := writeConfig(t, `
url: ${SUBSPACE_TEST_NODE}
page_size: 100
snapshot:
  output: out/state.json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.URL != "wss://node.example.com:443" {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.PageSize != 100 {
		t.Errorf("PageSize = %d, want 100", cfg.PageSize)
	}
	// unset keys keep their defaults
	if cfg.SS58Prefix != DefaultSS58Prefix {
		t.Errorf("SS58Prefix = %d, want %d", cfg.SS58Prefix, DefaultSS58Prefix)
	}
	if cfg.Snapshot.Output != "out/state.json" || cfg.Snapshot.Dir != "snapshots" {
		t.Errorf("Snapshot = %+v", cfg.Snapshot)
	}
}

func TestLoadOptionalMissingFile(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOptional() error = %v", err)
	}
	if cfg.URL != DefaultURL {
		t.Errorf("URL = %q, want %q", cfg.URL, DefaultURL)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file succeeded")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"wss", func(c *Config) { c.URL = "wss://rpc.example.com" }, false},
		{"http_rejected", func(c *Config) { c.URL = "http://127.0.0.1:9933" }, true},
		{"missing_host", func(c *Config) { c.URL = "ws://" }, true},
		{"empty_url", func(c *Config) { c.URL = "" }, true},
		{"zero_page", func(c *Config) { c.PageSize = 0 }, true},
		{"page_too_big", func(c *Config) { c.PageSize = MaxPageSize + 1 }, true},
		{"prefix_too_big", func(c *Config) { c.SS58Prefix = 16384 }, true},
		{"no_snapshot_target", func(c *Config) { c.Snapshot = Snapshot{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
