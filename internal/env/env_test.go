package env

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeEnv(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// unset clears keys for the duration of the test.
func unset(t *testing.T, keys ...string) {
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeEnv(t, `# node endpoints
SUBSPACE_ENV_A=ws://a:9944
SUBSPACE_ENV_B = "wss://b?x=1"

export SUBSPACE_ENV_C='quoted'
SUBSPACE_ENV_D="unbalanced'
`)
	unset(t, "SUBSPACE_ENV_A", "SUBSPACE_ENV_B", "SUBSPACE_ENV_C", "SUBSPACE_ENV_D")

	if err := LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	want := map[string]string{
		"SUBSPACE_ENV_A": "ws://a:9944",
		"SUBSPACE_ENV_B": "wss://b?x=1",
		"SUBSPACE_ENV_C": "quoted",
		"SUBSPACE_ENV_D": `"unbalanced'`,
	}
	for k, v := range want {
		if got := os.Getenv(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestLoadFileKeepsProcessEnvironment(t *testing.T) {
	path := writeEnv(t, "SUBSPACE_ENV_URL=ws://from-file\n")
	t.Setenv("SUBSPACE_ENV_URL", "ws://from-shell")

	if err := LoadFile(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("SUBSPACE_ENV_URL"); got != "ws://from-shell" {
		t.Errorf("SUBSPACE_ENV_URL = %q, want shell value", got)
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := writeEnv(t, "SUBSPACE_ENV_OK=1\nnot a pair\n")
	unset(t, "SUBSPACE_ENV_OK")

	err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), ":2:") {
		t.Errorf("LoadFile() error = %v, want line 2", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if err := LoadFile(filepath.Join(t.TempDir(), "nope")); err != nil {
		t.Errorf("LoadFile(missing) error = %v", err)
	}
}
