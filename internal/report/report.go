// Package report creates the JSON files written by the snapshot command.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultPath names a report file under dir: <prefix>-<block>-YYYYMMDD-HHMMSS.json.
func DefaultPath(dir, prefix string, block uint64, now time.Time) string {
	filename := fmt.Sprintf("%s-%d-%s.json", prefix, block, now.Format("20060102-150405"))
	return filepath.Join(dir, filename)
}

// File is a report being written. Content goes to a temporary file next to
// the target and only replaces it on Commit.
type File struct {
	*os.File
	path string
}

// Create makes the parent directories of path and opens a temporary file
// beside it.
func Create(path string) (*File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return &File{File: tmp, path: path}, nil
}

// Path is the final location of the report.
func (f *File) Path() string { return f.path }

// Commit closes the file and moves it into place.
func (f *File) Commit() error {
	if err := f.File.Close(); err != nil {
		os.Remove(f.File.Name())
		return fmt.Errorf("failed to close report file: %w", err)
	}
	if err := os.Rename(f.File.Name(), f.path); err != nil {
		os.Remove(f.File.Name())
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	return nil
}

// Abort discards the temporary file.
func (f *File) Abort() {
	f.File.Close()
	os.Remove(f.File.Name())
}
