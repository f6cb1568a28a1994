package convert

import (
	"fmt"
	"os"
	"path/filepath"
)

// pendingFile is an output written to a temporary file next to its
// destination. Nothing is visible at the destination until Commit.
type pendingFile struct {
	path      string
	tmp       string
	existed   bool
	committed bool
}

// stageFile writes data to a temporary file next to path.
func stageFile(path string, data []byte, perm os.FileMode) (*pendingFile, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}

	_, statErr := os.Stat(path)
	return &pendingFile{path: path, tmp: tmpPath, existed: statErr == nil}, nil
}

// stageCopy stages a copy of src at dst. Copying a file onto itself stages
// nothing and returns nil.
func stageCopy(src, dst string) (*pendingFile, error) {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return nil, nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read linker script: %w", err)
	}

	perm := os.FileMode(0644)
	if info, err := os.Stat(src); err == nil {
		perm = info.Mode().Perm()
	}
	return stageFile(dst, data, perm)
}

// Commit renames the temporary file into place. A nil file commits nothing.
func (f *pendingFile) Commit() error {
	if f == nil || f.committed {
		return nil
	}
	if err := os.Rename(f.tmp, f.path); err != nil {
		os.Remove(f.tmp)
		return fmt.Errorf("failed to save %s: %w", f.path, err)
	}
	f.committed = true
	return nil
}

// Discard removes an uncommitted temporary file.
func (f *pendingFile) Discard() {
	if f == nil || f.committed {
		return
	}
	os.Remove(f.tmp)
}

// Revert removes a committed file that did not exist before the run.
func (f *pendingFile) Revert() {
	if f == nil || !f.committed || f.existed {
		return
	}
	os.Remove(f.path)
}
