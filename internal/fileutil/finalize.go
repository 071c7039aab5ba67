// Package fileutil provides shared file operation helpers.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// OwnerReadWrite is the permission for every file the tool writes.
	OwnerReadWrite = os.FileMode(0o600)

	executableBits = 0o111
)

// AtomicFile collects output in a temporary file next to its destination and
// renames it into place on Commit.
type AtomicFile struct {
	tmp       *os.File
	dest      string
	committed bool
}

// CreateAtomic creates a temporary file in the directory of dest.
// Callers must defer Abort.
func CreateAtomic(dest string) (*AtomicFile, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &AtomicFile{tmp: tmp, dest: dest}, nil
}

// Write implements io.Writer.
func (a *AtomicFile) Write(p []byte) (int, error) {
	return a.tmp.Write(p) //nolint:wrapcheck
}

// Commit applies perm, closes the temporary file and renames it to the destination.
func (a *AtomicFile) Commit(perm os.FileMode) error {
	if err := os.Chmod(a.tmp.Name(), perm); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := a.tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(a.tmp.Name(), a.dest); err != nil {
		return fmt.Errorf("renaming output file: %w", err)
	}

	a.committed = true

	return nil
}

// Abort closes and removes the temporary file unless Commit succeeded.
func (a *AtomicFile) Abort() {
	if a.committed {
		return
	}

	a.tmp.Close()           //nolint:gosec,errcheck // best-effort cleanup
	os.Remove(a.tmp.Name()) //nolint:gosec,errcheck // best-effort cleanup
}

// WriteFile atomically replaces dest with data.
func WriteFile(dest string, data []byte, perm os.FileMode) error {
	file, err := CreateAtomic(dest)
	if err != nil {
		return err
	}

	defer file.Abort()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("writing %q: %w", dest, err)
	}

	return file.Commit(perm)
}

// Permissions returns OwnerReadWrite, plus the execute bits if executable is set.
func Permissions(executable bool) os.FileMode {
	if executable {
		return OwnerReadWrite | executableBits
	}

	return OwnerReadWrite
}

// IsExecutable reports whether any execute bit is set.
func IsExecutable(info os.FileInfo) bool {
	return info.Mode()&executableBits != 0
}

// FinalizeOutput optionally preserves timestamps and returns the output file size.
func FinalizeOutput(outPath string, preserveTimestamps bool, modTime time.Time) (int64, error) {
	if preserveTimestamps {
		if err := os.Chtimes(outPath, modTime, modTime); err != nil {
			return 0, fmt.Errorf("preserving timestamps: %w", err)
		}
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", outPath, err)
	}

	return outInfo.Size(), nil
}
