// Package filter resolves positional paths into the list of files to process.
package filter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Selection decides which files found while walking directories are processed.
// Explicitly named files always bypass it.
type Selection struct {
	// EncryptSuffix marks encrypted files.
	EncryptSuffix string

	// KeyMarker is the infix of per-file key names, as in "a.txt.enc.key.json".
	KeyMarker string

	// Decrypt selects encrypted files instead of skipping them.
	Decrypt bool
}

// match reports whether a walked file should be processed.
func (s Selection) match(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".tmp-") {
		return false
	}

	if s.KeyMarker != "" && strings.Contains(base, s.KeyMarker) {
		return false
	}

	encrypted := s.EncryptSuffix != "" && strings.HasSuffix(base, s.EncryptSuffix)

	return encrypted == s.Decrypt
}

// Resolve takes positional args (files/directories).
// Files are added directly (bypassing the selection). Directories are walked and filtered.
// Returns matched files and total candidates scanned.
func Resolve(args []string, sel Selection) (files []string, scanned int, err error) {
	for _, arg := range args {
		if err := validatePath(arg); err != nil {
			return nil, 0, err
		}
	}

	seen := make(map[string]struct{})

	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}

		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, arg := range args {
		arg = filepath.Clean(arg)

		info, err := os.Stat(arg)
		if err != nil {
			return nil, 0, fmt.Errorf("stat %q: %w", arg, err)
		}

		if !info.IsDir() {
			scanned++

			add(arg)

			continue
		}

		walked, total, err := walkDir(arg, sel)
		if err != nil {
			return nil, 0, err
		}

		scanned += total

		for _, path := range walked {
			add(path)
		}
	}

	if len(files) == 0 {
		return nil, scanned, fmt.Errorf("no files matched the provided paths: %v", args)
	}

	return files, scanned, nil
}

// walkDir walks root recursively, returning files that pass the selection.
func walkDir(root string, sel Selection) (files []string, total int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		total++

		if sel.match(path) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("walking %q: %w", root, err)
	}

	return files, total, nil
}

// validatePath rejects paths that escape the current working directory.
func validatePath(path string) error {
	if filepath.IsAbs(path) {
		return fmt.Errorf("absolute paths are not allowed: %q", path)
	}

	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("paths must be within the current working directory: %q", path)
	}

	return nil
}
