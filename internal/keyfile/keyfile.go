package keyfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/idelchi/hill/internal/fileutil"
)

// Options control how a key file is written.
type Options struct {
	// Format overrides the format derived from the file extension.
	Format Format

	// WrapKey seals the file with AES-SIV when set.
	WrapKey []byte
}

// Save writes k to path atomically with owner-only permissions.
func Save(path string, k Key, opts Options) error {
	format := opts.Format
	if format == "" {
		var err error
		if format, err = FormatFromPath(path); err != nil {
			return err
		}
	}

	data, err := Marshal(k, format)
	if err != nil {
		return fmt.Errorf("encoding key: %w", err)
	}

	if len(opts.WrapKey) > 0 {
		if data, err = Seal(data, opts.WrapKey); err != nil {
			return err
		}
	}

	if err := fileutil.WriteFile(path, data, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("writing key file: %w", err)
	}

	return nil
}

// Load reads and validates the key at path. The format is derived from the
// extension; sealed files are opened with wrapKey.
func Load(path string, wrapKey []byte) (Key, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Key{}, err
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Key{}, fmt.Errorf("reading key file: %w", err)
	}

	if data, err = Open(data, wrapKey); err != nil {
		return Key{}, fmt.Errorf("loading %q: %w", path, err)
	}

	key, err := Unmarshal(data, format)
	if err != nil {
		return Key{}, fmt.Errorf("loading %q: %w", path, err)
	}

	return key, nil
}
