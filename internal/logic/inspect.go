package logic

import (
	"fmt"
	"io"
	"strings"

	"github.com/idelchi/gogen/pkg/key"
	"github.com/idelchi/hill/internal/config"
	"github.com/idelchi/hill/internal/keyfile"
	"github.com/idelchi/hill/internal/matrix"
)

// RunInspect loads the key at path and prints its parameters, determinant and inverse.
func RunInspect(cfg *config.Config, path string, out io.Writer) error {
	var (
		wrapKey []byte
		err     error
	)

	if cfg.Key.Wrap != "" {
		if wrapKey, err = key.FromHex(cfg.Key.Wrap); err != nil {
			return fmt.Errorf("reading wrap key: %w", err)
		}
	}

	k, err := keyfile.Load(path, wrapKey)
	if err != nil {
		return err
	}

	det, err := matrix.DeterminantMod(k.Matrix, k.Modulus)
	if err != nil {
		return fmt.Errorf("computing determinant: %w", err)
	}

	inverse, err := matrix.InvertMod(k.Matrix, k.Modulus)
	if err != nil {
		return fmt.Errorf("computing inverse: %w", err)
	}

	fmt.Fprintf(out, "Key:         %s\n", path)
	fmt.Fprintf(out, "Size:        %d\n", k.Size())
	fmt.Fprintf(out, "Modulus:     %d\n", k.Modulus)
	fmt.Fprintf(out, "Determinant: %d\n", det)
	fmt.Fprintf(out, "Fingerprint: %s\n", k.Fingerprint())
	fmt.Fprintf(out, "Matrix:\n%s\n", indent(k.Matrix.String()))
	fmt.Fprintf(out, "Inverse:\n%s\n", indent(inverse.String()))

	return nil
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
