package keyfile

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/idelchi/hill/internal/matrix"
	"github.com/idelchi/hill/internal/modular"
)

// fingerprintSize is the SHAKE256 output length in bytes.
const fingerprintSize = 16

// MaxSize is the largest accepted key dimension. Inverting a key costs
// O(n^5) big-integer operations and decryption inverts on every call.
const MaxSize = 32

// Key is a key matrix together with the modulus it is invertible under.
type Key struct {
	Matrix  matrix.Matrix
	Modulus int
}

// Size returns the block size of the key.
func (k Key) Size() int {
	return k.Matrix.Size()
}

// Validate checks that the matrix is square and at most MaxSize wide, its
// entries lie in [0, m) and it is invertible modulo m.
func (k Key) Validate() error {
	if err := modular.ValidateModulus(k.Modulus); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	if n := k.Size(); n > MaxSize {
		return fmt.Errorf("%w: size %d exceeds %d", ErrInvalidKey, n, MaxSize)
	}

	if err := k.Matrix.ValidateEntries(k.Modulus); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	invertible, err := matrix.Invertible(k.Matrix, k.Modulus)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	if !invertible {
		return fmt.Errorf("%w: %w", ErrInvalidKey, modular.ErrNotInvertible)
	}

	return nil
}

// Fingerprint returns a hex SHAKE256 digest of the modulus and the rows.
func (k Key) Fingerprint() string {
	const word = 4

	buf := make([]byte, 0, word*(2+k.Size()*k.Size()))
	buf = binary.BigEndian.AppendUint32(buf, uint32(k.Modulus)) //nolint:gosec // modulus is bounded by MaxModulus
	buf = binary.BigEndian.AppendUint32(buf, uint32(k.Size()))  //nolint:gosec

	for _, row := range k.Matrix {
		for _, v := range row {
			buf = binary.BigEndian.AppendUint32(buf, uint32(v)) //nolint:gosec // entries are validated into [0, m)
		}
	}

	sum := make([]byte, fingerprintSize)
	sha3.ShakeSum256(sum, buf)

	return hex.EncodeToString(sum)
}
