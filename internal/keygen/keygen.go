// Package keygen produces random key matrices that are invertible modulo m.
package keygen

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/idelchi/hill/internal/matrix"
	"github.com/idelchi/hill/internal/modular"
)

// MaxAttempts bounds the rejection sampling loop in GenerateInvertible.
const MaxAttempts = 10_000

// DefaultSource is the entropy source used when none is given.
//
//nolint:gochecknoglobals
var DefaultSource io.Reader = rand.Reader

// GenerateInvertible samples n x n matrices with entries uniform in [1, m)
// until one is invertible modulo m. It gives up with ErrKeyGenerationFailed
// after MaxAttempts samples. A nil rng uses DefaultSource.
func GenerateInvertible(n, m int, rng io.Reader) (matrix.Matrix, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}

	if err := modular.ValidateModulus(m); err != nil {
		return nil, err
	}

	if rng == nil {
		rng = DefaultSource
	}

	sampler := newSampler(rng, m-1)

	for range MaxAttempts {
		candidate := matrix.New(n)

		for _, row := range candidate {
			for j := range row {
				v, err := sampler.next()
				if err != nil {
					return nil, fmt.Errorf("sampling matrix entry: %w", err)
				}

				row[j] = v + 1
			}
		}

		det, err := matrix.DeterminantMod(candidate, m)
		if err != nil {
			return nil, fmt.Errorf("computing determinant: %w", err)
		}

		if modular.Coprime(det, m) {
			return candidate, nil
		}
	}

	return nil, fmt.Errorf("%w: no %dx%d matrix invertible modulo %d after %d attempts",
		ErrKeyGenerationFailed, n, n, m, MaxAttempts)
}

// NewSeededSource returns a deterministic, unbounded byte stream derived from
// seed with SHAKE256. Equal seeds yield equal keys.
func NewSeededSource(seed []byte) io.Reader {
	h := sha3.NewShake256()
	h.Write([]byte("hill/keygen/v1"))
	h.Write(seed)

	return h
}
