package hill

import (
	"fmt"
	"runtime"

	"github.com/idelchi/hill/internal/matrix"
	"github.com/idelchi/hill/internal/modular"
)

// ByteModulus is the largest modulus whose symbols all fit in a byte.
const ByteModulus = 256

// Config controls how a Cipher transforms data.
type Config struct {
	// Modulus is the ring size. Zero means ByteModulus.
	Modulus int

	// Padding selects the padding scheme. Empty means PaddingLegacy.
	Padding Padding

	// Workers is the maximum number of goroutines transforming blocks.
	// Zero means runtime.NumCPU().
	Workers int
}

// DefaultConfig returns a byte-oriented configuration with legacy padding.
func DefaultConfig() Config {
	return Config{
		Modulus: ByteModulus,
		Padding: PaddingLegacy,
		Workers: runtime.NumCPU(),
	}
}

// Cipher encrypts and decrypts byte buffers with a fixed key matrix.
// It is safe for concurrent use.
type Cipher struct {
	key     matrix.Matrix
	flat    []int
	size    int
	modulus int
	padding Padding
	workers int
}

// New validates key against cfg and returns a Cipher. The key must be square,
// have entries in [0, m) and be invertible modulo m.
func New(key matrix.Matrix, cfg Config) (*Cipher, error) {
	if cfg.Modulus == 0 {
		cfg.Modulus = ByteModulus
	}

	if cfg.Padding == "" {
		cfg.Padding = PaddingLegacy
	}

	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if err := modular.ValidateModulus(cfg.Modulus); err != nil {
		return nil, err
	}

	if cfg.Modulus > ByteModulus {
		return nil, fmt.Errorf("%w: modulus %d exceeds byte range %d", ErrInvalidConfig, cfg.Modulus, ByteModulus)
	}

	if !cfg.Padding.Valid() {
		return nil, fmt.Errorf("%w: unknown padding %q", ErrInvalidConfig, cfg.Padding)
	}

	if cfg.Workers < 0 {
		return nil, fmt.Errorf("%w: negative worker count %d", ErrInvalidConfig, cfg.Workers)
	}

	if err := key.ValidateEntries(cfg.Modulus); err != nil {
		return nil, fmt.Errorf("validating key: %w", err)
	}

	size := key.Size()

	if maxPad := cfg.Padding.maxValue(size); maxPad >= cfg.Modulus {
		return nil, fmt.Errorf("%w: %s padding for block size %d writes value %d, not below modulus %d",
			ErrInvalidConfig, cfg.Padding, size, maxPad, cfg.Modulus)
	}

	det, err := matrix.DeterminantMod(key, cfg.Modulus)
	if err != nil {
		return nil, fmt.Errorf("computing key determinant: %w", err)
	}

	if !modular.Coprime(det, cfg.Modulus) {
		return nil, fmt.Errorf("key determinant %d shares a factor with %d: %w", det, cfg.Modulus, modular.ErrNotInvertible)
	}

	return &Cipher{
		key:     key.Clone(),
		flat:    flatten(key),
		size:    size,
		modulus: cfg.Modulus,
		padding: cfg.Padding,
		workers: cfg.Workers,
	}, nil
}

// BlockSize returns the key dimension n.
func (c *Cipher) BlockSize() int {
	return c.size
}

// Modulus returns m.
func (c *Cipher) Modulus() int {
	return c.modulus
}

// Key returns a copy of the key matrix.
func (c *Cipher) Key() matrix.Matrix {
	return c.key.Clone()
}

// Encrypt pads data to the block size and multiplies every block by the key.
// The result has the length of the padded plaintext.
func (c *Cipher) Encrypt(data []byte) ([]byte, error) {
	padded := c.padding.pad(data, c.size)
	out := make([]byte, len(padded))

	if err := c.transform(out, padded, c.flat); err != nil {
		return nil, fmt.Errorf("encrypting: %w", err)
	}

	return out, nil
}

// Decrypt multiplies every block by the inverse key and removes the padding.
func (c *Cipher) Decrypt(data []byte) ([]byte, error) {
	if len(data)%c.size != 0 {
		return nil, fmt.Errorf("%w: length %d, block size %d", ErrInvalidBlockAlignment, len(data), c.size)
	}

	inv, err := matrix.InvertMod(c.key, c.modulus)
	if err != nil {
		return nil, fmt.Errorf("inverting key: %w", err)
	}

	out := make([]byte, len(data))

	if err := c.transform(out, data, flatten(inv)); err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}

	plain, err := c.padding.unpad(out, c.size)
	if err != nil {
		return nil, fmt.Errorf("removing padding: %w", err)
	}

	return plain, nil
}

// EncryptBlock multiplies a single block of symbols in [0, m) by the key.
func (c *Cipher) EncryptBlock(block []int) ([]int, error) {
	if err := c.checkBlock(block); err != nil {
		return nil, err
	}

	return matrix.MulVecMod(c.key, block, c.modulus)
}

// DecryptBlock multiplies a single block of symbols in [0, m) by the inverse key.
func (c *Cipher) DecryptBlock(block []int) ([]int, error) {
	if err := c.checkBlock(block); err != nil {
		return nil, err
	}

	inv, err := matrix.InvertMod(c.key, c.modulus)
	if err != nil {
		return nil, fmt.Errorf("inverting key: %w", err)
	}

	return matrix.MulVecMod(inv, block, c.modulus)
}

func (c *Cipher) checkBlock(block []int) error {
	if len(block) != c.size {
		return fmt.Errorf("%w: block has %d symbols, want %d", ErrInvalidBlockAlignment, len(block), c.size)
	}

	for i, v := range block {
		if v < 0 || v >= c.modulus {
			return fmt.Errorf("%w: symbol %d at %d, modulus %d", ErrSymbolOutOfRange, v, i, c.modulus)
		}
	}

	return nil
}

// Encrypt encrypts data with key modulo m using default settings.
func Encrypt(data []byte, key matrix.Matrix, m int) ([]byte, error) {
	cfg := DefaultConfig()
	cfg.Modulus = m

	c, err := New(key, cfg)
	if err != nil {
		return nil, err
	}

	return c.Encrypt(data)
}

// Decrypt decrypts data produced by Encrypt with the same key and modulus.
func Decrypt(data []byte, key matrix.Matrix, m int) ([]byte, error) {
	cfg := DefaultConfig()
	cfg.Modulus = m

	c, err := New(key, cfg)
	if err != nil {
		return nil, err
	}

	return c.Decrypt(data)
}

// flatten stores m in row-major order.
func flatten(m matrix.Matrix) []int {
	out := make([]int, 0, len(m)*len(m))
	for _, row := range m {
		out = append(out, row...)
	}

	return out
}
