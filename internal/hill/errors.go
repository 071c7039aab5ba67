package hill

import "errors"

var (
	// ErrInvalidBlockAlignment is returned when ciphertext length is not a multiple of the block size.
	ErrInvalidBlockAlignment = errors.New("ciphertext is not a multiple of block size")
	// ErrCorruptPadding is returned when the decoded padding cannot be removed.
	ErrCorruptPadding = errors.New("corrupt padding")
	// ErrSymbolOutOfRange is returned when a byte is not a valid symbol for the modulus.
	ErrSymbolOutOfRange = errors.New("symbol out of range for modulus")
	// ErrInvalidConfig is returned when a key, modulus and padding scheme cannot work together.
	ErrInvalidConfig = errors.New("invalid cipher configuration")
)
