package hill

import (
	"bytes"
	"fmt"
)

// Padding selects how plaintext is aligned to the block size.
type Padding string

const (
	// PaddingLegacy appends p = (n - len%n) % n bytes of value p.
	// Aligned input gets no padding at all, so a plaintext whose last byte is a
	// small value is indistinguishable from a padded one. This is the established
	// file format and stays the default.
	PaddingLegacy Padding = "legacy"
	// PaddingPKCS7 always appends 1..n bytes of value p and verifies them on removal.
	PaddingPKCS7 Padding = "pkcs7"
)

// Valid reports whether p names a known scheme.
func (p Padding) Valid() bool {
	return p == PaddingLegacy || p == PaddingPKCS7
}

// Pad returns data extended with legacy padding to a multiple of blockSize.
// The input is not modified.
func Pad(data []byte, blockSize int) []byte {
	padding := (blockSize - len(data)%blockSize) % blockSize

	out := make([]byte, len(data), len(data)+padding)
	copy(out, data)

	return append(out, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

// Unpad removes legacy padding: the last byte gives the number of bytes to drop.
// It returns ErrCorruptPadding if that number exceeds the length of data.
func Unpad(data []byte) ([]byte, error) {
	length := len(data)
	if length == 0 {
		return []byte{}, nil
	}

	padding := int(data[length-1])
	if padding > length {
		return nil, fmt.Errorf("%w: padding length %d exceeds data length %d", ErrCorruptPadding, padding, length)
	}

	return append([]byte(nil), data[:length-padding]...), nil
}

// pkcs7Pad adds PKCS#7 padding to the data to make it a multiple of blockSize.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize

	out := make([]byte, len(data), len(data)+padding)
	copy(out, data)

	return append(out, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

// pkcs7Unpad removes PKCS#7 padding from the data.
// It returns an error if the padding is invalid.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	length := len(data)
	if length == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrCorruptPadding)
	}

	padding := int(data[length-1])
	if padding == 0 || padding > length || padding > blockSize {
		return nil, fmt.Errorf("%w: invalid padding size %d", ErrCorruptPadding, padding)
	}

	for i := length - padding; i < length; i++ {
		if data[i] != byte(padding) {
			return nil, fmt.Errorf("%w: padding bytes do not match", ErrCorruptPadding)
		}
	}

	return append([]byte(nil), data[:length-padding]...), nil
}

func (p Padding) pad(data []byte, blockSize int) []byte {
	if p == PaddingPKCS7 {
		return pkcs7Pad(data, blockSize)
	}

	return Pad(data, blockSize)
}

func (p Padding) unpad(data []byte, blockSize int) ([]byte, error) {
	if p == PaddingPKCS7 {
		return pkcs7Unpad(data, blockSize)
	}

	return Unpad(data)
}

// maxValue is the largest padding byte the scheme writes for blockSize.
func (p Padding) maxValue(blockSize int) int {
	if p == PaddingPKCS7 {
		return blockSize
	}

	return blockSize - 1
}

// LegacyAmbiguous reports whether data would not survive a legacy padding round
// trip: it is already aligned, so nothing is appended, and its last byte is not
// zero, so Unpad would strip or reject real data.
func LegacyAmbiguous(data []byte, blockSize int) bool {
	return len(data) > 0 && len(data)%blockSize == 0 && data[len(data)-1] != 0
}
