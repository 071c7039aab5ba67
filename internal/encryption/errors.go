package encryption

import "errors"

var (
	// ErrMissingKey is returned when decrypting without a shared key and no per-file key exists.
	ErrMissingKey = errors.New("no key found")
	// ErrSameOutput is returned when the output path would overwrite the input.
	ErrSameOutput = errors.New("output path equals input path")
)
