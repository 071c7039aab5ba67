package keygen

import "errors"

var (
	// ErrKeyGenerationFailed is returned when no invertible matrix was found within MaxAttempts.
	ErrKeyGenerationFailed = errors.New("key generation failed")
	// ErrInvalidSize is returned for a non-positive block size.
	ErrInvalidSize = errors.New("invalid block size")
)
