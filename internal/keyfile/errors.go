package keyfile

import "errors"

var (
	// ErrUnknownFormat is returned for an unsupported key file extension or format name.
	ErrUnknownFormat = errors.New("unknown key file format")
	// ErrMalformed is returned when a key file cannot be decoded.
	ErrMalformed = errors.New("malformed key file")
	// ErrInvalidKey is returned when a decoded key is not a usable key matrix.
	ErrInvalidKey = errors.New("invalid key")
	// ErrFingerprintMismatch is returned when the stored fingerprint does not match the key.
	ErrFingerprintMismatch = errors.New("key fingerprint mismatch")
	// ErrSealed is returned when a sealed key file is loaded without a wrap key.
	ErrSealed = errors.New("key file is sealed")
	// ErrWrapKey is returned for a wrap key of the wrong size.
	ErrWrapKey = errors.New("invalid wrap key")
)
