package modular

import "errors"

var (
	// ErrNotInvertible is returned when a value shares a factor with the modulus.
	ErrNotInvertible = errors.New("not invertible modulo m")
	// ErrInvalidModulus is returned for a modulus outside [2, MaxModulus].
	ErrInvalidModulus = errors.New("invalid modulus")
)
