package matrix

import "errors"

var (
	// ErrEmpty is returned for a matrix without rows.
	ErrEmpty = errors.New("empty matrix")
	// ErrNotSquare is returned when a square matrix is required.
	ErrNotSquare = errors.New("matrix is not square")
	// ErrDimensionMismatch is returned when operand shapes are incompatible.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrEntryOutOfRange is returned when an entry lies outside [0, m).
	ErrEntryOutOfRange = errors.New("matrix entry out of range")
)
