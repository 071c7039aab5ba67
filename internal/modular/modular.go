package modular

import (
	"fmt"
	"math"
)

const (
	// MaxModulus bounds m so that the product of two reduced values fits in an int64.
	MaxModulus = math.MaxInt32
	// DefaultModulus matches the byte range.
	DefaultModulus = 256
)

// ValidateModulus checks that m lies in [2, MaxModulus].
func ValidateModulus(m int) error {
	if m < 2 || m > MaxModulus {
		return fmt.Errorf("%w: %d (must be in [2, %d])", ErrInvalidModulus, m, MaxModulus)
	}

	return nil
}

// Reduce returns a mod m in [0, m).
func Reduce(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}

	return r
}

// GCD returns the greatest common divisor of |a| and |b|.
func GCD(a, b int) int {
	if a < 0 {
		a = -a
	}

	if b < 0 {
		b = -b
	}

	for b != 0 {
		a, b = b, a%b
	}

	return a
}

// Coprime reports whether gcd(a, m) == 1.
func Coprime(a, m int) bool {
	return GCD(a, m) == 1
}

// Inverse returns x in [0, m) such that a*x = 1 (mod m), using the extended
// Euclidean algorithm. It fails with ErrNotInvertible when gcd(a, m) != 1.
func Inverse(a, m int) (int, error) {
	if err := ValidateModulus(m); err != nil {
		return 0, err
	}

	a = Reduce(a, m)

	// Invariant: oldS*a = oldR (mod m) and s*a = r (mod m).
	oldR, r := int64(a), int64(m)
	oldS, s := int64(1), int64(0)

	for r != 0 {
		q := oldR / r
		oldR, r = r, oldR-q*r
		oldS, s = s, oldS-q*s
	}

	if oldR != 1 {
		return 0, fmt.Errorf("%w: gcd(%d, %d) = %d", ErrNotInvertible, a, m, oldR)
	}

	return Reduce(int(oldS), m), nil
}
