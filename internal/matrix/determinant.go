package matrix

import (
	"fmt"
	"math/big"

	"github.com/idelchi/hill/internal/modular"
)

// Determinant returns the exact determinant of a square matrix using
// fraction-free Bareiss elimination. Every division in the elimination is exact.
func Determinant(m Matrix) (*big.Int, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	return bareiss(toBig(m)), nil
}

// DeterminantMod returns the determinant of m reduced into [0, mod).
func DeterminantMod(m Matrix, mod int) (int, error) {
	if err := modular.ValidateModulus(mod); err != nil {
		return 0, err
	}

	det, err := Determinant(m)
	if err != nil {
		return 0, err
	}

	return int(new(big.Int).Mod(det, big.NewInt(int64(mod))).Int64()), nil
}

// Adjugate returns the transpose of the cofactor matrix of m.
func Adjugate(m Matrix) (Matrix, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	n := len(m)
	if n == 1 {
		return Matrix{{1}}, nil
	}

	adj := make([][]*big.Int, n)
	for i := range adj {
		adj[i] = make([]*big.Int, n)
	}

	for i := range n {
		for j := range n {
			cofactor := bareiss(minor(m, i, j))
			if (i+j)%2 == 1 {
				cofactor.Neg(cofactor)
			}

			adj[j][i] = cofactor
		}
	}

	out := New(n)

	for i := range n {
		for j := range n {
			if !adj[i][j].IsInt64() {
				return nil, fmt.Errorf("adjugate entry [%d][%d] overflows int64", i, j)
			}

			out[i][j] = int(adj[i][j].Int64())
		}
	}

	return out, nil
}

// adjugateMod returns the adjugate of m with entries reduced into [0, mod),
// without requiring the unreduced cofactors to fit in an int.
func adjugateMod(m Matrix, mod int) Matrix {
	n := len(m)
	if n == 1 {
		return Matrix{{1 % mod}}
	}

	bigMod := big.NewInt(int64(mod))
	out := New(n)

	for i := range n {
		for j := range n {
			cofactor := bareiss(minor(m, i, j))
			if (i+j)%2 == 1 {
				cofactor.Neg(cofactor)
			}

			out[j][i] = int(cofactor.Mod(cofactor, bigMod).Int64())
		}
	}

	return out
}

// InvertMod returns the inverse of m modulo mod, computed as
// det(m)^-1 * adj(m). It fails with modular.ErrNotInvertible when the
// determinant is not coprime to mod.
// The adjugate takes n^2 exact eliminations, O(n^5) big-integer operations.
func InvertMod(m Matrix, mod int) (Matrix, error) {
	det, err := DeterminantMod(m, mod)
	if err != nil {
		return nil, err
	}

	detInv, err := modular.Inverse(det, mod)
	if err != nil {
		return nil, fmt.Errorf("inverting determinant %d: %w", det, err)
	}

	adj := adjugateMod(m, mod)

	for _, row := range adj {
		for j := range row {
			row[j] = int(int64(detInv) * int64(row[j]) % int64(mod))
		}
	}

	return adj, nil
}

// Invertible reports whether m has an inverse modulo mod.
func Invertible(m Matrix, mod int) (bool, error) {
	det, err := DeterminantMod(m, mod)
	if err != nil {
		return false, err
	}

	return modular.Coprime(det, mod), nil
}

func toBig(m Matrix) [][]*big.Int {
	out := make([][]*big.Int, len(m))

	for i, row := range m {
		out[i] = make([]*big.Int, len(row))

		for j, v := range row {
			out[i][j] = big.NewInt(int64(v))
		}
	}

	return out
}

// minor returns m without row r and column c.
func minor(m Matrix, r, c int) [][]*big.Int {
	out := make([][]*big.Int, 0, len(m)-1)

	for i, row := range m {
		if i == r {
			continue
		}

		next := make([]*big.Int, 0, len(row)-1)

		for j, v := range row {
			if j == c {
				continue
			}

			next = append(next, big.NewInt(int64(v)))
		}

		out = append(out, next)
	}

	return out
}

// bareiss computes the determinant of a in place. a is consumed.
func bareiss(a [][]*big.Int) *big.Int {
	n := len(a)
	if n == 0 {
		return big.NewInt(1)
	}

	sign := 1
	prev := big.NewInt(1)
	tmp := new(big.Int)

	for k := range n - 1 {
		if a[k][k].Sign() == 0 {
			pivot := -1

			for i := k + 1; i < n; i++ {
				if a[i][k].Sign() != 0 {
					pivot = i

					break
				}
			}

			if pivot < 0 {
				return big.NewInt(0)
			}

			a[k], a[pivot] = a[pivot], a[k]
			sign = -sign
		}

		for i := k + 1; i < n; i++ {
			for j := k + 1; j < n; j++ {
				// a[i][j] = (a[i][j]*a[k][k] - a[i][k]*a[k][j]) / prev
				a[i][j].Mul(a[i][j], a[k][k])
				tmp.Mul(a[i][k], a[k][j])
				a[i][j].Sub(a[i][j], tmp)
				a[i][j].Quo(a[i][j], prev)
			}
		}

		prev = a[k][k]
	}

	det := new(big.Int).Set(a[n-1][n-1])
	if sign < 0 {
		det.Neg(det)
	}

	return det
}
