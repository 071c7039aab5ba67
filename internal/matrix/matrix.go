package matrix

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/idelchi/hill/internal/modular"
)

// Matrix is a dense matrix stored as rows. Functions in this package never
// modify a Matrix passed to them.
type Matrix [][]int

// New returns an n x n zero matrix.
func New(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]int, n)
	}

	return m
}

// Identity returns the n x n identity matrix.
func Identity(n int) Matrix {
	m := New(n)
	for i := range m {
		m[i][i] = 1
	}

	return m
}

// Size returns the number of rows.
func (m Matrix) Size() int {
	return len(m)
}

// Validate checks that m is a non-empty square matrix.
func (m Matrix) Validate() error {
	if len(m) == 0 {
		return ErrEmpty
	}

	for i, row := range m {
		if len(row) != len(m) {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrNotSquare, i, len(row), len(m))
		}
	}

	return nil
}

// ValidateEntries checks that m is square and every entry lies in [0, mod).
func (m Matrix) ValidateEntries(mod int) error {
	if err := m.Validate(); err != nil {
		return err
	}

	for i, row := range m {
		for j, v := range row {
			if v < 0 || v >= mod {
				return fmt.Errorf("%w: [%d][%d] = %d, want [0, %d)", ErrEntryOutOfRange, i, j, v, mod)
			}
		}
	}

	return nil
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]int(nil), row...)
	}

	return out
}

// Equal reports whether m and other have the same shape and entries.
func (m Matrix) Equal(other Matrix) bool {
	if len(m) != len(other) {
		return false
	}

	for i := range m {
		if len(m[i]) != len(other[i]) {
			return false
		}

		for j := range m[i] {
			if m[i][j] != other[i][j] {
				return false
			}
		}
	}

	return true
}

// Reduce returns a copy of m with every entry reduced into [0, mod).
func (m Matrix) Reduce(mod int) Matrix {
	out := m.Clone()
	for _, row := range out {
		for j := range row {
			row[j] = modular.Reduce(row[j], mod)
		}
	}

	return out
}

// String renders the matrix as space separated rows, one per line.
func (m Matrix) String() string {
	var sb strings.Builder

	for i, row := range m {
		if i != 0 {
			sb.WriteByte('\n')
		}

		for j, v := range row {
			if j != 0 {
				sb.WriteByte(' ')
			}

			sb.WriteString(strconv.Itoa(v))
		}
	}

	return sb.String()
}

// MulMod returns (a * b) mod mod. Entries are reduced before multiplying and
// the accumulator is reduced after every step, so no intermediate value
// exceeds (mod-1) + (mod-1)^2.
func MulMod(a, b Matrix, mod int) (Matrix, error) {
	if err := modular.ValidateModulus(mod); err != nil {
		return nil, err
	}

	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmpty
	}

	inner := len(b)
	cols := len(b[0])

	for i, row := range a {
		if len(row) != inner {
			return nil, fmt.Errorf("%w: row %d of left operand has %d columns, want %d",
				ErrDimensionMismatch, i, len(row), inner)
		}
	}

	for i, row := range b {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d of right operand has %d columns, want %d",
				ErrDimensionMismatch, i, len(row), cols)
		}
	}

	ra, rb := a.Reduce(mod), b.Reduce(mod)
	out := make(Matrix, len(a))

	for i := range ra {
		out[i] = make([]int, cols)

		for j := range cols {
			var sum int64

			for k := range inner {
				sum = (sum + int64(ra[i][k])*int64(rb[k][j])) % int64(mod)
			}

			out[i][j] = int(sum)
		}
	}

	return out, nil
}

// MulVecMod returns (a * v) mod mod for a column vector v.
func MulVecMod(a Matrix, v []int, mod int) ([]int, error) {
	if err := modular.ValidateModulus(mod); err != nil {
		return nil, err
	}

	if len(a) == 0 {
		return nil, ErrEmpty
	}

	out := make([]int, len(a))

	for i, row := range a {
		if len(row) != len(v) {
			return nil, fmt.Errorf("%w: row %d has %d columns, vector has %d",
				ErrDimensionMismatch, i, len(row), len(v))
		}

		var sum int64

		for k, x := range row {
			sum = (sum + int64(modular.Reduce(x, mod))*int64(modular.Reduce(v[k], mod))) % int64(mod)
		}

		out[i] = int(sum)
	}

	return out, nil
}
