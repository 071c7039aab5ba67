// Package matrix provides exact integer matrix operations over Z/mZ:
// determinant, adjugate, products and modular inversion.
//
// All arithmetic is exact. Determinants use fraction-free Bareiss elimination
// over math/big, so no result depends on floating point rounding.
package matrix
