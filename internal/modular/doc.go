// Package modular implements the scalar arithmetic over Z/mZ that the matrix and
// cipher packages build on: gcd, exact modular inverse and normalization.
package modular
