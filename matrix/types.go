// SPDX-License-Identifier: MIT

// Package matrix: the Matrix interface consumed by the edge selector.
// Similarity matrices are produced upstream (cosine scoring) and are treated as
// read-only by every algorithm in this module.
package matrix

// Matrix represents a two-dimensional mutable array of float64 values.
//
// Complexity notes: all methods are expected O(1) except Clone (O(r*c)).
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrOutOfRange if indices are invalid.
	Set(i, j int, v float64) error

	// Clone returns a deep copy of the matrix.
	// Complexity: O(rows*cols).
	Clone() Matrix
}

// DefaultSymmetryTol is the absolute tolerance used when a caller does not
// specify one. Scores from the cosine step are computed in float32 upstream,
// so exact equality of m[i][j] and m[j][i] is not guaranteed.
const DefaultSymmetryTol = 1e-6
