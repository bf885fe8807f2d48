// SPDX-License-Identifier: MIT

package network

import (
	"context"
	"errors"
)

// Sentinel errors returned by the pipeline.
var (
	// ErrInvalidInput wraps a malformed matrix or radius array. The underlying
	// matrix or graph sentinel is wrapped too.
	ErrInvalidInput = errors.New("network: invalid input")

	// ErrCanceled marks a run stopped by its context. The context error is
	// wrapped, so errors.Is(err, context.Canceled) also holds.
	ErrCanceled = errors.New("network: canceled")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("network: invalid option supplied")

	// ErrVertexMismatch is returned by Regenerate with keepVertices when the
	// kept vertex set does not match the matrix size.
	ErrVertexMismatch = errors.New("network: kept vertex set does not match matrix")
)

// IsCanceled reports whether err is a canceled outcome rather than a failure.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
