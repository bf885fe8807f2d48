// Package topk provides tunable options and error definitions
// for top-K neighbor edge selection over a similarity matrix.
package topk

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/molnet/matrix"
)

// Sentinel errors for edge selection.
var (
	// ErrInvalidInput is returned when the similarity matrix is nil, not square,
	// not symmetric within tolerance, or holds NaN/Inf. The matrix sentinel that
	// triggered it is wrapped as well (errors.Is matches both).
	ErrInvalidInput = errors.New("topk: invalid similarity matrix")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("topk: invalid option supplied")

	// ErrRowOutOfRange is returned by Neighbors for a row outside 0..n-1.
	ErrRowOutOfRange = errors.New("topk: row out of range")
)

// Option configures selection behavior via functional arguments.
// If an Option is invalid (e.g. negative K), it is recorded internally and
// surfaced as ErrOptionViolation when Generate is invoked.
type Option func(*Options)

// Options holds the selection parameters.
type Options struct {
	// Ctx allows cancellation; checked once per matrix row.
	Ctx context.Context

	// K caps the neighbors kept per node. 0 disables the cap.
	K int

	// MinScore is the inclusive lower bound on a kept score.
	MinScore float64

	// Tolerance is the absolute symmetry tolerance used by validation.
	Tolerance float64

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with the viewer's defaults:
//   - Context.Background()
//   - K = 10
//   - MinScore = 0.65
//   - Tolerance = matrix.DefaultSymmetryTol.
func DefaultOptions() Options {
	return Options{
		Ctx:       context.Background(),
		K:         DefaultK,
		MinScore:  DefaultMinScore,
		Tolerance: matrix.DefaultSymmetryTol,
	}
}

const (
	// DefaultK is the default maximum number of neighbors per node.
	DefaultK = 10

	// DefaultMinScore is the default similarity threshold.
	DefaultMinScore = 0.65
)

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithK sets the per-node neighbor cap.
//
//	k > 0: keep at most k neighbors per node
//	k == 0: explicit no limit
//	k < 0: invalid option → ErrOptionViolation
func WithK(k int) Option {
	return func(o *Options) {
		if k < 0 {
			o.err = fmt.Errorf("%w: K cannot be negative (%d)", ErrOptionViolation, k)
			return
		}
		o.K = k
	}
}

// WithMinScore sets the inclusive similarity threshold. NaN and ±Inf are rejected.
func WithMinScore(s float64) Option {
	return func(o *Options) {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			o.err = fmt.Errorf("%w: MinScore must be finite (%v)", ErrOptionViolation, s)
			return
		}
		o.MinScore = s
	}
}

// WithTolerance sets the symmetry tolerance. Negative or non-finite values are rejected.
func WithTolerance(tol float64) Option {
	return func(o *Options) {
		if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
			o.err = fmt.Errorf("%w: Tolerance must be finite and >= 0 (%v)", ErrOptionViolation, tol)
			return
		}
		o.Tolerance = tol
	}
}

func resolve(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o, o.err
}

// Candidate is one ranked neighbor of a row.
type Candidate struct {
	Index int
	Score float64
}
