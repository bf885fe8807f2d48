// SPDX-License-Identifier: MIT

package network

import (
	"fmt"
	"math"

	"github.com/katalvlaran/molnet/graph"
	"github.com/katalvlaran/molnet/internal/metrics"
	"github.com/katalvlaran/molnet/layout"
	"github.com/katalvlaran/molnet/layout/forceatlas2"
	"github.com/katalvlaran/molnet/matrix"
	"github.com/katalvlaran/molnet/topk"
	"go.uber.org/zap"
)

// Option configures a pipeline run.
// Invalid values are recorded and surfaced as ErrOptionViolation by
// Generate and NewBuilder.
type Option func(*config)

type config struct {
	topK          int
	minScore      float64
	tolerance     float64
	strategy      layout.Strategy
	iterations    int
	seed          int64
	progress      func(done, total int)
	workers       int
	logger        *zap.Logger
	metrics       *metrics.Collector
	defaultRadius float64

	err error
}

func defaultConfig() config {
	return config{
		topK:          topk.DefaultK,
		minScore:      topk.DefaultMinScore,
		tolerance:     matrix.DefaultSymmetryTol,
		iterations:    forceatlas2.DefaultIterations,
		seed:          forceatlas2.DefaultSeed,
		workers:       1,
		logger:        zap.NewNop(),
		defaultRadius: graph.DefaultRadius,
	}
}

func resolve(opts []Option) (config, error) {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	if c.err != nil {
		return c, c.err
	}
	if c.strategy == nil {
		c.strategy = forceatlas2.New(
			forceatlas2.WithIterations(c.iterations),
			forceatlas2.WithSeed(c.seed),
		)
	}

	return c, nil
}

func (c *config) violate(format string, args ...any) {
	if c.err == nil {
		c.err = fmt.Errorf("%w: "+format, append([]any{ErrOptionViolation}, args...)...)
	}
}

// WithTopK caps the neighbors kept per node; 0 disables the cap.
func WithTopK(k int) Option {
	return func(c *config) {
		if k < 0 {
			c.violate("top-K cannot be negative (%d)", k)
			return
		}
		c.topK = k
	}
}

// WithMinScore sets the inclusive similarity threshold.
func WithMinScore(s float64) Option {
	return func(c *config) {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			c.violate("min score must be finite (%v)", s)
			return
		}
		c.minScore = s
	}
}

// WithTolerance sets the symmetry tolerance used to validate the matrix.
func WithTolerance(tol float64) Option {
	return func(c *config) {
		if !(tol >= 0) || math.IsInf(tol, 0) {
			c.violate("tolerance must be finite and >= 0 (%v)", tol)
			return
		}
		c.tolerance = tol
	}
}

// WithStrategy replaces the default ForceAtlas2 engine for components of 3+ nodes.
// WithIterations and WithSeed are ignored when a strategy is given.
func WithStrategy(s layout.Strategy) Option {
	return func(c *config) {
		if s == nil {
			c.violate("nil strategy")
			return
		}
		c.strategy = s
	}
}

// WithIterations sets the iteration count of the default ForceAtlas2 engine.
func WithIterations(n int) Option {
	return func(c *config) {
		if n <= 0 {
			c.violate("iterations must be > 0 (%d)", n)
			return
		}
		c.iterations = n
	}
}

// WithSeed sets the seed of the default ForceAtlas2 engine.
func WithSeed(seed int64) Option {
	return func(c *config) { c.seed = seed }
}

// WithProgress registers fn, called after each component with the number of
// nodes laid out so far and the total. Calls are serialized.
func WithProgress(fn func(done, total int)) Option {
	return func(c *config) { c.progress = fn }
}

// WithWorkers lays out up to n components concurrently. 1 is sequential.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n <= 0 {
			c.violate("workers must be > 0 (%d)", n)
			return
		}
		c.workers = n
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records run outcomes, stage durations and network shape in m.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *config) { c.metrics = m }
}

// WithDefaultRadius sets the radius applied to nodes whose radius is 0.
func WithDefaultRadius(r float64) Option {
	return func(c *config) {
		if !(r > 0) || math.IsInf(r, 0) {
			c.violate("default radius must be finite and > 0 (%v)", r)
			return
		}
		c.defaultRadius = r
	}
}
