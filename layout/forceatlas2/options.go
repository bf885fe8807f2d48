// SPDX-License-Identifier: MIT
// Package: molnet/layout/forceatlas2
//
// options.go - functional options for the ForceAtlas2 engine.
//
// Contract (strict):
//   • Options are functional (type Option func(*config)).
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     The engine itself never panics.
//   • Determinism is explicit: seeding is done via WithSeed.

package forceatlas2

import (
	"fmt"
	"math"
)

// Defaults of the reference ForceAtlas2 implementation.
const (
	DefaultIterations          = 1000
	DefaultScalingRatio        = 2.0
	DefaultGravity             = 1.0
	DefaultEdgeWeightInfluence = 1.0
	DefaultJitterTolerance     = 1.0
	DefaultBarnesHutTheta      = 1.2
	DefaultSeed                = 42
	DefaultCheckEvery          = 50
)

// Option customizes an Engine.
type Option func(*config)

type config struct {
	iterations          int
	scalingRatio        float64
	gravity             float64
	strongGravity       bool
	edgeWeightInfluence float64
	jitterTolerance     float64
	barnesHut           bool
	theta               float64
	linLog              bool
	distributed         bool // outbound attraction distribution
	seed                int64
	checkEvery          int
	radiusScaling       bool
}

func defaultConfig() config {
	return config{
		iterations:          DefaultIterations,
		scalingRatio:        DefaultScalingRatio,
		gravity:             DefaultGravity,
		edgeWeightInfluence: DefaultEdgeWeightInfluence,
		jitterTolerance:     DefaultJitterTolerance,
		barnesHut:           true,
		theta:               DefaultBarnesHutTheta,
		seed:                DefaultSeed,
		checkEvery:          DefaultCheckEvery,
		radiusScaling:       true,
	}
}

func mustPositive(name string, v float64) {
	if !(v > 0) || math.IsInf(v, 0) {
		panic(fmt.Sprintf("forceatlas2: %s(%v) must be finite and > 0", name, v))
	}
}

func mustNonNegative(name string, v float64) {
	if !(v >= 0) || math.IsInf(v, 0) {
		panic(fmt.Sprintf("forceatlas2: %s(%v) must be finite and >= 0", name, v))
	}
}

// WithIterations sets the fixed number of simulation steps. Panics if n <= 0.
func WithIterations(n int) Option {
	if n <= 0 {
		panic(fmt.Sprintf("forceatlas2: WithIterations(%d)", n))
	}
	return func(c *config) { c.iterations = n }
}

// WithScalingRatio sets the repulsion coefficient k_r. Panics if r <= 0.
func WithScalingRatio(r float64) Option {
	mustPositive("WithScalingRatio", r)
	return func(c *config) { c.scalingRatio = r }
}

// WithGravity sets the gravity coefficient. Panics if g < 0.
func WithGravity(g float64) Option {
	mustNonNegative("WithGravity", g)
	return func(c *config) { c.gravity = g }
}

// WithStrongGravity switches to distance-independent gravity.
func WithStrongGravity() Option {
	return func(c *config) { c.strongGravity = true }
}

// WithEdgeWeightInfluence sets δ in weight^δ. 0 ignores weights. Panics if δ < 0.
func WithEdgeWeightInfluence(delta float64) Option {
	mustNonNegative("WithEdgeWeightInfluence", delta)
	return func(c *config) { c.edgeWeightInfluence = delta }
}

// WithJitterTolerance sets how much swinging is tolerated before slowing down.
// Panics if j <= 0.
func WithJitterTolerance(j float64) Option {
	mustPositive("WithJitterTolerance", j)
	return func(c *config) { c.jitterTolerance = j }
}

// WithBarnesHut enables the quadtree approximation with the given θ. Panics if θ <= 0.
func WithBarnesHut(theta float64) Option {
	mustPositive("WithBarnesHut", theta)
	return func(c *config) {
		c.barnesHut = true
		c.theta = theta
	}
}

// WithoutBarnesHut computes repulsion exactly over all pairs.
func WithoutBarnesHut() Option {
	return func(c *config) { c.barnesHut = false }
}

// WithLinLog uses logarithmic attraction (tighter clusters).
func WithLinLog() Option {
	return func(c *config) { c.linLog = true }
}

// WithOutboundAttractionDistribution divides attraction by the source mass,
// pushing hubs to the periphery.
func WithOutboundAttractionDistribution() Option {
	return func(c *config) { c.distributed = true }
}

// WithSeed sets the seed of the initial random placement.
func WithSeed(seed int64) Option {
	return func(c *config) { c.seed = seed }
}

// WithCheckEvery sets how many iterations run between cancellation checks.
// Panics if k <= 0.
func WithCheckEvery(k int) Option {
	if k <= 0 {
		panic(fmt.Sprintf("forceatlas2: WithCheckEvery(%d)", k))
	}
	return func(c *config) { c.checkEvery = k }
}

// WithRadiusScaling toggles the final multiplication by the mean node radius.
func WithRadiusScaling(on bool) Option {
	return func(c *config) { c.radiusScaling = on }
}
