// SPDX-License-Identifier: MIT

package forceatlas2

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/molnet/graph"
	"github.com/katalvlaran/molnet/layout"
	"gonum.org/v1/gonum/spatial/r2"
)

// Sentinel errors for the engine.
var (
	// ErrEdgeOutOfRange is returned when an edge endpoint is outside 0..n-1.
	ErrEdgeOutOfRange = errors.New("forceatlas2: edge endpoint out of range")

	// ErrRadiiLength is returned when len(radii) != n.
	ErrRadiiLength = errors.New("forceatlas2: radii length mismatch")
)

// Speed-control constants of the reference implementation.
const (
	minSpeedEfficiency = 0.05
	maxJitter          = 10.0
	maxRise            = 0.5
	maxSpeed           = 1000.0
)

var _ layout.Strategy = (*Engine)(nil)

// Engine is a configured ForceAtlas2 simulation. It is immutable and safe for
// concurrent use; each Layout call owns its own state.
type Engine struct {
	cfg config
}

// New returns an Engine with defaults overridden by opts.
func New(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Engine{cfg: cfg}
}

// Iterations reports the configured iteration count.
func (e *Engine) Iterations() int { return e.cfg.iterations }

// body is the per-node simulation state.
type body struct {
	pos      r2.Vec
	force    r2.Vec
	oldForce r2.Vec
	mass     float64
}

// spring is an edge with its precomputed attraction weight.
type spring struct {
	u, v int
	w    float64
}

// simulation holds the mutable state of one Layout call.
type simulation struct {
	cfg             config
	bodies          []body
	springs         []spring
	speed           float64
	speedEfficiency float64
	attraction      float64 // outbound attraction compensation, 1 unless distributed
}

// Layout implements layout.Strategy.
//
// Returns ErrRadiiLength, ErrEdgeOutOfRange, or ctx.Err() on cancellation.
func (e *Engine) Layout(ctx context.Context, n int, edges []graph.Edge, radii []float64) ([]r2.Vec, error) {
	if len(radii) != n {
		return nil, fmt.Errorf("forceatlas2: %d radii for %d nodes: %w", len(radii), n, ErrRadiiLength)
	}
	if n == 0 {
		return []r2.Vec{}, nil
	}
	sim, err := e.newSimulation(n, edges)
	if err != nil {
		return nil, err
	}

	for it := 0; it < e.cfg.iterations; it++ {
		if it%e.cfg.checkEvery == 0 {
			if err = ctx.Err(); err != nil {
				return nil, err
			}
		}
		sim.step()
	}

	out := make([]r2.Vec, n)
	scale := 1.0
	if e.cfg.radiusScaling {
		scale = mean(radii)
	}
	for i := range sim.bodies {
		out[i] = r2.Scale(scale, sim.bodies[i].pos)
	}

	return out, nil
}

func (e *Engine) newSimulation(n int, edges []graph.Edge) (*simulation, error) {
	rng := rand.New(rand.NewSource(e.cfg.seed))
	sim := &simulation{
		cfg:             e.cfg,
		bodies:          make([]body, n),
		springs:         make([]spring, 0, len(edges)),
		speed:           1,
		speedEfficiency: 1,
		attraction:      1,
	}
	for i := range sim.bodies {
		sim.bodies[i] = body{pos: r2.Vec{X: rng.Float64(), Y: rng.Float64()}, mass: 1}
	}
	for _, ed := range edges {
		if ed.Source < 0 || ed.Source >= n || ed.Target < 0 || ed.Target >= n {
			return nil, fmt.Errorf("forceatlas2: edge (%d,%d): %w", ed.Source, ed.Target, ErrEdgeOutOfRange)
		}
		if ed.Source == ed.Target {
			continue
		}
		sim.bodies[ed.Source].mass++
		sim.bodies[ed.Target].mass++
		sim.springs = append(sim.springs, spring{u: ed.Source, v: ed.Target, w: edgeWeight(ed.Weight, e.cfg.edgeWeightInfluence)})
	}
	if e.cfg.distributed {
		total := 0.0
		for i := range sim.bodies {
			total += sim.bodies[i].mass
		}
		sim.attraction = total / float64(n)
	}

	return sim, nil
}

func edgeWeight(w, influence float64) float64 {
	switch influence {
	case 0:
		return 1
	case 1:
		return w
	default:
		return math.Pow(w, influence)
	}
}

// step runs one iteration: repulsion, gravity, attraction, then moves nodes.
func (s *simulation) step() {
	for i := range s.bodies {
		b := &s.bodies[i]
		b.oldForce = b.force
		b.force = r2.Vec{}
	}

	if s.cfg.barnesHut {
		root := newRegion(s.bodies, allIndices(len(s.bodies)))
		root.build(s.bodies)
		for i := range s.bodies {
			root.applyForce(s.bodies, i, s.cfg.theta, s.cfg.scalingRatio)
		}
	} else {
		for i := range s.bodies {
			for j := i + 1; j < len(s.bodies); j++ {
				repulsePair(&s.bodies[i], &s.bodies[j], s.cfg.scalingRatio)
			}
		}
	}

	s.applyGravity()
	s.applyAttraction()
	s.adjustSpeedAndMove()
}

// repulsePair applies linear repulsion symmetrically to a and b.
func repulsePair(a, b *body, coefficient float64) {
	d := r2.Sub(a.pos, b.pos)
	dist2 := d.X*d.X + d.Y*d.Y
	if dist2 <= 0 {
		return
	}
	f := r2.Scale(coefficient*a.mass*b.mass/dist2, d)
	a.force = r2.Add(a.force, f)
	b.force = r2.Sub(b.force, f)
}

func (s *simulation) applyGravity() {
	for i := range s.bodies {
		b := &s.bodies[i]
		if s.cfg.strongGravity {
			b.force = r2.Sub(b.force, r2.Scale(s.cfg.scalingRatio*b.mass*s.cfg.gravity, b.pos))
			continue
		}
		dist := r2.Norm(b.pos)
		if dist > 0 {
			b.force = r2.Sub(b.force, r2.Scale(b.mass*s.cfg.gravity/dist, b.pos))
		}
	}
}

func (s *simulation) applyAttraction() {
	for _, sp := range s.springs {
		a, b := &s.bodies[sp.u], &s.bodies[sp.v]
		d := r2.Sub(a.pos, b.pos)
		factor := -s.attraction * sp.w
		if s.cfg.distributed {
			factor /= a.mass
		}
		if s.cfg.linLog {
			dist := r2.Norm(d)
			if dist <= 0 {
				continue
			}
			factor *= math.Log(1+dist) / dist
		}
		f := r2.Scale(factor, d)
		a.force = r2.Add(a.force, f)
		b.force = r2.Sub(b.force, f)
	}
}

// adjustSpeedAndMove adapts the global speed from total swinging/traction and
// moves every node by its force scaled by a per-node damping factor.
func (s *simulation) adjustSpeedAndMove() {
	var totalSwinging, totalTraction float64
	for i := range s.bodies {
		b := &s.bodies[i]
		totalSwinging += b.mass * r2.Norm(r2.Sub(b.oldForce, b.force))
		totalTraction += 0.5 * b.mass * r2.Norm(r2.Add(b.oldForce, b.force))
	}

	n := float64(len(s.bodies))
	estimatedJitter := 0.05 * math.Sqrt(n)
	minJitter := math.Sqrt(estimatedJitter)
	jt := s.cfg.jitterTolerance * math.Max(minJitter, math.Min(maxJitter, estimatedJitter*totalTraction/(n*n)))

	if totalTraction > 0 && totalSwinging/totalTraction > 2.0 {
		if s.speedEfficiency > minSpeedEfficiency {
			s.speedEfficiency *= 0.5
		}
		jt = math.Max(jt, s.cfg.jitterTolerance)
	}

	targetSpeed := math.Inf(1)
	if totalSwinging > 0 {
		targetSpeed = jt * s.speedEfficiency * totalTraction / totalSwinging
	}

	if totalSwinging > jt*totalTraction {
		if s.speedEfficiency > minSpeedEfficiency {
			s.speedEfficiency *= 0.7
		}
	} else if s.speed < maxSpeed {
		s.speedEfficiency *= 1.3
	}

	s.speed += math.Min(targetSpeed-s.speed, maxRise*s.speed)

	for i := range s.bodies {
		b := &s.bodies[i]
		swinging := b.mass * r2.Norm(r2.Sub(b.oldForce, b.force))
		factor := s.speed / (1 + math.Sqrt(s.speed*swinging))
		b.pos = r2.Add(b.pos, r2.Scale(factor, b.force))
	}
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 1
	}
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs))
}
