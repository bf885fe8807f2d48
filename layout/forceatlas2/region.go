// SPDX-License-Identifier: MIT

package forceatlas2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// region is a Barnes-Hut quadtree cell: a set of bodies summarized by their
// total mass and mass center, split into up to four subregions.
type region struct {
	members []int
	mass    float64
	center  r2.Vec
	size    float64 // twice the largest member distance from center
	sub     []*region
}

func newRegion(bodies []body, members []int) *region {
	r := &region{members: members}
	if len(members) < 2 {
		return r
	}
	var weighted r2.Vec
	for _, i := range members {
		r.mass += bodies[i].mass
		weighted = r2.Add(weighted, r2.Scale(bodies[i].mass, bodies[i].pos))
	}
	r.center = r2.Scale(1/r.mass, weighted)
	for _, i := range members {
		r.size = math.Max(r.size, 2*r2.Norm(r2.Sub(bodies[i].pos, r.center)))
	}

	return r
}

// build splits the region into quadrants around its mass center, recursively.
// If every member falls in one quadrant the members coincide, and each becomes
// its own leaf.
func (r *region) build(bodies []body) {
	if len(r.members) < 2 {
		return
	}
	var quads [4][]int
	for _, i := range r.members {
		q := 0
		if bodies[i].pos.X >= r.center.X {
			q++
		}
		if bodies[i].pos.Y >= r.center.Y {
			q += 2
		}
		quads[q] = append(quads[q], i)
	}
	for _, q := range quads {
		switch {
		case len(q) == 0:
			continue
		case len(q) < len(r.members):
			r.sub = append(r.sub, newRegion(bodies, q))
		default:
			for _, i := range q {
				r.sub = append(r.sub, newRegion(bodies, []int{i}))
			}
		}
	}
	for _, s := range r.sub {
		s.build(bodies)
	}
}

// applyForce adds to bodies[i] the repulsion exerted by this region, using the
// summarized mass when the region is far enough (distance·θ > size).
func (r *region) applyForce(bodies []body, i int, theta, coefficient float64) {
	b := &bodies[i]
	if len(r.members) < 2 {
		if len(r.members) == 1 && r.members[0] != i {
			repulseOne(b, bodies[r.members[0]].pos, bodies[r.members[0]].mass, coefficient)
		}
		return
	}
	dist := r2.Norm(r2.Sub(b.pos, r.center))
	if dist*theta > r.size {
		repulseOne(b, r.center, r.mass, coefficient)
		return
	}
	for _, s := range r.sub {
		s.applyForce(bodies, i, theta, coefficient)
	}
}

// repulseOne pushes b away from a point mass; only b is updated.
func repulseOne(b *body, at r2.Vec, mass, coefficient float64) {
	d := r2.Sub(b.pos, at)
	dist2 := d.X*d.X + d.Y*d.Y
	if dist2 <= 0 {
		return
	}
	b.force = r2.Add(b.force, r2.Scale(coefficient*b.mass*mass/dist2, d))
}
