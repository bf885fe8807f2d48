// Package forceatlas2 implements the ForceAtlas2 force-directed layout
// (Jacomy, Venturini, Heymann, Bastian; PLoS ONE 2014) as a layout.Strategy.
//
// What
//
//   - Every node carries a mass of 1 + degree.
//   - Repulsion between every pair: k_r · m_i · m_j / d (applied along the
//     displacement, hence the d² in the code), optionally approximated with a
//     Barnes-Hut quadtree (θ = 1.2 by default).
//   - Gravity toward the origin keeps disconnected drift bounded.
//   - Attraction along each edge, linear in distance and proportional to
//     weight^δ (δ = edge-weight influence, 1 by default).
//   - Adaptive global speed with per-node swinging damping (jitter tolerance).
//
// Determinism
//
//	Initial positions come from math/rand seeded with DefaultSeed (override with
//	WithSeed). Everything else is iteration over slices, so identical inputs
//	and options give bit-identical coordinates.
//
// Radii
//
//	Sizes do not enter the force model (adjustSizes is off). After the final
//	iteration the coordinates are multiplied by the mean node radius, so larger
//	nodes get proportionally more room without hard overlap constraints.
//
// Cancellation
//
//	ctx is polled every CheckEvery iterations (50 by default); the engine
//	returns ctx.Err() as soon as it observes cancellation.
//
// Complexity (n nodes, e edges, k iterations)
//
//   - Barnes-Hut: O(k · (n log n + e)) time, O(n) memory.
//   - Exact:      O(k · (n² + e)) time.
//
// Usage
//
//	eng := forceatlas2.New(forceatlas2.WithIterations(500), forceatlas2.WithSeed(7))
//	pos, err := eng.Layout(ctx, n, localEdges, radii)
package forceatlas2
