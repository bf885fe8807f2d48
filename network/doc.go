// Package network runs the molecular-network pipeline: a similarity matrix and
// per-node radii go in, a sparse edge list, its connected components and a 2D
// layout with isolated nodes flagged come out.
//
// Stages
//
//	validate   - matrix.ValidateSimilarity and radius checks, before any work
//	edges      - topk.Generate (K best neighbors per node above MinScore)
//	components - components.Find, largest first
//	layout     - layout.LayoutComponent per component (ForceAtlas2 by default)
//	compose    - layout.Compose tiles the components and flags isolated nodes
//
// Cancellation
//
//	ctx is checked before every component (and inside the default strategy
//	every few iterations). A canceled run returns an error matching
//	ErrCanceled and no partial Result.
//
// Determinism
//
//	Edge list and partition are always bit-identical for identical inputs.
//	With the default strategy (fixed seed) coordinates are too, regardless of
//	WithWorkers: components are tiled in discovery order, not completion order.
//
// Usage
//
//	res, err := network.Generate(ctx, m, radii,
//		network.WithTopK(10),
//		network.WithMinScore(0.65),
//		network.WithLogger(logger),
//	)
//	if network.IsCanceled(err) { ... }
package network
