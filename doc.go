// Package molnet builds molecular networks from pairwise spectral similarity.
//
// A run takes a square, symmetric similarity matrix (one row per spectrum) and
// produces:
//
//	topk/       - the edge list: each node keeps its K best neighbors above a score
//	components/ - connected components, largest first
//	layout/     - per-component placement (ForceAtlas2 by default) tiled row-wise
//	network/    - the pipeline tying the stages together, with cancellation
//
// Supporting packages:
//
//	matrix/     - Dense storage, validators, CSV ingestion
//	graph/      - the undirected weighted interaction graph with node radii
//	synth/      - seeded synthetic similarity matrices for demos and benchmarks
//
// The molnet command (cmd/molnet) exposes the pipeline as a CLI and an HTTP
// service, with runs stored in SQLite.
package molnet
