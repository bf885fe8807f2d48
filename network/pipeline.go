// SPDX-License-Identifier: MIT

package network

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/katalvlaran/molnet/components"
	"github.com/katalvlaran/molnet/graph"
	"github.com/katalvlaran/molnet/internal/metrics"
	"github.com/katalvlaran/molnet/layout"
	"github.com/katalvlaran/molnet/matrix"
	"github.com/katalvlaran/molnet/topk"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"
)

// Generate runs the full pipeline on m with per-node radii.
// radii may be nil (every node gets the default radius) or hold one
// non-negative value per node, 0 meaning default.
//
// Returns ErrInvalidInput before any work for a malformed matrix or radius
// array, ErrCanceled (no partial result) when ctx ends mid-run, or
// ErrOptionViolation for bad options.
func Generate(ctx context.Context, m matrix.Matrix, radii []float64, opts ...Option) (*Result, error) {
	b, err := NewBuilder(opts...)
	if err != nil {
		return nil, err
	}

	return b.Generate(ctx, m, radii)
}

// Builder runs the pipeline repeatedly with the same options and owns the
// interaction graph between runs. Runs on one Builder are serialized.
type Builder struct {
	mu    sync.Mutex
	cfg   config
	g     *graph.Graph
	radii []float64
}

// NewBuilder resolves opts once for every later run.
func NewBuilder(opts ...Option) (*Builder, error) {
	cfg, err := resolve(opts)
	if err != nil {
		return nil, err
	}

	return &Builder{cfg: cfg}, nil
}

// Generate builds a fresh vertex set from m and radii and runs the pipeline.
func (b *Builder) Generate(ctx context.Context, m matrix.Matrix, radii []float64) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.radii = append([]float64(nil), radii...)
	return b.run(ctx, m, false, true)
}

// Regenerate reruns the pipeline on m. With keepVertices the vertex set and
// radii of the previous run are reused and only the edges are rebuilt; the
// matrix must then have as many rows as the kept graph has vertices
// (ErrVertexMismatch). Without it, a new vertex set is built from m using the
// radii of the last Generate when they still fit, defaults otherwise.
func (b *Builder) Regenerate(ctx context.Context, m matrix.Matrix, keepVertices bool) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.run(ctx, m, keepVertices, false)
}

// run executes one pass. fresh marks a Generate call, whose radii must fit m.
func (b *Builder) run(ctx context.Context, m matrix.Matrix, keepVertices, fresh bool) (res *Result, err error) {
	cfg := b.cfg
	log := cfg.logger
	start := time.Now()
	defer func() {
		cfg.metrics.ObserveRun(outcome(err), time.Since(start))
		if err != nil {
			if IsCanceled(err) {
				log.Info("network generation canceled", zap.Duration("duration", time.Since(start)))
			} else {
				log.Warn("network generation failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
			}
		}
	}()

	// validate
	if err = matrix.ValidateSimilarity(m, cfg.tolerance); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	n := m.Rows()
	g, err := b.graphFor(n, keepVertices, fresh)
	if err != nil {
		return nil, err
	}

	// edges
	stage := time.Now()
	edges, err := topk.Generate(m,
		topk.WithContext(ctx),
		topk.WithK(cfg.topK),
		topk.WithMinScore(cfg.minScore),
		topk.WithTolerance(cfg.tolerance),
	)
	if err != nil {
		return nil, classify(err)
	}
	for _, e := range edges {
		if err = g.AddEdge(e.Source, e.Target, e.Weight); err != nil {
			return nil, fmt.Errorf("network: add edge %d-%d: %w", e.Source, e.Target, err)
		}
	}
	cfg.metrics.ObserveStage("edges", time.Since(stage))
	log.Debug("edges selected", zap.Int("nodes", n), zap.Int("edges", len(edges)))

	// components
	stage = time.Now()
	comps, err := components.Find(g)
	if err != nil {
		return nil, err
	}
	cfg.metrics.ObserveStage("components", time.Since(stage))

	// layout
	stage = time.Now()
	local, err := layoutAll(ctx, cfg, g, comps)
	if err != nil {
		return nil, classify(err)
	}
	cfg.metrics.ObserveStage("layout", time.Since(stage))

	// compose
	stage = time.Now()
	pos, isolated, err := layout.Compose(comps, local, g)
	if err != nil {
		return nil, err
	}
	cfg.metrics.ObserveStage("compose", time.Since(stage))

	b.g = g
	res = &Result{
		Edges:      edges,
		Components: comps,
		Layout:     pos,
		Isolated:   isolated,
		Graph:      g,
	}
	cfg.metrics.SetShape(n, len(edges), len(comps), len(isolated))
	log.Info("network generated",
		zap.Int("nodes", n),
		zap.Int("edges", len(edges)),
		zap.Int("components", len(comps)),
		zap.Int("isolated", len(isolated)),
		zap.Duration("duration", time.Since(start)),
	)

	return res, nil
}

// graphFor returns a new graph for a run to populate: an edgeless copy of the
// kept vertex set, or a graph on n vertices. The previous Result's graph is
// never modified.
func (b *Builder) graphFor(n int, keepVertices, fresh bool) (*graph.Graph, error) {
	if keepVertices && b.g != nil {
		if b.g.VertexCount() != n {
			return nil, fmt.Errorf("%w: %d vertices kept, matrix has %d rows", ErrVertexMismatch, b.g.VertexCount(), n)
		}
		return b.g.CloneEmpty(), nil
	}

	radii := b.radii
	if !fresh && len(radii) != n {
		radii = nil
	}
	g, err := graph.New(n, radii, graph.WithDefaultRadius(b.cfg.defaultRadius))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return g, nil
}

// layoutAll lays out every component and returns the local positions in
// component order. With more than one worker components run concurrently;
// the first failure cancels the rest.
func layoutAll(ctx context.Context, cfg config, g *graph.Graph, comps [][]int) ([]map[int]r2.Vec, error) {
	local := make([]map[int]r2.Vec, len(comps))
	total := g.VertexCount()
	radii := g.Radii()

	var (
		progressMu sync.Mutex
		done       int
	)
	report := func(k int) {
		if cfg.progress == nil {
			return
		}
		progressMu.Lock()
		defer progressMu.Unlock()
		done += k
		cfg.progress(done, total)
	}

	one := func(ctx context.Context, ci int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		comp := comps[ci]
		within, err := g.EdgesWithin(comp)
		if err != nil {
			return err
		}
		r := make([]float64, len(comp))
		for i, v := range comp {
			r[i] = radii[v]
		}
		pos, err := layout.LayoutComponent(ctx, cfg.strategy, comp, within, r)
		if err != nil {
			return fmt.Errorf("component %d: %w", ci, err)
		}
		local[ci] = pos
		report(len(comp))
		cfg.logger.Debug("component laid out", zap.Int("component", ci), zap.Int("nodes", len(comp)), zap.Int("edges", len(within)))

		return nil
	}

	if cfg.workers <= 1 {
		for ci := range comps {
			if err := one(ctx, ci); err != nil {
				return nil, err
			}
		}
		return local, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.workers)
	for ci := range comps {
		ci := ci
		eg.Go(func() error { return one(egCtx, ci) })
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return local, nil
}

// classify maps stage errors onto the package sentinels.
func classify(err error) error {
	switch {
	case isContextErr(err):
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	case errors.Is(err, topk.ErrInvalidInput):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return err
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case IsCanceled(err):
		return metrics.OutcomeCanceled
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrVertexMismatch):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
