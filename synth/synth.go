// SPDX-License-Identifier: MIT
// Package: molnet/synth
//
// synth.go - seeded generators of synthetic similarity matrices.
//
// Contract:
//   - Every generator takes an explicit *rand.Rand (ErrNeedRandSource if nil
//     and randomness is needed).
//   - Output is square, symmetric, finite, with 1 on the diagonal and scores
//     in [0,1]; it always passes matrix.ValidateSimilarity.
//   - Returns only sentinel errors; never panics at runtime.
//
// Determinism:
//   - Pairs are sampled in a fixed order (i asc, j > i asc), so a fixed seed
//     gives the same matrix.

package synth

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/katalvlaran/molnet/matrix"
)

// Sentinel errors for generators.
var (
	// ErrTooFewNodes is returned when a generator is asked for fewer than one node.
	ErrTooFewNodes = errors.New("synth: too few nodes")

	// ErrInvalidProbability is returned when p is outside [0,1].
	ErrInvalidProbability = errors.New("synth: probability must be in [0,1]")

	// ErrInvalidScore is returned when a score bound is outside [0,1] or lo > hi.
	ErrInvalidScore = errors.New("synth: invalid score range")

	// ErrNeedRandSource is returned when rng is nil but sampling is required.
	ErrNeedRandSource = errors.New("synth: random source required")
)

// ScoreRange is a closed interval of similarity scores.
type ScoreRange struct {
	Lo, Hi float64
}

func (r ScoreRange) validate() error {
	if r.Lo < 0 || r.Hi > 1 || r.Lo > r.Hi {
		return fmt.Errorf("[%v,%v]: %w", r.Lo, r.Hi, ErrInvalidScore)
	}
	return nil
}

func (r ScoreRange) sample(rng *rand.Rand) float64 {
	if r.Lo == r.Hi {
		return r.Lo
	}
	return r.Lo + rng.Float64()*(r.Hi-r.Lo)
}

// RandomSparse returns an n×n similarity matrix where each unordered pair is
// "similar" with probability p (score drawn from similar) and otherwise gets
// a background score drawn from background.
func RandomSparse(n int, p float64, similar, background ScoreRange, rng *rand.Rand) (*matrix.Dense, error) {
	if n < 1 {
		return nil, fmt.Errorf("RandomSparse: n=%d: %w", n, ErrTooFewNodes)
	}
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("RandomSparse: p=%v: %w", p, ErrInvalidProbability)
	}
	if err := similar.validate(); err != nil {
		return nil, fmt.Errorf("RandomSparse: similar %w", err)
	}
	if err := background.validate(); err != nil {
		return nil, fmt.Errorf("RandomSparse: background %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("RandomSparse: %w", ErrNeedRandSource)
	}

	m, err := identity(n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := background
			if rng.Float64() < p {
				r = similar
			}
			setPair(m, i, j, r.sample(rng))
		}
	}

	return m, nil
}

// Clusters returns a block matrix: nodes are grouped by sizes (in order,
// indices ascending), pairs inside a group score within, pairs across groups
// score between.
func Clusters(sizes []int, within, between ScoreRange, rng *rand.Rand) (*matrix.Dense, error) {
	n := 0
	for _, s := range sizes {
		if s < 1 {
			return nil, fmt.Errorf("Clusters: group size %d: %w", s, ErrTooFewNodes)
		}
		n += s
	}
	if n < 1 {
		return nil, fmt.Errorf("Clusters: no groups: %w", ErrTooFewNodes)
	}
	if err := within.validate(); err != nil {
		return nil, fmt.Errorf("Clusters: within %w", err)
	}
	if err := between.validate(); err != nil {
		return nil, fmt.Errorf("Clusters: between %w", err)
	}
	if rng == nil && (within.Lo != within.Hi || between.Lo != between.Hi) {
		return nil, fmt.Errorf("Clusters: %w", ErrNeedRandSource)
	}

	group := make([]int, 0, n)
	for g, s := range sizes {
		for k := 0; k < s; k++ {
			group = append(group, g)
		}
	}

	m, err := identity(n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := between
			if group[i] == group[j] {
				r = within
			}
			setPair(m, i, j, r.sample(rng))
		}
	}

	return m, nil
}

func identity(n int) (*matrix.Dense, error) {
	m, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		_ = m.Set(i, i, 1)
	}
	return m, nil
}

// setPair writes v at (i,j) and (j,i); indices are in range by construction.
func setPair(m *matrix.Dense, i, j int, v float64) {
	_ = m.Set(i, j, v)
	_ = m.Set(j, i, v)
}
