// SPDX-License-Identifier: MIT
// Package: warepath/builder
//
// api.go - public entry points.
//
// Contract:
//   • rows ≥ 1 and cols ≥ 1 (else ErrTooSmall).
//   • Option errors are reported before any work is done.
//   • A stochastic run (p > 0) requires an rng (else ErrNeedRandSource).
//   • Same dimensions, options and seed ⇒ identical grid.

package builder

import (
	"fmt"

	"github.com/katalvlaran/warepath/grid"
)

const methodGenerate = "Generate"

// Generate builds a rows×cols grid according to opts.
// Complexity: O(rows·cols) time and memory.
func Generate(rows, cols int, opts ...BuilderOption) (*grid.Grid, error) {
	// 1) Resolve configuration and surface option errors first.
	cfg := newBuilderConfig(opts...)
	if cfg.err != nil {
		return nil, fmt.Errorf("%s: %w", methodGenerate, cfg.err)
	}

	// 2) Validate dimensions.
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%s: rows=%d, cols=%d (each must be ≥ 1): %w", methodGenerate, rows, cols, ErrTooSmall)
	}
	for _, c := range cfg.keepClear {
		if c.Row < 0 || c.Row >= rows || c.Col < 0 || c.Col >= cols {
			return nil, fmt.Errorf("%s: keep-clear %s outside %dx%d: %w", methodGenerate, c, rows, cols, ErrOptionViolation)
		}
	}

	// 3) Randomness is only needed when walls can appear.
	if cfg.blockedProb > 0 && cfg.rng == nil {
		return nil, fmt.Errorf("%s: p=%v: %w", methodGenerate, cfg.blockedProb, ErrNeedRandSource)
	}

	// 4) Emit cells in row-major order.
	g, err := grid.New(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodGenerate, err)
	}
	keep := make(map[grid.Coordinate]bool, len(cfg.keepClear))
	for _, c := range cfg.keepClear {
		keep[c] = true
	}

	emit := emitOpen
	if cfg.layout == LayoutAisles {
		emit = emitAisles
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			at := grid.At(r, c)
			g.Set(at, emit(at, cfg, keep[at]))
		}
	}

	return g, nil
}

// Square builds a size×size grid with the given blocked probability, the
// shape the demo endpoints request.
func Square(size int, blockedProbability float64, opts ...BuilderOption) (*grid.Grid, error) {
	all := append([]BuilderOption{WithBlockedProbability(blockedProbability)}, opts...)
	return Generate(size, size, all...)
}

// draw consumes one Bernoulli(p) trial. With p == 0 no rng is touched.
func draw(cfg builderConfig) bool {
	if cfg.blockedProb == 0 {
		return false
	}
	return cfg.rng.Float64() < cfg.blockedProb
}

// emitOpen: wall with probability p, otherwise storage floor.
func emitOpen(_ grid.Coordinate, cfg builderConfig, clear bool) grid.Cell {
	if draw(cfg) && !clear {
		return grid.Wall()
	}
	return grid.EmptySlot()
}

// emitAisles: containers on even/even cells, aisles elsewhere; only aisles
// may be walled.
func emitAisles(at grid.Coordinate, cfg builderConfig, clear bool) grid.Cell {
	if at.Row%2 == 0 && at.Col%2 == 0 {
		return grid.EmptySlot()
	}
	if draw(cfg) && !clear {
		return grid.Wall()
	}
	return grid.Open()
}
