// SPDX-License-Identifier: MIT
// Package: warepath/builder
//
// options.go - functional options for the builder package.
//
// Contract:
//   • Options are functional (type BuilderOption func(*builderConfig)).
//   • Invalid values are recorded and returned by Generate as
//     ErrOptionViolation or ErrInvalidProbability; options never panic,
//     since values often come straight from request parameters.
//   • Determinism is explicit: seeding is done via WithSeed or WithRand.

package builder

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/warepath/grid"
)

// BuilderOption customizes generation by mutating a builderConfig.
type BuilderOption func(*builderConfig)

// WithRand provides an explicit RNG. A nil rng is an option violation.
func WithRand(r *rand.Rand) BuilderOption {
	return func(c *builderConfig) {
		if r == nil {
			c.fail(fmt.Errorf("%w: WithRand(nil)", ErrOptionViolation))
			return
		}
		c.rng = r
	}
}

// WithSeed creates a new *rand.Rand with the given seed (deterministic).
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithBlockedProbability sets the chance that a candidate cell is a wall.
// p must lie in [0,1].
func WithBlockedProbability(p float64) BuilderOption {
	return func(c *builderConfig) {
		if p < 0 || p > 1 || math.IsNaN(p) {
			c.fail(fmt.Errorf("%w: p=%v not in [0,1]", ErrInvalidProbability, p))
			return
		}
		c.blockedProb = p
		c.probSet = true
	}
}

// WithLayout selects the floor plan.
func WithLayout(l Layout) BuilderOption {
	return func(c *builderConfig) {
		if l != LayoutOpen && l != LayoutAisles {
			c.fail(fmt.Errorf("%w: layout %d", ErrOptionViolation, int(l)))
			return
		}
		c.layout = l
	}
}

// WithKeepClear guarantees the given cells are not walls, e.g. loading
// docks or the default start position.
func WithKeepClear(cells ...grid.Coordinate) BuilderOption {
	return func(c *builderConfig) {
		c.keepClear = append(c.keepClear, cells...)
	}
}
