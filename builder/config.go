// SPDX-License-Identifier: MIT
// Package: warepath/builder
//
// config.go - internal configuration and deterministic defaults.
//
// Deterministic defaults (no surprises):
//   • rng         = nil          (stochastic layouts fail with ErrNeedRandSource)
//   • layout      = LayoutOpen
//   • blockedProb = layout default (0.3 open, 0.1 aisles) unless set

package builder

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/katalvlaran/warepath/grid"
)

// Layout selects the floor plan family.
type Layout int

const (
	// LayoutOpen is a storage floor where every non-wall cell is a slot.
	LayoutOpen Layout = iota
	// LayoutAisles interleaves containers with walkable aisles.
	LayoutAisles
)

// Per-layout default blocked probabilities.
const (
	DefaultOpenBlockedProbability   = 0.3
	DefaultAislesBlockedProbability = 0.1
)

// String returns the layout name used in configuration and requests.
func (l Layout) String() string {
	switch l {
	case LayoutOpen:
		return "open"
	case LayoutAisles:
		return "aisles"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// ParseLayout maps "open" or "aisles" (case-insensitive) to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(s) {
	case "open", "":
		return LayoutOpen, nil
	case "aisles":
		return LayoutAisles, nil
	}
	return 0, fmt.Errorf("%w: unknown layout %q", ErrOptionViolation, s)
}

// builderConfig aggregates all knobs. It is passed by value to generators.
type builderConfig struct {
	rng         *rand.Rand
	layout      Layout
	blockedProb float64
	probSet     bool
	keepClear   []grid.Coordinate

	// first invalid option, surfaced by Generate
	err error
}

// newBuilderConfig applies options in order (last wins) and resolves the
// layout-specific default probability.
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{layout: LayoutOpen}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.probSet {
		if cfg.layout == LayoutAisles {
			cfg.blockedProb = DefaultAislesBlockedProbability
		} else {
			cfg.blockedProb = DefaultOpenBlockedProbability
		}
	}
	return cfg
}

// fail records the first option error.
func (c *builderConfig) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}
