// SPDX-License-Identifier: MIT
// Package: warepath/builder
//
// errors.go - sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Implementations attach context with %w.

package builder

import "errors"

// ErrTooSmall indicates a row or column count below one.
var ErrTooSmall = errors.New("builder: dimension too small")

// ErrInvalidProbability indicates a blocked probability outside [0,1].
var ErrInvalidProbability = errors.New("builder: probability out of range")

// ErrNeedRandSource indicates a stochastic layout without WithSeed/WithRand.
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrOptionViolation indicates an invalid option value (unknown layout,
// nil rng, out-of-range keep-clear cell).
var ErrOptionViolation = errors.New("builder: invalid option supplied")
