// SPDX-License-Identifier: MIT
// Package: warepath/builder
//
// builder_test.go - unit tests for Generate and Square.

package builder_test

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/warepath/builder"
	"github.com/katalvlaran/warepath/grid"
)

func TestGenerate_Errors(t *testing.T) {
	cases := []struct {
		name string
		rows int
		cols int
		opts []builder.BuilderOption
		want error
	}{
		{"ZeroRows", 0, 3, nil, builder.ErrTooSmall},
		{"NegativeCols", 3, -1, nil, builder.ErrTooSmall},
		{"ProbabilityAboveOne", 3, 3, []builder.BuilderOption{builder.WithBlockedProbability(1.5)}, builder.ErrInvalidProbability},
		{"ProbabilityNegative", 3, 3, []builder.BuilderOption{builder.WithBlockedProbability(-0.1)}, builder.ErrInvalidProbability},
		{"NilRand", 3, 3, []builder.BuilderOption{builder.WithRand(nil)}, builder.ErrOptionViolation},
		{"UnknownLayout", 3, 3, []builder.BuilderOption{builder.WithLayout(builder.Layout(9))}, builder.ErrOptionViolation},
		{"KeepClearOutside", 3, 3, []builder.BuilderOption{builder.WithSeed(1), builder.WithKeepClear(grid.At(5, 5))}, builder.ErrOptionViolation},
		{"NoRandSource", 3, 3, nil, builder.ErrNeedRandSource},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := builder.Generate(tc.rows, tc.cols, tc.opts...)
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, g)
		})
	}
}

func TestGenerate_ZeroProbabilityNeedsNoRand(t *testing.T) {
	g, err := builder.Generate(2, 3, builder.WithBlockedProbability(0))
	require.NoError(t, err)
	assert.Equal(t, 6, g.Count(grid.SlotEmpty))
	assert.Equal(t, 0, g.Count(grid.Blocked))
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := builder.Square(8, 0.3, builder.WithSeed(42))
	require.NoError(t, err)
	b, err := builder.Square(8, 0.3, builder.WithSeed(42))
	require.NoError(t, err)
	if diff := cmp.Diff(a.Layout(), b.Layout()); diff != "" {
		t.Errorf("same seed produced different grids (-a +b):\n%s", diff)
	}

	c, err := builder.Square(8, 0.3, builder.WithRand(rand.New(rand.NewSource(42))))
	require.NoError(t, err)
	assert.Equal(t, a.Layout(), c.Layout(), "WithRand and WithSeed must agree")
}

func TestGenerate_OpenLayout(t *testing.T) {
	g, err := builder.Generate(10, 10, builder.WithSeed(7), builder.WithBlockedProbability(0.3))
	require.NoError(t, err)
	assert.Equal(t, 10, g.Rows())
	assert.Equal(t, 10, g.Cols())
	assert.Equal(t, 100, g.Count(grid.Blocked)+g.Count(grid.SlotEmpty))
	assert.Zero(t, g.Count(grid.Traversable))
	assert.Zero(t, g.Count(grid.SlotOccupied))
}

func TestGenerate_FullProbability(t *testing.T) {
	g, err := builder.Square(4, 1, builder.WithSeed(1))
	require.NoError(t, err)
	assert.Equal(t, 16, g.Count(grid.Blocked))
}

func TestGenerate_AislesLayout(t *testing.T) {
	g, err := builder.Generate(5, 5,
		builder.WithSeed(3),
		builder.WithLayout(builder.LayoutAisles),
		builder.WithBlockedProbability(1),
	)
	require.NoError(t, err)

	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			cell, err := g.At(grid.At(r, c))
			require.NoError(t, err)
			if r%2 == 0 && c%2 == 0 {
				assert.Equal(t, grid.SlotEmpty, cell.Kind, "container at %d,%d", r, c)
			} else {
				assert.Equal(t, grid.Blocked, cell.Kind, "aisle at %d,%d", r, c)
			}
		}
	}
}

func TestGenerate_AislesWithoutWalls(t *testing.T) {
	g, err := builder.Generate(3, 3, builder.WithLayout(builder.LayoutAisles), builder.WithBlockedProbability(0))
	require.NoError(t, err)
	want := [][]string{
		{"0", "p", "0"},
		{"p", "p", "p"},
		{"0", "p", "0"},
	}
	if diff := cmp.Diff(want, g.Layout()); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_KeepClear(t *testing.T) {
	dock := grid.At(0, 0)
	g, err := builder.Square(3, 1, builder.WithSeed(1), builder.WithKeepClear(dock))
	require.NoError(t, err)

	cell, err := g.At(dock)
	require.NoError(t, err)
	assert.True(t, cell.Passable())
	assert.Equal(t, 8, g.Count(grid.Blocked))
}

func TestGenerate_KeepClearPreservesOtherDraws(t *testing.T) {
	plain, err := builder.Square(6, 0.5, builder.WithSeed(11))
	require.NoError(t, err)
	kept, err := builder.Square(6, 0.5, builder.WithSeed(11), builder.WithKeepClear(grid.At(0, 0)))
	require.NoError(t, err)

	want := plain.Layout()
	want[0][0] = grid.MarkerEmptySlot
	assert.Equal(t, want, kept.Layout())
}

func TestParseLayout(t *testing.T) {
	l, err := builder.ParseLayout("Aisles")
	require.NoError(t, err)
	assert.Equal(t, builder.LayoutAisles, l)

	l, err = builder.ParseLayout("")
	require.NoError(t, err)
	assert.Equal(t, builder.LayoutOpen, l)
	assert.Equal(t, "open", l.String())

	_, err = builder.ParseLayout("maze")
	assert.ErrorIs(t, err, builder.ErrOptionViolation)
}
