package warehouse_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/warepath/astar"
	"github.com/katalvlaran/warepath/builder"
	"github.com/katalvlaran/warepath/grid"
	"github.com/katalvlaran/warepath/placement"
	"github.com/katalvlaran/warepath/warehouse"
)

// openConfig is a wall-free 5x5 storage floor.
func openConfig() warehouse.Config {
	return warehouse.Config{Size: 5, BlockedProbability: 0, Seed: 1, CacheSize: 16}
}

func mustTable(t *testing.T, entries ...placement.Entry) placement.FrequencyTable {
	t.Helper()
	table, err := placement.NewFrequencyTable(entries...)
	require.NoError(t, err)
	return table
}

//----------------------------------------------------------------------------//
// Free functions
//----------------------------------------------------------------------------//

func TestFreeFunctions_EndToEnd(t *testing.T) {
	ctx := context.Background()

	g, err := warehouse.GenerateGrid(5, 0)
	require.NoError(t, err)
	assert.Equal(t, 25, g.Count(grid.SlotEmpty))

	table := mustTable(t,
		placement.Entry{Label: "milk", Frequency: 10},
		placement.Entry{Label: "eggs", Frequency: 5},
	)
	out, rep, err := warehouse.ResetAndAssign(g, table)
	require.NoError(t, err)
	assert.Same(t, g, out)
	assert.Len(t, rep.Placements, 2)

	milk, ok := warehouse.Locate(g, "milk")
	require.True(t, ok)
	assert.Equal(t, grid.At(0, 0), milk)

	eggs, ok := warehouse.Locate(g, "eggs")
	require.True(t, ok)
	res, err := warehouse.FindPath(ctx, g, grid.At(4, 4), eggs)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, grid.At(4, 4).Manhattan(eggs), res.TotalCost)

	all, err := warehouse.FindPaths(ctx, g, grid.At(4, 4), g.Labels())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, ok = warehouse.Locate(g, "bread")
	assert.False(t, ok)
}

func TestFreeFunctions_NilGrid(t *testing.T) {
	ctx := context.Background()
	_, _, err := warehouse.ResetAndAssign(nil, placement.FrequencyTable{})
	assert.ErrorIs(t, err, warehouse.ErrNilGrid)
	_, err = warehouse.FindPath(ctx, nil, grid.At(0, 0), grid.At(0, 0))
	assert.ErrorIs(t, err, warehouse.ErrNilGrid)
	_, err = warehouse.FindPaths(ctx, nil, grid.At(0, 0), nil)
	assert.ErrorIs(t, err, warehouse.ErrNilGrid)
	_, ok := warehouse.Locate(nil, "x")
	assert.False(t, ok)
}

func TestGenerateGrid_InvalidProbability(t *testing.T) {
	_, err := warehouse.GenerateGrid(5, 1.2, builder.WithSeed(1))
	assert.ErrorIs(t, err, builder.ErrInvalidProbability)
}

//----------------------------------------------------------------------------//
// Warehouse
//----------------------------------------------------------------------------//

func TestWarehouse_New(t *testing.T) {
	w, err := warehouse.New(openConfig())
	require.NoError(t, err)
	snap := w.Snapshot()
	assert.Equal(t, 5, snap.Rows())
	assert.Equal(t, 25, snap.Count(grid.SlotEmpty))

	_, err = warehouse.New(warehouse.Config{Size: 0})
	assert.ErrorIs(t, err, builder.ErrTooSmall)
}

func TestWarehouse_SeedDeterminism(t *testing.T) {
	cfg := openConfig()
	cfg.BlockedProbability = 0.4
	cfg.Seed = 77

	a, err := warehouse.New(cfg)
	require.NoError(t, err)
	b, err := warehouse.New(cfg)
	require.NoError(t, err)
	if diff := cmp.Diff(a.Snapshot().Layout(), b.Snapshot().Layout()); diff != "" {
		t.Errorf("same seed, different grids (-a +b):\n%s", diff)
	}
}

func TestWarehouse_SnapshotIsolated(t *testing.T) {
	w, err := warehouse.New(openConfig())
	require.NoError(t, err)

	snap := w.Snapshot()
	snap.Set(grid.At(0, 0), grid.Wall())

	cell, err := w.Snapshot().At(grid.At(0, 0))
	require.NoError(t, err)
	assert.Equal(t, grid.SlotEmpty, cell.Kind)
}

func TestWarehouse_AssignAndRoute(t *testing.T) {
	ctx := context.Background()
	w, err := warehouse.New(openConfig())
	require.NoError(t, err)

	table := mustTable(t,
		placement.Entry{Label: "A", Frequency: 1},
		placement.Entry{Label: "B", Frequency: 3},
	)
	got, err := w.Assign(ctx, table)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Report.Placements[0].Label)
	assert.Empty(t, got.Unreachable)
	cell, err := got.Grid.At(grid.At(0, 0))
	require.NoError(t, err)
	assert.Equal(t, grid.Occupied("B"), cell)

	goal, res, err := w.Route(ctx, grid.At(2, 2), "A")
	require.NoError(t, err)
	assert.Equal(t, grid.At(0, 1), goal)
	assert.True(t, res.Found)
	assert.Equal(t, 3, res.TotalCost)

	_, _, err = w.Route(ctx, grid.At(2, 2), "Z")
	assert.ErrorIs(t, err, warehouse.ErrLabelNotFound)

	assert.Equal(t, 2, w.Reset())
	_, ok := w.Locate("A")
	assert.False(t, ok)
}

func TestWarehouse_CacheInvalidatedByMutation(t *testing.T) {
	ctx := context.Background()
	w, err := warehouse.New(openConfig())
	require.NoError(t, err)

	first, err := w.FindPath(ctx, grid.At(0, 0), grid.At(4, 4))
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := w.FindPath(ctx, grid.At(0, 0), grid.At(4, 4))
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Path, second.Path)

	// Assigning bumps the grid version, so the entry goes stale.
	_, err = w.Assign(ctx, mustTable(t, placement.Entry{Label: "x", Frequency: 1}))
	require.NoError(t, err)
	third, err := w.FindPath(ctx, grid.At(0, 0), grid.At(4, 4))
	require.NoError(t, err)
	assert.False(t, third.Cached)

	st := w.CacheStats()
	assert.Equal(t, 1, st.Hits)
	assert.Equal(t, 1, st.Stale)
}

func TestWarehouse_ReplaceClearsCache(t *testing.T) {
	ctx := context.Background()
	w, err := warehouse.New(openConfig())
	require.NoError(t, err)

	_, err = w.FindPath(ctx, grid.At(0, 0), grid.At(0, 2))
	require.NoError(t, err)

	// Same version number as the original grid but a wall in the way.
	g, err := grid.DecodeLayout([][]string{
		{"p", "W", "p"},
		{"p", "W", "p"},
		{"p", "p", "p"},
	})
	require.NoError(t, err)
	require.NoError(t, w.Replace(g))
	assert.Zero(t, w.CacheStats().Size)

	res, err := w.FindPath(ctx, grid.At(0, 0), grid.At(0, 2))
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, 6, res.TotalCost)

	assert.ErrorIs(t, w.Replace(nil), warehouse.ErrNilGrid)
}

func TestWarehouse_Generate(t *testing.T) {
	ctx := context.Background()
	w, err := warehouse.New(openConfig())
	require.NoError(t, err)

	g, err := w.Generate(ctx, 3, 0, builder.WithLayout(builder.LayoutAisles))
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"0", "p", "0"},
		{"p", "p", "p"},
		{"0", "p", "0"},
	}, g.Layout())
	assert.Equal(t, g.Layout(), w.Snapshot().Layout())

	g, err = w.Generate(ctx, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, 5, g.Rows(), "size falls back to the configured value")

	_, err = w.Generate(ctx, 3, 2)
	assert.ErrorIs(t, err, builder.ErrInvalidProbability)

	a, err := w.Generate(ctx, 6, 0.5, builder.WithSeed(9))
	require.NoError(t, err)
	b, err := w.Generate(ctx, 6, 0.5, builder.WithSeed(9))
	require.NoError(t, err)
	assert.Equal(t, a.Layout(), b.Layout(), "a pinned seed repeats the grid")
}

func TestWarehouse_DockSnapping(t *testing.T) {
	cfg := openConfig()
	cfg.Docks = []grid.Coordinate{grid.At(0, 1), grid.At(1, 0)}
	w, err := warehouse.New(cfg)
	require.NoError(t, err)

	assert.Equal(t, grid.At(0, 1), w.SnapStart(grid.At(0, 0)), "tie goes to the first dock")
	assert.Equal(t, grid.At(1, 0), w.SnapStart(grid.At(3, 0)))

	res, err := w.FindPath(context.Background(), grid.At(4, 0), grid.At(4, 4))
	require.NoError(t, err)
	assert.Equal(t, grid.At(1, 0), res.Path[0])
}

func TestWarehouse_DocksKeptClear(t *testing.T) {
	cfg := openConfig()
	cfg.BlockedProbability = 1
	cfg.Docks = []grid.Coordinate{grid.At(0, 1)}
	w, err := warehouse.New(cfg)
	require.NoError(t, err)

	snap := w.Snapshot()
	for _, c := range []grid.Coordinate{grid.At(0, 0), grid.At(0, 1)} {
		cell, err := snap.At(c)
		require.NoError(t, err)
		assert.True(t, cell.Passable(), "%s must stay clear", c)
	}
	assert.Equal(t, 23, snap.Count(grid.Blocked))
}

func TestWarehouse_FindPathsDefaultsToLabels(t *testing.T) {
	ctx := context.Background()
	w, err := warehouse.New(openConfig())
	require.NoError(t, err)
	_, err = w.Assign(ctx, mustTable(t,
		placement.Entry{Label: "a", Frequency: 2},
		placement.Entry{Label: "b", Frequency: 1},
	))
	require.NoError(t, err)

	out, err := w.FindPaths(ctx, grid.At(4, 4), nil)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "b")
}

func TestWarehouse_FindPathsOn(t *testing.T) {
	ctx := context.Background()
	cfg := openConfig()
	cfg.Termination = astar.AdjacentToGoal
	cfg.Traversal = astar.AislesOnly
	w, err := warehouse.New(cfg)
	require.NoError(t, err)

	g, err := grid.DecodeLayout([][]string{
		{"p", "p", "milk"},
		{"p", "W", "W"},
		{"eggs", "W", "W"},
	})
	require.NoError(t, err)

	out, err := w.FindPathsOn(ctx, g, grid.At(0, 0), nil)
	require.NoError(t, err)
	require.Contains(t, out, "milk")
	require.Contains(t, out, "eggs")
	assert.Equal(t, []grid.Coordinate{grid.At(0, 0), grid.At(0, 1)}, out["milk"].Path)
	assert.Equal(t, []grid.Coordinate{grid.At(0, 0), grid.At(1, 0)}, out["eggs"].Path)
	assert.Zero(t, w.CacheStats().Size)

	_, err = w.FindPathsOn(ctx, nil, grid.At(0, 0), nil)
	assert.ErrorIs(t, err, warehouse.ErrNilGrid)
}

func TestWarehouse_ConcurrentUse(t *testing.T) {
	ctx := context.Background()
	w, err := warehouse.New(openConfig())
	require.NoError(t, err)
	table := mustTable(t, placement.Entry{Label: "p1", Frequency: 4}, placement.Entry{Label: "p2", Frequency: 2})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, err := w.Assign(ctx, table)
				assert.NoError(t, err)
				return
			}
			_, err := w.FindPath(ctx, grid.At(4, 4), grid.At(0, 0))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	loc, ok := w.Locate("p1")
	require.True(t, ok)
	assert.Equal(t, grid.At(0, 0), loc)
}

func TestWarehouse_AssignReportsUnreachable(t *testing.T) {
	ctx := context.Background()
	cfg := openConfig()
	cfg.Size = 3
	w, err := warehouse.New(cfg)
	require.NoError(t, err)

	// The right column is walled off from the anchor at (0,0).
	g, err := grid.DecodeLayout([][]string{
		{"0", "W", "0"},
		{"0", "W", "0"},
		{"0", "W", "0"},
	})
	require.NoError(t, err)
	require.NoError(t, w.Replace(g))

	got, err := w.Assign(ctx, mustTable(t,
		placement.Entry{Label: "a", Frequency: 6},
		placement.Entry{Label: "b", Frequency: 5},
		placement.Entry{Label: "c", Frequency: 4},
		placement.Entry{Label: "d", Frequency: 3},
	))
	require.NoError(t, err)
	// Slots by distance: (0,0) a, (1,0) b, (0,2) c, (2,0) d.
	assert.Equal(t, grid.At(0, 2), got.Report.Placements[2].Slot)
	assert.Equal(t, []string{"c"}, got.Unreachable)
}

func TestWarehouse_UnreachableFromDock(t *testing.T) {
	ctx := context.Background()
	cfg := openConfig()
	cfg.Size = 3
	cfg.Docks = []grid.Coordinate{grid.At(0, 2)}
	w, err := warehouse.New(cfg)
	require.NoError(t, err)

	g, err := grid.DecodeLayout([][]string{
		{"0", "W", "p"},
		{"W", "W", "p"},
		{"0", "0", "p"},
	})
	require.NoError(t, err)
	require.NoError(t, w.Replace(g))

	got, err := w.Assign(ctx, mustTable(t,
		placement.Entry{Label: "near", Frequency: 2},
		placement.Entry{Label: "far", Frequency: 1},
	))
	require.NoError(t, err)
	// "near" lands on the anchor slot (0,0), which the dock cannot reach.
	assert.Equal(t, grid.At(0, 0), got.Report.Placements[0].Slot)
	assert.Equal(t, []string{"near"}, got.Unreachable)
}

func TestWarehouse_FindPathsOnIgnoresOutsideDocks(t *testing.T) {
	ctx := context.Background()
	cfg := openConfig()
	cfg.Docks = []grid.Coordinate{grid.At(4, 4)}
	w, err := warehouse.New(cfg)
	require.NoError(t, err)

	g, err := grid.DecodeLayout([][]string{
		{"p", "p", "milk"},
	})
	require.NoError(t, err)

	out, err := w.FindPathsOn(ctx, g, grid.At(0, 0), nil)
	require.NoError(t, err)
	require.Contains(t, out, "milk")
	assert.Equal(t, grid.At(0, 0), out["milk"].Path[0])

	// A dock inside the supplied layout still applies.
	cfg.Docks = []grid.Coordinate{grid.At(4, 4), grid.At(0, 1)}
	w, err = warehouse.New(cfg)
	require.NoError(t, err)
	out, err = w.FindPathsOn(ctx, g, grid.At(0, 0), nil)
	require.NoError(t, err)
	assert.Equal(t, []grid.Coordinate{grid.At(0, 1), grid.At(0, 2)}, out["milk"].Path)
}
