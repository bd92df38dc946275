package warehouse

import (
	"context"
	"errors"

	"github.com/katalvlaran/warepath/astar"
	"github.com/katalvlaran/warepath/builder"
	"github.com/katalvlaran/warepath/grid"
	"github.com/katalvlaran/warepath/placement"
)

// Sentinel errors returned by this package.
var (
	ErrNilGrid         = errors.New("warehouse: grid is nil")
	ErrLabelNotFound   = errors.New("warehouse: product not found")
	ErrUnknownSession  = errors.New("warehouse: unknown session")
	ErrTooManySessions = errors.New("warehouse: session limit reached")
)

// GenerateGrid builds a size×size grid in which each cell is a wall with
// the given probability.
func GenerateGrid(size int, blockedProbability float64, opts ...builder.BuilderOption) (*grid.Grid, error) {
	return builder.Square(size, blockedProbability, opts...)
}

// ResetAndAssign clears every slot of g and places the products of table
// nearest-first by frequency. g is mutated and returned.
func ResetAndAssign(g *grid.Grid, table placement.FrequencyTable, opts ...placement.Option) (*grid.Grid, placement.Report, error) {
	if g == nil {
		return nil, placement.Report{}, ErrNilGrid
	}
	rep, err := placement.New(opts...).Assign(g, table)
	if err != nil {
		return nil, placement.Report{}, err
	}
	return g, rep, nil
}

// FindPath searches g from start to goal.
func FindPath(ctx context.Context, g *grid.Grid, start, goal grid.Coordinate, opts ...astar.Option) (astar.Result, error) {
	if g == nil {
		return astar.Result{}, ErrNilGrid
	}
	return astar.New(g, opts...).FindPath(ctx, start, goal)
}

// FindPaths searches g from start to every goal. Unreachable labels are
// omitted from the result.
func FindPaths(ctx context.Context, g *grid.Grid, start grid.Coordinate, goals map[string]grid.Coordinate, opts ...astar.Option) (map[string]astar.Result, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	return astar.New(g, opts...).FindPaths(ctx, start, goals)
}

// Locate returns the first slot holding label in row-major order.
func Locate(g *grid.Grid, label string) (grid.Coordinate, bool) {
	if g == nil {
		return grid.Coordinate{}, false
	}
	return g.FindLabel(label)
}
