package astar

import (
	"container/heap"
	"context"
	"fmt"
	"sort"

	"github.com/katalvlaran/warepath/grid"
)

// ctxCheckInterval is how many expansions run between context checks.
const ctxCheckInterval = 256

// Searcher runs A* queries against one grid. It holds no per-query state,
// but it reads the grid, so callers must not mutate the grid mid-search.
type Searcher struct {
	g    *grid.Grid
	opts Options
}

// New returns a Searcher over g configured by opts.
// Invalid options are reported by the first FindPath call.
func New(g *grid.Grid, opts ...Option) *Searcher {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Searcher{g: g, opts: cfg}
}

// Heuristic is the Manhattan distance between a and b.
func Heuristic(a, b grid.Coordinate) int {
	return a.Manhattan(b)
}

// FindPath returns a minimum-step path from start to goal.
//
// Preconditions and validation (in order):
//  1. Options are valid (ErrOptionViolation).
//  2. The grid is non-nil (ErrNilGrid).
//  3. start and goal lie within the grid (ErrOutOfBounds).
//
// A missing route is reported as Result{Found: false} with a nil error.
func (s *Searcher) FindPath(ctx context.Context, start, goal grid.Coordinate) (Result, error) {
	if err := s.validate(start, goal); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	key := CacheKey{Start: start, Goal: goal, Termination: s.opts.Termination, Traversal: s.opts.Traversal}
	if s.opts.Cache != nil {
		if res, ok := s.opts.Cache.Get(key, s.g.Version()); ok {
			res.Cached = true
			return res, nil
		}
	}

	r := newRunner(s, start, goal)
	res, err := r.run(ctx)
	if err != nil {
		return Result{}, err
	}
	if res.Found && s.opts.Cache != nil {
		s.opts.Cache.Put(key, s.g.Version(), res)
	}
	return res, nil
}

// FindPaths resolves every goal independently from the same start. Labels
// with no route are omitted from the result. Goals are processed in sorted
// label order so repeated calls behave identically.
func (s *Searcher) FindPaths(ctx context.Context, start grid.Coordinate, goals map[string]grid.Coordinate) (map[string]Result, error) {
	labels := make([]string, 0, len(goals))
	for label := range goals {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	out := make(map[string]Result, len(goals))
	for _, label := range labels {
		res, err := s.FindPath(ctx, start, goals[label])
		if err != nil {
			return nil, fmt.Errorf("astar: goal %q: %w", label, err)
		}
		if res.Found {
			out[label] = res
		}
	}
	return out, nil
}

func (s *Searcher) validate(start, goal grid.Coordinate) error {
	if s.opts.err != nil {
		return s.opts.err
	}
	if s.g == nil {
		return ErrNilGrid
	}
	if !s.g.InBounds(start) {
		return fmt.Errorf("%w: start %s not in %dx%d grid", ErrOutOfBounds, start, s.g.Rows(), s.g.Cols())
	}
	if !s.g.InBounds(goal) {
		return fmt.Errorf("%w: goal %s not in %dx%d grid", ErrOutOfBounds, goal, s.g.Rows(), s.g.Cols())
	}
	return nil
}

// runner holds the mutable state of a single search.
type runner struct {
	s        *Searcher
	start    grid.Coordinate
	goal     grid.Coordinate
	open     frontier
	gScore   map[grid.Coordinate]int
	cameFrom map[grid.Coordinate]grid.Coordinate
	seq      uint64
	expanded int
}

func newRunner(s *Searcher, start, goal grid.Coordinate) *runner {
	size := s.g.Rows() * s.g.Cols()
	return &runner{
		s:        s,
		start:    start,
		goal:     goal,
		open:     make(frontier, 0, size),
		gScore:   make(map[grid.Coordinate]int, size),
		cameFrom: make(map[grid.Coordinate]grid.Coordinate, size),
	}
}

func (r *runner) push(node grid.Coordinate, g int) {
	heap.Push(&r.open, frontierItem{node: node, g: g, f: g + Heuristic(node, r.goal), seq: r.seq})
	r.seq++
}

// run is the main A* loop.
func (r *runner) run(ctx context.Context) (Result, error) {
	// 1) Trivial query: already standing on the goal.
	if r.start == r.goal {
		return Result{Path: []grid.Coordinate{r.start}, Costs: []int{0}, Found: true}, nil
	}

	// 2) Seed the frontier with the start.
	r.gScore[r.start] = 0
	r.push(r.start, 0)

	maxExp := r.s.opts.MaxExpansions
	for r.open.Len() > 0 {
		item := heap.Pop(&r.open).(frontierItem)
		current := item.node

		// 3) Skip stale entries superseded by a cheaper push.
		if item.g != r.gScore[current] {
			continue
		}

		// 4) Goal test.
		if r.done(current) {
			return r.result(current), nil
		}

		// 5) Enforce budget and cancellation.
		r.expanded++
		if maxExp > 0 && r.expanded > maxExp {
			return Result{}, fmt.Errorf("%w: %d expansions from %s to %s", ErrBudgetExceeded, maxExp, r.start, r.goal)
		}
		if r.expanded%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}

		// 6) Relax neighbours in fixed order.
		tentative := item.g + 1
		for _, n := range r.neighbors(current) {
			if prev, seen := r.gScore[n]; seen && tentative >= prev {
				continue
			}
			r.gScore[n] = tentative
			r.cameFrom[n] = current
			r.push(n, tentative)
		}
	}

	return Result{Expanded: r.expanded}, nil
}

// done applies the termination policy to a popped coordinate.
func (r *runner) done(c grid.Coordinate) bool {
	if r.s.opts.Termination == AdjacentToGoal {
		return c.Manhattan(r.goal) == 1
	}
	return c == r.goal
}

// neighbors applies the traversal policy on top of grid.Neighbors.
func (r *runner) neighbors(c grid.Coordinate) []grid.Coordinate {
	all := r.s.g.Neighbors(c)
	if r.s.opts.Traversal == AllOpen {
		return all
	}
	out := all[:0]
	for _, n := range all {
		// ExactGoal under AislesOnly still needs to step onto the goal shelf.
		if n == r.goal && r.s.opts.Termination == ExactGoal {
			out = append(out, n)
			continue
		}
		if cell, _ := r.s.g.At(n); cell.Kind == grid.Traversable {
			out = append(out, n)
		}
	}
	return out
}

// result rebuilds the path by following cameFrom back to the start.
func (r *runner) result(end grid.Coordinate) Result {
	path := []grid.Coordinate{end}
	for cur := end; cur != r.start; {
		prev, ok := r.cameFrom[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	costs := make([]int, len(path))
	for i, c := range path {
		costs[i] = r.gScore[c]
	}

	return Result{
		Path:      path,
		Costs:     costs,
		TotalCost: r.gScore[end],
		Expanded:  r.expanded,
		Found:     true,
	}
}
