package warehouse

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/katalvlaran/warepath/astar"
	"github.com/katalvlaran/warepath/builder"
	"github.com/katalvlaran/warepath/grid"
	"github.com/katalvlaran/warepath/internal/ctxlog"
	"github.com/katalvlaran/warepath/internal/metrics"
	"github.com/katalvlaran/warepath/placement"
)

// Config describes how a Warehouse generates its grid and answers queries.
type Config struct {
	Size               int
	BlockedProbability float64
	Layout             builder.Layout
	Seed               int64 // 0 picks a time-based seed

	Termination   astar.Termination
	Traversal     astar.Traversal
	CacheSize     int
	MaxExpansions int

	Anchor grid.Coordinate
	// Docks are the permitted start cells. When non-empty every requested
	// start is replaced by the nearest dock.
	Docks []grid.Coordinate
}

// Warehouse owns one grid and serializes every operation on it.
type Warehouse struct {
	mu       sync.Mutex
	cfg      Config
	g        *grid.Grid
	rng      *rand.Rand
	cache    *astar.Cache
	assigner *placement.Assigner
}

// New creates a Warehouse and generates its initial grid.
func New(cfg Config) (*Warehouse, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w := &Warehouse{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(seed)),
		cache:    astar.NewCache(cfg.CacheSize),
		assigner: placement.New(placement.WithAnchor(cfg.Anchor)),
	}
	g, err := w.generate(cfg.Size, cfg.BlockedProbability)
	if err != nil {
		return nil, fmt.Errorf("warehouse: initial grid: %w", err)
	}
	w.g = g
	return w, nil
}

// generate draws a grid from the shared rng in the configured layout; extra
// options (WithSeed, WithLayout) override both. Docks and the anchor are kept
// clear when they fit the requested size. Callers hold mu or own w.
func (w *Warehouse) generate(size int, p float64, extra ...builder.BuilderOption) (*grid.Grid, error) {
	var keep []grid.Coordinate
	for _, c := range append([]grid.Coordinate{w.cfg.Anchor}, w.cfg.Docks...) {
		if c.Row >= 0 && c.Row < size && c.Col >= 0 && c.Col < size {
			keep = append(keep, c)
		}
	}
	opts := []builder.BuilderOption{
		builder.WithRand(w.rng),
		builder.WithLayout(w.cfg.Layout),
		builder.WithKeepClear(keep...),
	}
	return builder.Square(size, p, append(opts, extra...)...)
}

// Config returns the configuration the Warehouse was created with.
func (w *Warehouse) Config() Config { return w.cfg }

// Snapshot returns a copy of the current grid.
func (w *Warehouse) Snapshot() *grid.Grid {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.g.Clone()
}

// Replace swaps in a copy of g and drops cached paths.
func (w *Warehouse) Replace(g *grid.Grid) error {
	if g == nil {
		return ErrNilGrid
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.g = g.Clone()
	w.cache.Clear()
	return nil
}

// Generate replaces the grid with a freshly generated one. A size below one
// or a negative probability selects the configured value; opts may change
// the layout or pin a seed. Returns a copy.
func (w *Warehouse) Generate(ctx context.Context, size int, p float64, opts ...builder.BuilderOption) (*grid.Grid, error) {
	if size < 1 {
		size = w.cfg.Size
	}
	if p < 0 {
		p = w.cfg.BlockedProbability
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	g, err := w.generate(size, p, opts...)
	if err != nil {
		return nil, err
	}
	w.g = g
	w.cache.Clear()

	ctxlog.FromContext(ctx).Info("Generated warehouse grid.",
		"size", size, "blocked_probability", p, "walls", g.Count(grid.Blocked), "slots", g.Count(grid.SlotEmpty))
	return g.Clone(), nil
}

// Assignment is the outcome of Warehouse.Assign.
type Assignment struct {
	// Grid is a copy of the grid after assignment.
	Grid   *grid.Grid
	Report placement.Report
	// Unreachable lists placed products whose slot is walled off from the
	// pick origin, in placement order.
	Unreachable []string
}

// Assign resets every slot and places the products of table.
func (w *Warehouse) Assign(ctx context.Context, table placement.FrequencyTable) (Assignment, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rep, err := w.assigner.Assign(w.g, table)
	if err != nil {
		return Assignment{}, err
	}
	metrics.ObservePlacement(len(rep.Unassigned))
	origin := w.pickOrigin()
	unreachable := unreachablePlacements(w.g, origin, rep.Placements)

	logger := ctxlog.FromContext(ctx)
	logger.Info("Assigned products to slots.",
		"placed", len(rep.Placements), "unassigned", len(rep.Unassigned), "cleared", rep.Cleared,
		"weighted_distance", rep.WeightedDistance)
	if rep.Saturated {
		logger.Warn("Not enough empty slots for every product.", "unassigned", rep.Unassigned)
	}
	if len(unreachable) > 0 {
		logger.Warn("Products placed out of reach of the pick origin.",
			"origin", origin.String(), "unreachable", unreachable)
	}
	return Assignment{Grid: w.g.Clone(), Report: rep, Unreachable: unreachable}, nil
}

// pickOrigin is where pickers start: the dock nearest the placement anchor,
// or the anchor itself without docks.
func (w *Warehouse) pickOrigin() grid.Coordinate {
	return snapStart(w.g, w.cfg.Docks, w.assigner.Anchor())
}

// unreachablePlacements returns the labels whose slot is not connected to
// origin through passable cells. A walled-in origin reaches nothing.
func unreachablePlacements(g *grid.Grid, origin grid.Coordinate, placements []placement.Placement) []string {
	if len(placements) == 0 {
		return nil
	}
	reach := make(map[grid.Coordinate]bool)
	for _, c := range g.Reachable(origin) {
		reach[c] = true
	}
	var out []string
	for _, p := range placements {
		if !reach[p.Slot] {
			out = append(out, p.Label)
		}
	}
	return out
}

// Reset empties every occupied slot and returns how many were cleared.
func (w *Warehouse) Reset() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.g.ResetSlots()
}

// Locate returns the slot holding label.
func (w *Warehouse) Locate(label string) (grid.Coordinate, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.g.FindLabel(label)
}

// SnapStart returns the dock nearest to start on the held grid, or start
// itself when no dock is configured. Ties go to the dock listed first.
func (w *Warehouse) SnapStart(start grid.Coordinate) grid.Coordinate {
	w.mu.Lock()
	defer w.mu.Unlock()
	return snapStart(w.g, w.cfg.Docks, start)
}

// snapStart picks the nearest dock that lies inside g. Docks outside g are
// ignored, so a smaller caller-supplied layout is searched from start.
func snapStart(g *grid.Grid, docks []grid.Coordinate, start grid.Coordinate) grid.Coordinate {
	best, found := start, false
	for _, d := range docks {
		if !g.InBounds(d) {
			continue
		}
		if !found || d.Manhattan(start) < best.Manhattan(start) {
			best, found = d, true
		}
	}
	return best
}

// searchOptions returns the configured search options, with or without the
// shared cache.
func (w *Warehouse) searchOptions(cached bool) []astar.Option {
	opts := []astar.Option{
		astar.WithTermination(w.cfg.Termination),
		astar.WithTraversal(w.cfg.Traversal),
		astar.WithMaxExpansions(w.cfg.MaxExpansions),
	}
	if cached {
		opts = append(opts, astar.WithCache(w.cache))
	}
	return opts
}

// FindPath searches the held grid from the (snapped) start to goal.
func (w *Warehouse) FindPath(ctx context.Context, start, goal grid.Coordinate) (astar.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.findPath(ctx, snapStart(w.g, w.cfg.Docks, start), goal)
}

func (w *Warehouse) findPath(ctx context.Context, start, goal grid.Coordinate) (astar.Result, error) {
	began := time.Now()
	res, err := astar.New(w.g, w.searchOptions(true)...).FindPath(ctx, start, goal)
	observe(res, err, time.Since(began))
	if err != nil {
		return astar.Result{}, err
	}
	ctxlog.FromContext(ctx).Debug("Path query finished.",
		"start", start.String(), "goal", goal.String(), "found", res.Found,
		"cost", res.TotalCost, "expanded", res.Expanded, "cached", res.Cached)
	return res, nil
}

// FindPaths searches the held grid from the (snapped) start to every goal.
// A nil goals map routes to every product currently on the grid.
func (w *Warehouse) FindPaths(ctx context.Context, start grid.Coordinate, goals map[string]grid.Coordinate) (map[string]astar.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if goals == nil {
		goals = w.g.Labels()
	}
	return w.findPaths(ctx, w.g, start, goals, true)
}

// FindPathsOn searches a caller-supplied grid with this Warehouse's search
// settings. The held grid and the cache are not touched.
func (w *Warehouse) FindPathsOn(ctx context.Context, g *grid.Grid, start grid.Coordinate, goals map[string]grid.Coordinate) (map[string]astar.Result, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	if goals == nil {
		goals = g.Labels()
	}
	return w.findPaths(ctx, g, start, goals, false)
}

func (w *Warehouse) findPaths(ctx context.Context, g *grid.Grid, start grid.Coordinate, goals map[string]grid.Coordinate, cached bool) (map[string]astar.Result, error) {
	start = snapStart(g, w.cfg.Docks, start)
	s := astar.New(g, w.searchOptions(cached)...)

	began := time.Now()
	out, err := s.FindPaths(ctx, start, goals)
	if err != nil {
		metrics.ObservePathQuery(metrics.ResultError, false, 0, time.Since(began))
		return nil, err
	}
	elapsed := time.Since(began)
	perGoal := elapsed / time.Duration(max(1, len(goals)))
	for _, res := range out {
		metrics.ObservePathQuery(metrics.ResultFound, res.Cached, res.Expanded, perGoal)
	}
	for i := 0; i < len(goals)-len(out); i++ {
		metrics.ObservePathQuery(metrics.ResultNoPath, false, 0, perGoal)
	}

	ctxlog.FromContext(ctx).Debug("Multi-goal path query finished.",
		"start", start.String(), "goals", len(goals), "found", len(out), "elapsed", elapsed)
	return out, nil
}

// Route locates label and searches a path to it from the (snapped) start.
// Returns ErrLabelNotFound when no slot holds label.
func (w *Warehouse) Route(ctx context.Context, start grid.Coordinate, label string) (grid.Coordinate, astar.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	goal, ok := w.g.FindLabel(label)
	if !ok {
		metrics.ObservePathQuery(metrics.ResultNotFound, false, 0, 0)
		return grid.Coordinate{}, astar.Result{}, fmt.Errorf("%w: %q", ErrLabelNotFound, label)
	}
	res, err := w.findPath(ctx, snapStart(w.g, w.cfg.Docks, start), goal)
	return goal, res, err
}

// CacheStats reports the path cache counters.
func (w *Warehouse) CacheStats() astar.CacheStats {
	return w.cache.Stats()
}

func observe(res astar.Result, err error, elapsed time.Duration) {
	switch {
	case err != nil:
		metrics.ObservePathQuery(metrics.ResultError, false, 0, elapsed)
	case res.Found:
		metrics.ObservePathQuery(metrics.ResultFound, res.Cached, res.Expanded, elapsed)
	default:
		metrics.ObservePathQuery(metrics.ResultNoPath, false, res.Expanded, elapsed)
	}
}
