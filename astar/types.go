package astar

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/warepath/grid"
)

// Sentinel errors returned by the search.
var (
	// ErrNilGrid indicates a Searcher without a grid.
	ErrNilGrid = errors.New("astar: grid is nil")

	// ErrOutOfBounds indicates a start or goal outside the grid.
	// It wraps grid.ErrOutOfBounds so either sentinel matches.
	ErrOutOfBounds = fmt.Errorf("astar: %w", grid.ErrOutOfBounds)

	// ErrBudgetExceeded indicates the search expanded more nodes than allowed.
	ErrBudgetExceeded = errors.New("astar: expansion budget exceeded")

	// ErrOptionViolation indicates an invalid Option.
	ErrOptionViolation = errors.New("astar: invalid option supplied")
)

// Termination selects when a search counts as successful.
type Termination int

const (
	// ExactGoal stops when the goal coordinate is popped.
	ExactGoal Termination = iota
	// AdjacentToGoal stops when a cell orthogonally adjacent to the goal is
	// popped. The returned path ends on that cell.
	AdjacentToGoal
)

// String returns the termination name used in configuration.
func (t Termination) String() string {
	switch t {
	case ExactGoal:
		return "exact"
	case AdjacentToGoal:
		return "adjacent"
	default:
		return fmt.Sprintf("termination(%d)", int(t))
	}
}

// ParseTermination maps "exact" or "adjacent" to a Termination.
func ParseTermination(s string) (Termination, error) {
	switch s {
	case "exact", "":
		return ExactGoal, nil
	case "adjacent":
		return AdjacentToGoal, nil
	}
	return 0, fmt.Errorf("%w: unknown termination %q", ErrOptionViolation, s)
}

// Traversal selects which cells a mover may step onto.
type Traversal int

const (
	// AllOpen walks every non-Blocked cell, storage slots included.
	AllOpen Traversal = iota
	// AislesOnly walks Traversable cells only; slots act as shelving.
	AislesOnly
)

// String returns the traversal name used in configuration.
func (t Traversal) String() string {
	switch t {
	case AllOpen:
		return "all"
	case AislesOnly:
		return "aisles"
	default:
		return fmt.Sprintf("traversal(%d)", int(t))
	}
}

// ParseTraversal maps "all" or "aisles" to a Traversal.
func ParseTraversal(s string) (Traversal, error) {
	switch s {
	case "all", "":
		return AllOpen, nil
	case "aisles":
		return AislesOnly, nil
	}
	return 0, fmt.Errorf("%w: unknown traversal %q", ErrOptionViolation, s)
}

// Result is the outcome of one search.
type Result struct {
	// Path runs from start to the terminating cell inclusive; nil when not found.
	Path []grid.Coordinate
	// Costs[i] is the cost of reaching Path[i] from the start.
	Costs []int
	// TotalCost is the number of steps taken.
	TotalCost int
	// Expanded counts nodes popped and expanded.
	Expanded int
	// Found reports whether the goal condition was met.
	Found bool
	// Cached reports whether the result came from the Cache.
	Cached bool
}

// Len returns the number of coordinates on the path.
func (r Result) Len() int { return len(r.Path) }

// Options configures a Searcher.
type Options struct {
	Termination   Termination
	Traversal     Traversal
	Cache         *Cache
	MaxExpansions int // 0 means unlimited

	err error
}

// Option is a functional option for New.
type Option func(*Options)

// DefaultOptions returns exact-goal, all-open search with no cache and no
// expansion limit.
func DefaultOptions() Options {
	return Options{Termination: ExactGoal, Traversal: AllOpen}
}

// WithTermination sets the termination mode.
func WithTermination(t Termination) Option {
	return func(o *Options) {
		if t != ExactGoal && t != AdjacentToGoal {
			o.err = fmt.Errorf("%w: termination %d", ErrOptionViolation, int(t))
			return
		}
		o.Termination = t
	}
}

// WithTraversal sets the traversal policy.
func WithTraversal(t Traversal) Option {
	return func(o *Options) {
		if t != AllOpen && t != AislesOnly {
			o.err = fmt.Errorf("%w: traversal %d", ErrOptionViolation, int(t))
			return
		}
		o.Traversal = t
	}
}

// WithCache attaches a result cache. A nil cache disables caching.
func WithCache(c *Cache) Option {
	return func(o *Options) { o.Cache = c }
}

// WithMaxExpansions bounds the number of expanded nodes per search.
//
//	n > 0: limit to n expansions
//	n == 0: no limit
//	n < 0: invalid → ErrOptionViolation
func WithMaxExpansions(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxExpansions cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxExpansions = n
	}
}
