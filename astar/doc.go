// Package astar finds minimum-step routes across a warehouse grid.
//
// A Searcher runs classic A* over a *grid.Grid with unit step cost and the
// Manhattan heuristic, which is admissible and consistent on a 4-connected
// unweighted grid, so every returned path is optimal.
//
// Frontier ordering:
//
//   - Min-heap keyed by f = g + h.
//   - Equal f values pop in insertion order; together with the fixed
//     north, south, west, east neighbour order this makes results reproducible.
//   - Improvements push duplicate entries ("lazy decrease-key"); a popped entry
//     whose g no longer matches the recorded best is stale and skipped.
//
// Termination:
//
//   - ExactGoal: stop when the goal itself is popped (default).
//   - AdjacentToGoal: stop on the first popped cell next to the goal; the goal
//     is treated as a shelf that is picked from, not walked onto.
//
// Caching:
//
//   - Cache stores successful results keyed by endpoints and search mode.
//   - Each entry remembers the grid Version it was computed against and is
//     discarded once the grid has changed.
//
// Errors:
//
//   - ErrNilGrid: Searcher built without a grid.
//   - ErrOutOfBounds: start or goal outside the grid.
//   - ErrBudgetExceeded: the expansion limit was hit.
//   - ErrOptionViolation: an invalid Option was supplied.
//
// "No path" is not an error: FindPath returns a Result with Found == false.
//
// Complexity: O(rows·cols·log(rows·cols)) time, O(rows·cols) memory per search.
package astar
