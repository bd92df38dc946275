// Package placement assigns products to storage slots by demand.
//
// The Assigner is a greedy, reproducible heuristic:
//
//  1. Every occupied slot on the grid is emptied (walls are never touched),
//     so repeated runs with the same table give the same layout.
//  2. Empty slots are ranked by Manhattan distance to an anchor (the origin
//     by default); equal distances keep row-major order.
//  3. Products are ranked by descending frequency; equal frequencies keep the
//     order in which they first appeared in the FrequencyTable.
//  4. Each product in turn takes the nearest remaining slot. Products left
//     over when slots run out are reported as unassigned; that is a normal
//     saturated result, not an error.
//
// The result is not a global optimum of Σ frequency×distance (that would be
// a weighted bipartite matching); it is the documented nearest-first policy.
//
// Errors:
//
//   - ErrNilGrid: no grid supplied.
//   - ErrOutOfBounds: anchor outside the grid.
//   - ErrEmptyLabel, ErrNegativeFrequency, ErrReservedLabel: invalid table entries.
package placement
