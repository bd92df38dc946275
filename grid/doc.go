// Package grid models a warehouse floor as a rectangular occupancy grid.
//
// What:
//
//   - Grid stores one Cell per Coordinate in row-major order.
//   - Cell is a closed tagged variant: Traversable, Blocked, SlotEmpty or
//     SlotOccupied (the only kind that carries a product label).
//   - Neighbors yields the in-bounds, non-Blocked 4-neighbours of a cell in the
//     fixed order north, south, west, east.
//   - Every mutation that changes a cell bumps Version, so derived data such as
//     cached paths can detect that it went stale.
//   - DecodeLayout / Layout translate to and from the string-marker layout used
//     on the wire ("p" aisle, "W" wall, "0" empty slot, anything else a label).
//
// Why:
//
//   - Slot assignment writes labels into SlotEmpty cells.
//   - Path search reads Neighbors and never mutates the grid.
//
// Complexity:
//
//   - At, Set, Neighbors, InBounds: O(1).
//   - FindLabel, Labels, Slots, ResetSlots, Reachable, Clone: O(rows×cols).
//
// Errors:
//
//   - ErrEmptyGrid: a dimension is smaller than one.
//   - ErrNonRectangular: rows of differing lengths.
//   - ErrOutOfBounds: coordinate outside [0,rows)×[0,cols).
//   - ErrEmptyLabel: an occupied slot without a label.
//   - ErrUnknownMarker: an empty string in a layout.
//
// A Grid is not safe for concurrent mutation; callers serialize access.
package grid
